package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveAnonymousFallback(t *testing.T) {
	t.Setenv("GAME_USER_ID", "")
	t.Setenv("GAME_SESSION_TOKEN", "")

	sc := Resolve(testLogger())
	assert.True(t, strings.HasPrefix(sc.UserID, "local-"), "expected anonymous id, got %s", sc.UserID)
	assert.Empty(t, sc.Token)

	// Anonymous ids must differ between sessions.
	other := Resolve(testLogger())
	assert.NotEqual(t, sc.UserID, other.UserID)
}

func TestResolveHostIdentity(t *testing.T) {
	t.Setenv("GAME_USER_ID", "tg-12345")
	t.Setenv("GAME_SESSION_TOKEN", "tok")

	sc := Resolve(testLogger())
	assert.Equal(t, "tg-12345", sc.UserID)
	assert.Equal(t, "tok", sc.Token)
}

func TestNewVerifierUnconfigured(t *testing.T) {
	assert.Nil(t, NewVerifier("", testLogger()))
}

func TestVerify(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotToken = body["token"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL, testLogger())
	require.NotNil(t, v)
	require.NoError(t, v.Verify(context.Background(), "tok-1"))
	assert.Equal(t, "tok-1", gotToken)
}

func TestVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL, testLogger())
	assert.Error(t, v.Verify(context.Background(), "bad"))
}

func TestVerifyEmptyTokenSkips(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL, testLogger())
	require.NoError(t, v.Verify(context.Background(), ""))
	assert.False(t, called, "empty token must not hit the endpoint")
}
