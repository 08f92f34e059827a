// Package session resolves the identity the save store is keyed by.
// The embedding host (e.g. a messenger web-app container) may supply a
// user id and a session token; when it does not, the player becomes an
// anonymous local user. A failed bridge is a degraded state, never an
// error that reaches gameplay.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// Context identifies the player for persistence and verification.
type Context struct {
	UserID string
	Token  string
}

// Resolve reads the host-provided identity from the environment,
// falling back to a generated anonymous id when the host supplies
// nothing.
func Resolve(logger *slog.Logger) Context {
	userID := os.Getenv("GAME_USER_ID")
	if userID == "" {
		userID = "local-" + uuid.NewString()
		logger.Debug("No host identity, using anonymous user", "user", userID)
	}
	return Context{
		UserID: userID,
		Token:  os.Getenv("GAME_SESSION_TOKEN"),
	}
}

// Verifier performs the optional out-of-band token check. Its failure
// only ever affects a warning toast, never gameplay state.
type Verifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewVerifier returns nil when no verification endpoint is configured.
func NewVerifier(url string, logger *slog.Logger) *Verifier {
	if url == "" {
		return nil
	}
	return &Verifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Verify posts the session token to the verification endpoint. An
// empty token is trivially valid (anonymous play).
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("session verification request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("session verification rejected: status %d", resp.StatusCode)
	}

	v.logger.Debug("Session token verified")
	return nil
}
