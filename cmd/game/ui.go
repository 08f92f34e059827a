package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deadtrain/engine/internal/game"
	"github.com/deadtrain/engine/internal/input"
	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
)

const (
	tickInterval  = 50 * time.Millisecond
	toastLifetime = 4 * time.Second
	fadeDuration  = 150 * time.Millisecond
)

// shell is the terminal-side implementation of the engine's
// collaborators. Everything runs on the bubbletea goroutine except
// fades, which just pace the transition.
type shell struct {
	toast   string
	toastAt time.Time
	log     []string
	ambient string
	faded   bool

	dialogue *dialogue.Runtime
}

func newShell() *shell {
	return &shell{ambient: "train"}
}

func (s *shell) Show(text string) {
	s.toast = text
	s.toastAt = time.Now()
	s.log = append(s.log, text)
	if len(s.log) > 100 {
		s.log = s.log[len(s.log)-100:]
	}
}

func (s *shell) PlayStep() {}

func (s *shell) PlayAmbient(mode string) {
	s.ambient = mode
}

func (s *shell) FadeOut(ctx context.Context) error {
	s.faded = true
	select {
	case <-time.After(fadeDuration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *shell) FadeIn(ctx context.Context) error {
	s.faded = false
	return nil
}

func (s *shell) currentToast() string {
	if s.toast == "" || time.Since(s.toastAt) > toastLifetime {
		return ""
	}
	return s.toast
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	darkSceneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	dialogueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// GameUI is the BubbleTea model that runs the terminal client.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	engine     *game.Engine
	router     *input.Router
	shell      *shell
	recognizer *input.Recognizer
	userID     string

	logViewport viewport.Model
	width       int
	height      int
	ready       bool
	lastTick    time.Time
	titleCaser  cases.Caser
}

type tickMsg time.Time

func NewGameUI(engine *game.Engine, router *input.Router, sh *shell, userID string) *GameUI {
	ui := &GameUI{
		engine:     engine,
		router:     router,
		shell:      sh,
		userID:     userID,
		lastTick:   time.Now(),
		titleCaser: cases.Title(language.English),
	}
	ui.recognizer = input.NewRecognizer(func(event input.PointerEvent, kind input.Kind) {
		router.Dispatch(context.Background(), event, kind)
	}, time.Now)
	return ui
}

func (m *GameUI) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		delta := now.Sub(m.lastTick).Seconds()
		if delta > 0.25 {
			delta = 0.25 // clamp after a suspended terminal
		}
		m.lastTick = now
		m.engine.Tick(delta)
		m.recognizer.Tick()
		m.syncLog()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := 6
		if !m.ready {
			m.logViewport = viewport.New(msg.Width-4, logHeight)
			m.ready = true
		} else {
			m.logViewport.Width = msg.Width - 4
			m.logViewport.Height = logHeight
		}
		return m, nil

	case tea.MouseMsg:
		event := m.toPointerEvent(msg)
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.recognizer.PointerDown(event)
			}
		case tea.MouseActionMotion:
			m.recognizer.PointerMove(event)
		case tea.MouseActionRelease:
			m.recognizer.PointerUp(event)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *GameUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rt := m.shell.dialogue
	if rt != nil && !rt.IsOpen() {
		m.shell.dialogue = nil
		rt = nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if rt != nil {
			rt.Close()
			return m, nil
		}
		return m, tea.Quit

	case "enter", " ":
		if rt != nil {
			rt.Continue()
		}
		return m, nil

	case "c":
		m.copySaveToClipboard()
		return m, nil
	}

	// Digits pick dialogue choices.
	if rt != nil && rt.Current() != nil && rt.Current().Kind == dialogue.NodeChoice {
		if n := int(msg.String()[0] - '0'); len(msg.String()) == 1 && n >= 1 && n <= len(rt.Current().Options) {
			rt.Select(rt.Current().Options[n-1].ID)
		}
	}
	return m, nil
}

// copySaveToClipboard serializes the current session onto the system
// clipboard, for bug reports and manual backups.
func (m *GameUI) copySaveToClipboard() {
	save := state.CreateSave(m.engine.State())
	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		m.shell.Show("Could not serialize the save.")
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.shell.Show("Clipboard is not available here.")
		return
	}
	m.shell.Show("Save copied to clipboard.")
}

// toPointerEvent maps terminal cell coordinates onto the virtual
// screen the hit tester works in.
func (m *GameUI) toPointerEvent(msg tea.MouseMsg) input.PointerEvent {
	cfg := m.engine.State().Config
	if m.width == 0 || m.height == 0 {
		return input.PointerEvent{}
	}
	return input.PointerEvent{
		X: float64(msg.X) / float64(m.width) * cfg.VirtualWidth,
		Y: float64(msg.Y) / float64(m.height) * cfg.VirtualHeight,
	}
}

func (m *GameUI) syncLog() {
	if !m.ready {
		return
	}
	wrapped := make([]string, 0, len(m.shell.log))
	for _, line := range m.shell.log {
		wrapped = append(wrapped, wordwrap.String(line, m.logViewport.Width))
	}
	m.logViewport.SetContent(strings.Join(wrapped, "\n"))
	m.logViewport.GotoBottom()
}

func (m *GameUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	gs := m.engine.State()
	var b strings.Builder

	title := gs.Wagon.Title
	if title == "" {
		title = gs.Wagon.ID
	}
	b.WriteString(titleStyle.Render("DEAD TRAIN") + "  " + hudStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(m.renderScene(gs))
	b.WriteString("\n")

	if rt := m.shell.dialogue; rt != nil && rt.IsOpen() {
		b.WriteString(m.renderDialogue(rt))
	} else if toast := m.shell.currentToast(); toast != "" {
		b.WriteString(toastStyle.Render(wordwrap.String(toast, m.width-2)))
		b.WriteString("\n")
	}

	b.WriteString(m.logViewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderHUD(gs))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("click: walk/interact  hold: inspect  c: copy save  q: quit"))
	return b.String()
}

// renderScene draws the wagon as a character grid in grid coordinates:
// navmesh tiles, targets by kind, the move marker and the player.
func (m *GameUI) renderScene(gs *state.GameState) string {
	if m.shell.faded {
		return darkSceneStyle.Render("\n      . . .\n")
	}

	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := math.MinInt32, math.MinInt32
	expand := func(p iso.Point) {
		x, y := int(math.Round(p.X)), int(math.Round(p.Y))
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	for _, p := range gs.Wagon.Navmesh {
		expand(p)
	}
	if minX > maxX {
		return sceneStyle.Render("(no floor data)")
	}

	cell := func(x, y int) rune {
		px, py := int(math.Round(gs.Player.Position.X)), int(math.Round(gs.Player.Position.Y))
		if x == px && y == py {
			return '@'
		}
		for _, target := range gs.CurrentTargets {
			tx, ty := int(math.Round(target.Position.X)), int(math.Round(target.Position.Y))
			if x != tx || y != ty {
				continue
			}
			switch target.Kind {
			case state.TargetDoor:
				return 'D'
			case state.TargetNPC:
				return 'N'
			case state.TargetObject:
				return 'O'
			}
		}
		if gs.Marker.Visible {
			mx, my := int(math.Round(gs.Marker.Position.X)), int(math.Round(gs.Marker.Position.Y))
			if x == mx && y == my {
				return '×'
			}
		}
		return '·'
	}

	walkable := make(map[[2]int]bool, len(gs.Wagon.Navmesh))
	for _, p := range gs.Wagon.Navmesh {
		walkable[[2]int{int(math.Round(p.X)), int(math.Round(p.Y))}] = true
	}

	var rows []string
	for y := minY; y <= maxY; y++ {
		var row strings.Builder
		for x := minX; x <= maxX; x++ {
			if walkable[[2]int{x, y}] {
				row.WriteRune(cell(x, y))
			} else {
				row.WriteRune(' ')
			}
			row.WriteRune(' ')
		}
		rows = append(rows, row.String())
	}

	style := sceneStyle
	if m.shell.ambient == "dark" {
		style = darkSceneStyle
	}
	return style.Render(strings.Join(rows, "\n"))
}

func (m *GameUI) renderDialogue(rt *dialogue.Runtime) string {
	node := rt.Current()
	if node == nil {
		return ""
	}
	var b strings.Builder
	wrapWidth := m.width - 4

	switch node.Kind {
	case dialogue.NodeChoice:
		for i, opt := range node.Options {
			st := rt.ChoiceState(opt)
			line := fmt.Sprintf("%d. %s", i+1, opt.Label)
			if st.Allowed {
				b.WriteString(dialogueStyle.Render(line))
			} else {
				b.WriteString(disabledStyle.Render(line + " (" + st.Reason + ")"))
			}
			b.WriteString("\n")
		}
	case dialogue.NodeEnding:
		b.WriteString(speakerStyle.Render(node.Title))
		b.WriteString("\n")
		b.WriteString(dialogueStyle.Render(wordwrap.String(node.Text, wrapWidth)))
		b.WriteString("\n" + helpStyle.Render("enter: close") + "\n")
	default:
		if node.Speaker != "" {
			b.WriteString(speakerStyle.Render(node.Speaker+": "))
		}
		b.WriteString(dialogueStyle.Render(wordwrap.String(node.Text, wrapWidth)))
		b.WriteString("\n" + helpStyle.Render("enter: continue") + "\n")
	}
	return b.String()
}

func (m *GameUI) renderHUD(gs *state.GameState) string {
	items := make([]string, 0, len(gs.Inventory))
	for id, count := range gs.Inventory {
		if count > 1 {
			items = append(items, fmt.Sprintf("%s ×%d", id, count))
		} else {
			items = append(items, id)
		}
	}
	sort.Strings(items)

	endings := make([]string, 0, len(gs.Flags.Endings))
	for id := range gs.Flags.Endings {
		endings = append(endings, m.titleCaser.String(strings.ReplaceAll(id, "-", " ")))
	}
	sort.Strings(endings)

	parts := []string{fmt.Sprintf("flags: %d", len(gs.Flags.Story))}
	if len(items) > 0 {
		parts = append(parts, "items: "+strings.Join(items, ", "))
	}
	if len(endings) > 0 {
		parts = append(parts, "endings: "+strings.Join(endings, ", "))
	}
	return hudStyle.Render(strings.Join(parts, "   "))
}
