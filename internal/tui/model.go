// Package tui is the terminal front end: a prompt, a read-only preview and a
// slide editor over one session.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/editor"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/session"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// Download names.
const (
	PreviewFilename = "presentation.pptx"
	EditorFilename  = "edited_presentation.pptx"
)

type mode int

const (
	modePrompt mode = iota
	modePreview
	modeEditor
	modeEditSlide
	modeStyle
	modeHistory
)

// HistoryLister lists stored sessions.
type HistoryLister interface {
	ListHistory(ctx context.Context) ([]model.HistoryItem, error)
}

// Exporter renders slides with styles.
type Exporter interface {
	Export(ctx context.Context, req model.ExportRequest) ([]byte, error)
}

// Options configures the terminal UI.
type Options struct {
	Controller *session.Controller
	History    HistoryLister
	// Exporter is optional; without it the editor writes the unstyled artifact.
	Exporter Exporter
	OutDir   string
	Logger   *logger.Logger
	// Prompt is submitted on start when set.
	Prompt string
}

type generatedMsg struct {
	state session.State
	err   error
}

type historyMsg struct {
	items []model.HistoryItem
	err   error
}

type writtenMsg struct {
	path string
	err  error
}

// Model is the bubbletea model.
type Model struct {
	ctx  context.Context
	opts Options
	log  *logger.Logger

	mode     mode
	lastView mode
	keys     keyMap
	help     help.Model

	prompt     textinput.Model
	colorInput textinput.Model
	slideInput textarea.Model
	spinner    spinner.Model
	busy       bool

	preview *editor.Preview
	editor  *editor.Editor

	history       []model.HistoryItem
	historyCursor int
	styleCursor   int
	customColor   bool

	status string
	err    error
	width  int
}

// New creates the model.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}

	prompt := textinput.New()
	prompt.Placeholder = "Describe the presentation you want..."
	prompt.CharLimit = 10_000
	prompt.Width = 70
	prompt.Focus()

	colorInput := textinput.New()
	colorInput.Placeholder = "#RRGGBB"
	colorInput.CharLimit = 7
	colorInput.Width = 10

	slideInput := textarea.New()
	slideInput.Placeholder = "First line is the title, one bullet per following line"
	slideInput.SetWidth(70)
	slideInput.SetHeight(10)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		opts:       opts,
		log:        opts.Logger,
		mode:       modePrompt,
		lastView:   modePreview,
		keys:       newKeyMap(),
		help:       help.New(),
		prompt:     prompt,
		colorInput: colorInput,
		slideInput: slideInput,
		spinner:    sp,
	}
}

// Init starts the cursor blink and an initial generation if a prompt was given.
func (m Model) Init() tea.Cmd {
	if m.opts.Prompt != "" {
		return tea.Batch(m.spinner.Tick, m.submit(m.opts.Prompt))
	}
	return textinput.Blink
}

func (m Model) submit(prompt string) tea.Cmd {
	ctrl := m.opts.Controller
	ctx := m.ctx
	return func() tea.Msg {
		st, err := ctrl.Submit(ctx, prompt)
		return generatedMsg{state: st, err: err}
	}
}

func (m Model) loadHistory() tea.Cmd {
	lister := m.opts.History
	ctx := m.ctx
	return func() tea.Msg {
		if lister == nil {
			return historyMsg{err: fmt.Errorf("history is not available")}
		}
		items, err := lister.ListHistory(ctx)
		return historyMsg{items: items, err: err}
	}
}

// writeFile writes data to name under the output directory.
func (m Model) writeFile(name string, data func() ([]byte, error)) tea.Cmd {
	dir := m.opts.OutDir
	log := m.log
	return func() tea.Msg {
		b, err := data()
		if err != nil {
			return writtenMsg{err: err}
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return writtenMsg{err: fmt.Errorf("write %s: %w", path, err)}
		}
		log.Info("presentation written", zap.String("path", path), zap.Int("bytes", len(b)))
		return writtenMsg{path: path}
	}
}

// openDeck rebuilds both views over slides.
func (m *Model) openDeck(slides []model.Slide) {
	ctrl := m.opts.Controller
	m.preview = editor.NewPreview(slides, ctrl)
	m.editor = editor.New(slides, func(s []model.Slide) error {
		_, err := ctrl.UpdateSlides(s)
		return err
	})
}

// Run starts the program on the terminal.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
