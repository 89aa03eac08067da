package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/editor"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/session"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

type stubGenerator struct {
	slides []model.Slide
	err    error
}

func (s stubGenerator) Generate(context.Context, string) ([]model.Slide, error) {
	return s.slides, s.err
}

// sequenceGenerator fails the calls whose entry in errs is non-nil.
type sequenceGenerator struct {
	errs []error
	n    int
}

func (s *sequenceGenerator) Generate(context.Context, string) ([]model.Slide, error) {
	i := s.n
	s.n++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return testDeck(), nil
}

type stubHistory struct {
	items []model.HistoryItem
}

func (s *stubHistory) Save(_ context.Context, req model.SaveHistoryRequest) (*model.SaveHistoryResponse, error) {
	return &model.SaveHistoryResponse{SessionID: "s1", Item: model.HistoryItem{ID: "s1"}}, nil
}

func (s *stubHistory) ListHistory(context.Context) ([]model.HistoryItem, error) {
	return s.items, nil
}

type stubExporter struct {
	req model.ExportRequest
}

func (s *stubExporter) Export(_ context.Context, req model.ExportRequest) ([]byte, error) {
	s.req = req
	return []byte("styled"), nil
}

func testDeck() []model.Slide {
	return []model.Slide{
		{Title: "Intro", Content: []string{"hello"}},
		{Title: "Plan", Content: []string{"one", "two"}},
	}
}

func newTestModel(t *testing.T, gen session.Generator) (Model, *session.MemoryRegistry, *stubExporter) {
	t.Helper()
	hist := &stubHistory{items: []model.HistoryItem{{ID: "old", Prompt: "Old deck", Slides: testDeck()}}}
	reg := session.NewMemoryRegistry()
	ctrl := session.NewController(gen, hist, deck.NewPPTXRenderer(), reg, logger.Nop())
	exp := &stubExporter{}
	m := New(context.Background(), Options{
		Controller: ctrl,
		History:    hist,
		Exporter:   exp,
		OutDir:     t.TempDir(),
	})
	return m, reg, exp
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func generate(t *testing.T, m Model, prompt string) Model {
	t.Helper()
	m.prompt.SetValue(prompt)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.busy)
	return run(t, m, m.submit(prompt))
}

func TestGenerateOpensPreview(t *testing.T) {
	m, reg, _ := newTestModel(t, stubGenerator{slides: testDeck()})
	m = generate(t, m, "Roadmap")

	require.Equal(t, modePreview, m.mode)
	require.False(t, m.busy)
	require.NoError(t, m.err)
	require.Equal(t, "Created 2 slides. Title: Intro", m.status)
	require.Equal(t, 1, reg.Live())
	require.Contains(t, m.View(), "Slide 1 of 2")

	m = press(t, m, "right")
	require.Contains(t, m.View(), "Slide 2 of 2")
	m = press(t, m, "right")
	require.Equal(t, 1, m.preview.Index())
}

func TestGenerateFailureReturnsToPrompt(t *testing.T) {
	m, reg, _ := newTestModel(t, stubGenerator{err: errors.New("AI response was not a valid JSON format.")})
	m = generate(t, m, "Roadmap")

	require.Equal(t, modePrompt, m.mode)
	require.EqualError(t, m.err, "AI response was not a valid JSON format.")
	require.Equal(t, 0, reg.Live())
	require.Contains(t, m.View(), "Error:")
}

func TestGenerateFailureDropsPreviousDeck(t *testing.T) {
	m, reg, _ := newTestModel(t, &sequenceGenerator{errs: []error{nil, errors.New("upstream down")}})
	m = generate(t, m, "Roadmap")
	require.Equal(t, modePreview, m.mode)

	m = press(t, m, "n")
	require.Equal(t, modePrompt, m.mode)
	m = generate(t, m, "Roadmap again")
	require.EqualError(t, m.err, "upstream down")
	require.Nil(t, m.preview)
	require.Nil(t, m.editor)
	require.Equal(t, 0, reg.Live())

	m = press(t, m, "esc")
	require.Equal(t, modePrompt, m.mode)
	require.NotContains(t, m.View(), "Intro")
}

func TestEmptyPromptIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, stubGenerator{slides: testDeck()})
	m = press(t, m, "enter")
	require.False(t, m.busy)
	require.Equal(t, modePrompt, m.mode)
}

func TestEditorOperations(t *testing.T) {
	m, _, _ := newTestModel(t, stubGenerator{slides: testDeck()})
	m = generate(t, m, "Roadmap")
	m = press(t, m, "tab")
	require.Equal(t, modeEditor, m.mode)

	m = press(t, m, "a")
	require.Equal(t, 3, m.editor.Len())
	require.Equal(t, 2, m.editor.Index())

	m = press(t, m, "d")
	require.Equal(t, 4, m.editor.Len())
	cur, _ := m.editor.Current()
	require.Equal(t, "New Slide (Copy)", cur.Title)

	m = press(t, m, "x", "x", "x", "x")
	require.Equal(t, 1, m.editor.Len())
	require.Error(t, m.err)

	m = press(t, m, "tab")
	require.Equal(t, modePreview, m.mode)
	require.Equal(t, 1, m.preview.Len())
}

func TestEditSlide(t *testing.T) {
	m, _, _ := newTestModel(t, stubGenerator{slides: testDeck()})
	m = generate(t, m, "Roadmap")
	m = press(t, m, "tab", "e")
	require.Equal(t, modeEditSlide, m.mode)
	require.Equal(t, "Intro\nhello", m.slideInput.Value())

	m.slideInput.SetValue("Welcome\n first \n\nsecond")
	m = press(t, m, "ctrl+s")
	require.Equal(t, modeEditor, m.mode)
	cur, _ := m.editor.Current()
	require.Equal(t, model.Slide{Title: "Welcome", Content: []string{"first", "second"}}, cur)

	m = press(t, m, "e")
	m.slideInput.SetValue("Only a title")
	m = press(t, m, "ctrl+s")
	require.Equal(t, modeEditSlide, m.mode)
	require.ErrorIs(t, m.err, editor.ErrLastBullet)
	m = press(t, m, "esc")
	cur, _ = m.editor.Current()
	require.Equal(t, []string{"first", "second"}, cur.Content)

	m = press(t, m, "e")
	m.slideInput.SetValue("Discarded")
	m = press(t, m, "esc")
	cur, _ = m.editor.Current()
	require.Equal(t, "Welcome", cur.Title)
}

func TestStylePanel(t *testing.T) {
	m, _, _ := newTestModel(t, stubGenerator{slides: testDeck()})
	m = generate(t, m, "Roadmap")
	m = press(t, m, "tab", "right", "s")
	require.Equal(t, modeStyle, m.mode)

	m = press(t, m, "right")
	require.Equal(t, "#4472C4", m.editor.Style().BackgroundColor)

	m = press(t, m, "c")
	require.True(t, m.customColor)
	m.colorInput.SetValue("#zzz")
	m = press(t, m, "enter")
	require.Error(t, m.err)
	m.colorInput.SetValue("#123456")
	m = press(t, m, "enter")
	require.NoError(t, m.err)
	require.Equal(t, "#123456", m.editor.Style().BackgroundColor)

	for i := 0; i < 6; i++ {
		m = press(t, m, "down")
	}
	before := m.editor.Style().TitleFontSize
	m = press(t, m, "right")
	require.Equal(t, before+fontStep, m.editor.Style().TitleFontSize)

	m = press(t, m, "esc")
	require.Equal(t, modeEditor, m.mode)
	require.Equal(t, model.DefaultStyle(0), m.editor.Styles()[0])
}

func TestWriteFiles(t *testing.T) {
	m, _, exp := newTestModel(t, stubGenerator{slides: testDeck()})
	m = generate(t, m, "Roadmap")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	m = run(t, m, cmd)
	require.NoError(t, m.err)
	data, err := os.ReadFile(filepath.Join(m.opts.OutDir, PreviewFilename))
	require.NoError(t, err)
	require.Equal(t, "PK", string(data[:2]))

	m = press(t, m, "tab")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	m = run(t, m, cmd)
	require.NoError(t, m.err)
	data, err = os.ReadFile(filepath.Join(m.opts.OutDir, EditorFilename))
	require.NoError(t, err)
	require.Equal(t, "styled", string(data))
	require.Len(t, exp.req.Styles, 2)
}

func TestHistoryLoad(t *testing.T) {
	m, reg, _ := newTestModel(t, stubGenerator{slides: testDeck()})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	require.True(t, m.busy)
	require.NotNil(t, cmd)
	m = run(t, m, m.loadHistory())
	require.Equal(t, modeHistory, m.mode)
	require.Contains(t, m.View(), "Old deck")

	m = press(t, m, "enter")
	require.Equal(t, modePreview, m.mode)
	require.Equal(t, "Loaded 2 slides from history", m.status)
	require.Equal(t, "old", m.opts.Controller.State().SessionID)
	require.Equal(t, 1, reg.Live())
}

func TestCycle(t *testing.T) {
	opts := []string{"a", "b", "c"}
	require.Equal(t, "b", cycle(opts, "a", 1))
	require.Equal(t, "c", cycle(opts, "a", -1))
	require.Equal(t, "a", cycle(opts, "C", 1))
	require.Equal(t, "a", cycle(opts, "zz", 1))
	require.Equal(t, "c", cycle(opts, "zz", -1))
}

func TestParseSlideText(t *testing.T) {
	title, bullets := parseSlideText("  Title  ")
	require.Equal(t, "Title", title)
	require.Empty(t, bullets)
	require.NotNil(t, bullets)
}
