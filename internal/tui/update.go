package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/capitalize-ai/ai-slides/internal/editor"
	"github.com/capitalize-ai/ai-slides/internal/model"
)

type rowKind int

const (
	rowColor rowKind = iota
	rowFont
	rowSize
)

type styleRow struct {
	label string
	kind  rowKind
	color editor.ColorField
	text  editor.TextField
}

var styleRows = []styleRow{
	{label: "Background", kind: rowColor, color: editor.BackgroundColor},
	{label: "Title colour", kind: rowColor, color: editor.TitleColor},
	{label: "Content colour", kind: rowColor, color: editor.ContentColor},
	{label: "Accent", kind: rowColor, color: editor.AccentColor},
	{label: "Title font", kind: rowFont, text: editor.TitleText},
	{label: "Content font", kind: rowFont, text: editor.ContentText},
	{label: "Title size", kind: rowSize, text: editor.TitleText},
	{label: "Content size", kind: rowSize, text: editor.ContentText},
}

const fontStep = 2

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			m.preview = nil
			m.editor = nil
			m.mode = modePrompt
			return m, m.prompt.Focus()
		}
		m.err = nil
		m.status = lastAssistant(msg.state.Messages)
		m.openDeck(msg.state.Slides)
		m.mode = modePreview
		m.prompt.Reset()
		m.prompt.Blur()
		return m, nil

	case historyMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.history = msg.items
		m.historyCursor = 0
		m.mode = modeHistory
		return m, nil

	case writtenMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "Saved " + msg.path
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modePreview:
			return m.updatePreview(msg)
		case modeEditor:
			return m.updateEditor(msg)
		case modeEditSlide:
			return m.updateEditSlide(msg)
		case modeStyle:
			return m.updateStyle(msg)
		case modeHistory:
			return m.updateHistory(msg)
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		prompt := strings.TrimSpace(m.prompt.Value())
		if prompt == "" {
			return m, nil
		}
		m.busy = true
		m.err = nil
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.submit(prompt))
	case key.Matches(msg, m.keys.Back) && m.preview != nil:
		m.prompt.Blur()
		m.mode = m.lastView
		return m, nil
	case key.Matches(msg, m.keys.PromptHistory):
		m.lastView = modePreview
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.loadHistory())
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// updateCommon handles keys shared by the preview and the editor.
func (m Model) updateCommon(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil, true
	case key.Matches(msg, m.keys.NewPrompt):
		m.lastView = m.mode
		m.mode = modePrompt
		return m, m.prompt.Focus(), true
	case key.Matches(msg, m.keys.History):
		m.lastView = m.mode
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.loadHistory()), true
	}
	return m, nil, false
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.updateCommon(msg); ok {
		return next, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.preview.Prev()
	case key.Matches(msg, m.keys.Next):
		m.preview.Next()
	case key.Matches(msg, m.keys.SwitchTab):
		m.mode = modeEditor
	case key.Matches(msg, m.keys.Write):
		return m, m.writeFile(PreviewFilename, m.preview.Download)
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.updateCommon(msg); ok {
		return next, cmd
	}
	var err error
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.editor.Prev()
	case key.Matches(msg, m.keys.Next):
		m.editor.Next()
	case key.Matches(msg, m.keys.SwitchTab):
		m.preview = editor.NewPreview(m.editor.Slides(), m.opts.Controller)
		m.mode = modePreview
	case key.Matches(msg, m.keys.Edit):
		if err = m.editor.BeginEdit(); err == nil {
			s, _ := m.editor.Scratch()
			m.slideInput.SetValue(slideText(s))
			m.mode = modeEditSlide
			return m, m.slideInput.Focus()
		}
	case key.Matches(msg, m.keys.Add):
		err = m.editor.AddSlide()
	case key.Matches(msg, m.keys.Duplicate):
		err = m.editor.Duplicate()
	case key.Matches(msg, m.keys.Delete):
		err = m.editor.Delete()
	case key.Matches(msg, m.keys.Style):
		m.styleCursor = 0
		m.mode = modeStyle
	case key.Matches(msg, m.keys.Write):
		return m, m.writeFile(EditorFilename, m.editedDeck)
	}
	m.err = err
	return m, nil
}

// editedDeck returns the editor's deck, styled when an exporter is available.
func (m Model) editedDeck() ([]byte, error) {
	if m.opts.Exporter == nil {
		data, ok := m.opts.Controller.Artifact()
		if !ok {
			return nil, editor.ErrNoArtifact
		}
		return data, nil
	}
	return m.opts.Exporter.Export(m.ctx, model.ExportRequest{
		Slides: m.editor.Slides(),
		Styles: m.editor.Styles(),
	})
}

func (m Model) updateEditSlide(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.editor.Cancel()
		m.slideInput.Blur()
		m.mode = modeEditor
		return m, nil
	case key.Matches(msg, m.keys.Save):
		title, bullets := parseSlideText(m.slideInput.Value())
		m.editor.SetScratchTitle(title)
		if err := m.editor.SetScratchContent(bullets); err != nil {
			m.err = err
			return m, nil
		}
		m.err = m.editor.Save()
		m.slideInput.Blur()
		m.mode = modeEditor
		return m, nil
	}
	var cmd tea.Cmd
	m.slideInput, cmd = m.slideInput.Update(msg)
	return m, cmd
}

func (m Model) updateStyle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row := styleRows[m.styleCursor]

	if m.customColor {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.customColor = false
			m.colorInput.Blur()
		case key.Matches(msg, m.keys.Submit):
			m.err = m.editor.SetColor(row.color, strings.TrimSpace(m.colorInput.Value()))
			if m.err == nil {
				m.customColor = false
				m.colorInput.Blur()
			}
		default:
			var cmd tea.Cmd
			m.colorInput, cmd = m.colorInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeEditor
	case key.Matches(msg, m.keys.Up):
		if m.styleCursor > 0 {
			m.styleCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.styleCursor < len(styleRows)-1 {
			m.styleCursor++
		}
	case key.Matches(msg, m.keys.Prev):
		m.err = m.stepStyle(row, -1)
	case key.Matches(msg, m.keys.Next):
		m.err = m.stepStyle(row, 1)
	case key.Matches(msg, m.keys.Custom) && row.kind == rowColor:
		m.customColor = true
		m.colorInput.SetValue(colorValue(m.editor.Style(), row.color))
		return m, m.colorInput.Focus()
	}
	return m, nil
}

// stepStyle moves one style property to its previous or next choice.
func (m Model) stepStyle(row styleRow, dir int) error {
	st := m.editor.Style()
	switch row.kind {
	case rowColor:
		return m.editor.SetColor(row.color, cycle(editor.ColorPresets, colorValue(st, row.color), dir))
	case rowFont:
		return m.editor.SetFontFamily(row.text, cycle(editor.FontFamilies, fontValue(st, row.text), dir))
	default:
		_, err := m.editor.SetFontSize(row.text, sizeValue(st, row.text)+dir*fontStep)
		return err
	}
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.preview != nil {
			m.mode = m.lastView
		} else {
			m.mode = modePrompt
		}
	case key.Matches(msg, m.keys.Up):
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historyCursor < len(m.history)-1 {
			m.historyCursor++
		}
	case key.Matches(msg, m.keys.Submit):
		if len(m.history) == 0 {
			return m, nil
		}
		st, err := m.opts.Controller.Load(m.history[m.historyCursor])
		m.err = err
		m.status = lastAssistant(st.Messages)
		m.openDeck(st.Slides)
		m.mode = modePreview
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// cycle returns the option after (or before) current, starting at the first
// option when current is not in the list.
func cycle(options []string, current string, dir int) string {
	idx := -1
	for i, o := range options {
		if strings.EqualFold(o, current) {
			idx = i
			break
		}
	}
	if idx < 0 {
		if dir < 0 {
			return options[len(options)-1]
		}
		return options[0]
	}
	n := len(options)
	return options[((idx+dir)%n+n)%n]
}

func colorValue(s model.SlideStyle, f editor.ColorField) string {
	switch f {
	case editor.BackgroundColor:
		return s.BackgroundColor
	case editor.TitleColor:
		return s.TitleColor
	case editor.ContentColor:
		return s.ContentColor
	default:
		return s.AccentColor
	}
}

func fontValue(s model.SlideStyle, f editor.TextField) string {
	if f == editor.TitleText {
		return s.TitleFontFamily
	}
	return s.ContentFontFamily
}

func sizeValue(s model.SlideStyle, f editor.TextField) int {
	if f == editor.TitleText {
		return s.TitleFontSize
	}
	return s.ContentFontSize
}

// slideText lays a slide out for the textarea.
func slideText(s model.Slide) string {
	return strings.Join(append([]string{s.Title}, s.Content...), "\n")
}

// parseSlideText reads the textarea back: the first line is the title, every
// non-blank line after it a bullet.
func parseSlideText(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	title := strings.TrimSpace(lines[0])
	bullets := []string{}
	for _, l := range lines[1:] {
		if l = strings.TrimSpace(l); l != "" {
			bullets = append(bullets, l)
		}
	}
	return title, bullets
}

func lastAssistant(msgs []model.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleAssistant {
			return msgs[i].Content
		}
	}
	return ""
}
