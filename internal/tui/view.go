package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// View renders the current mode.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("AI Slides"))
	b.WriteString("\n\n")

	switch m.mode {
	case modePrompt:
		b.WriteString(m.viewPrompt())
	case modePreview:
		b.WriteString(m.viewTabs())
		slide, _ := m.preview.Current()
		b.WriteString(renderSlide(slide, m.preview.Index(), m.preview.Len()))
	case modeEditor:
		b.WriteString(m.viewTabs())
		slide, _ := m.editor.Current()
		b.WriteString(renderSlide(slide, m.editor.Index(), m.editor.Len()))
	case modeEditSlide:
		b.WriteString(titleStyle.Render(fmt.Sprintf("Editing slide %d", m.editor.Index()+1)))
		b.WriteString("\n\n")
		b.WriteString(m.slideInput.View())
	case modeStyle:
		b.WriteString(m.viewStyle())
	case modeHistory:
		b.WriteString(m.viewHistory())
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " Working...\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.forMode(m.mode)))
	return b.String()
}

func (m Model) viewPrompt() string {
	var b strings.Builder
	b.WriteString("Prompt\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTabs() string {
	preview, edit := tabStyle, tabStyle
	if m.mode == modePreview {
		preview = activeTabStyle
	} else {
		edit = activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, preview.Render("Preview"), edit.Render("Editor")) + "\n"
}

func renderSlide(s model.Slide, index, count int) string {
	var body strings.Builder
	body.WriteString(titleStyle.Render(s.Title))
	body.WriteString("\n\n")
	for _, c := range s.Content {
		body.WriteString("• " + c + "\n")
	}
	footer := mutedStyle.Render(fmt.Sprintf("Slide %d of %d", index+1, count))
	return slideStyle.Render(strings.TrimRight(body.String(), "\n")) + "\n" + footer + "\n"
}

func (m Model) viewStyle() string {
	st := m.editor.Style()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Style for slide %d", m.editor.Index()+1)))
	b.WriteString("\n\n")
	for i, row := range styleRows {
		var value string
		switch row.kind {
		case rowColor:
			c := colorValue(st, row.color)
			value = swatch(c) + " " + c
		case rowFont:
			value = fontValue(st, row.text)
		default:
			value = fmt.Sprintf("%dpt", sizeValue(st, row.text))
		}
		line := fmt.Sprintf("%-16s %s", row.label, value)
		if i == m.styleCursor {
			b.WriteString(selectedStyle.Render("▸ ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if m.customColor {
		b.WriteString("\n" + m.colorInput.View() + "\n")
	}
	return b.String()
}

func (m Model) viewHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n\n")
	if len(m.history) == 0 {
		b.WriteString(mutedStyle.Render("No saved sessions yet.") + "\n")
		return b.String()
	}
	for i, item := range m.history {
		prompt := item.Prompt
		if prompt == "" {
			prompt = "(no prompt)"
		}
		if r := []rune(prompt); len(r) > 60 {
			prompt = string(r[:57]) + "..."
		}
		line := fmt.Sprintf("%s  %s  %s", item.CreatedAt, prompt, mutedStyle.Render(fmt.Sprintf("%d slides", len(item.Slides))))
		if i == m.historyCursor {
			b.WriteString(selectedStyle.Render("▸ ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}
