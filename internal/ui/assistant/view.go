// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/plates/internal/ui/styles"
	"github.com/jeranaias/plates/internal/util"
)

// maxResults caps the search results shown under the answer.
const maxResults = 4

// View renders the overlay box, or nothing when hidden.
func (m Model) View() string {
	if m.mode == Hidden {
		return ""
	}

	width := m.boxWidth()
	inner := width - 6

	var sections []string
	sections = append(sections, m.theme.OverlayTitle.Render("Assistant"), "")

	switch m.mode {
	case Listening:
		sections = append(sections,
			m.theme.Listening.Render(m.spinner.View()+" Listening..."),
			m.theme.Hint.Render("Release to send"),
		)

	case Entering:
		sections = append(sections,
			m.input.View(),
			"",
			m.theme.Hint.Render("[Enter] Ask    [Esc] Close"),
		)

	case Thinking:
		if m.query != "" {
			sections = append(sections, m.renderQuery(inner), "")
		}
		sections = append(sections, m.spinner.View()+" "+m.theme.Hint.Render("Thinking..."))

	case Showing:
		sections = append(sections, m.renderResult(inner)...)
	}

	return m.theme.OverlayBox.Width(width).Render(strings.Join(sections, "\n"))
}

func (m Model) renderQuery(inner int) string {
	return m.theme.InputPrompt.Render("> ") + util.TruncateWidth(util.SingleLine(m.query), inner-2)
}

func (m Model) renderResult(inner int) []string {
	var out []string

	if m.notice != "" {
		out = append(out, m.theme.ErrorText.Width(inner).Render(m.notice))
	}
	if m.query != "" {
		out = append(out, m.renderQuery(inner), "")
	}

	switch {
	case m.respErr != nil:
		out = append(out, styles.RenderError(util.TruncateWidth(m.respErr.Error(), inner-4)))
	case m.response != "":
		out = append(out, m.response)
	}

	if m.query != "" {
		out = append(out, "", m.renderResults(inner))
	}

	hints := []string{"[Esc] Close", "[/] Ask again"}
	if len(m.results) > 0 {
		hints = append([]string{"[Up/Down] Select", "[Enter] Open"}, hints...)
	}
	out = append(out, "", m.theme.Hint.Render(strings.Join(hints, "    ")))
	return out
}

func (m Model) renderResults(inner int) string {
	if len(m.results) == 0 {
		return m.theme.Hint.Render(m.searchNote)
	}

	var rows []string
	for i, r := range m.results {
		entry := lipgloss.JoinVertical(lipgloss.Left,
			m.theme.ResultTitle.Render(util.TruncateWidth(util.SingleLine(r.Title), inner-2)),
			m.theme.ResultLink.Render(util.TruncateWidth(r.Link, inner-2)),
			m.theme.ResultSnippet.Render(util.TruncateWidth(util.SingleLine(r.Snippet), inner-2)),
		)
		if i == m.selected {
			entry = m.theme.Selected.Render(entry)
		} else {
			entry = lipgloss.NewStyle().PaddingLeft(2).Render(entry)
		}
		rows = append(rows, entry)
	}
	return strings.Join(rows, "\n")
}
