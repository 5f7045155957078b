package service

import (
	"html"
	"strings"

	"github.com/preop-assessment-server/internal/domain"
)

// AdvisoriesHTML renders the advisory list as a nested unordered list for the
// notification dispatcher. Consecutive list items are grouped into a nested
// <ul> under the paragraph that precedes them; bold entries get an inline
// bold style.
func AdvisoriesHTML(items []domain.AdvisoryItem) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<ul>")
	i := 0
	for i < len(items) {
		item := items[i]
		if item.Kind == domain.AdvisoryListItem {
			// List items with no preceding paragraph still get a nested list.
			b.WriteString("<li>")
			i = writeNestedList(&b, items, i)
			b.WriteString("</li>")
			continue
		}

		b.WriteString(openLI(item.Bold))
		b.WriteString(html.EscapeString(item.Text))
		i++
		if i < len(items) && items[i].Kind == domain.AdvisoryListItem {
			i = writeNestedList(&b, items, i)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// writeNestedList consumes the run of consecutive list items starting at i
// and returns the index of the first item after the run.
func writeNestedList(b *strings.Builder, items []domain.AdvisoryItem, i int) int {
	b.WriteString("<ul>")
	for i < len(items) && items[i].Kind == domain.AdvisoryListItem {
		b.WriteString(openLI(items[i].Bold))
		b.WriteString(html.EscapeString(items[i].Text))
		b.WriteString("</li>")
		i++
	}
	b.WriteString("</ul>")
	return i
}

func openLI(bold bool) string {
	if bold {
		return `<li style="font-weight:bold">`
	}
	return "<li>"
}
