package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GustavoCaso/expensedesk/internal/pager"
)

var (
	pageStyle        = lipgloss.NewStyle().Padding(0, 1)
	currentPageStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("69"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
)

// paginationView renders "Page X of Y" followed by the page window, the
// current page highlighted.
func paginationView(p pager.State, totalPages int) string {
	if totalPages == 0 {
		return ""
	}

	prev, next := "‹ prev", "next ›"
	if !pager.HasPrev(p) {
		prev = disabledStyle.Render(prev)
	}
	if !pager.HasNext(p, totalPages) {
		next = disabledStyle.Render(next)
	}

	var pages strings.Builder
	for _, n := range pager.Window(p.Current, totalPages) {
		if n == p.Current {
			pages.WriteString(currentPageStyle.Render(strconv.Itoa(n)))
			continue
		}
		pages.WriteString(pageStyle.Render(strconv.Itoa(n)))
	}

	return fmt.Sprintf("Page %d of %d  %s %s %s  %d per page", p.Current, totalPages, prev, pages.String(), next, p.Size)
}
