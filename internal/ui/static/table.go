// Package static provides non-interactive terminal output components.
//
// This package renders formatted output that does not require user
// interaction, such as the repository status table.
package static

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/gitscan/internal/scan"
	"github.com/raphi011/gitscan/internal/ui/styles"
)

// StatusHeaders are the columns of the status table.
var StatusHeaders = []string{"STATUS", "FLAGS", "BRANCH", "PATH"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// StatusTableRow renders one repository as a status table row. rel is the
// repository path relative to its search root.
func StatusTableRow(repo scan.Repo, rel string) []string {
	flags := repo.Facts.Codes()
	if repo.Err != nil {
		flags = "!"
	}
	return []string{
		styles.FormatStatus(repo.Status),
		flags,
		branchCell(repo),
		rel,
	}
}

func branchCell(repo scan.Repo) string {
	f := repo.Facts
	switch {
	case repo.Err != nil:
		return styles.ErrorStyle.Render("error")
	case f.Detached:
		return styles.MutedStyle.Render("(detached)")
	case f.Ahead > 0 && f.Behind > 0:
		return fmt.Sprintf("%s ↑%d ↓%d", f.Branch, f.Ahead, f.Behind)
	case f.Ahead > 0:
		return fmt.Sprintf("%s ↑%d", f.Branch, f.Ahead)
	case f.Behind > 0:
		return fmt.Sprintf("%s ↓%d", f.Branch, f.Behind)
	}
	return f.Branch
}
