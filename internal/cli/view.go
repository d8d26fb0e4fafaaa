package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nichetrace/nichetrace/pkg/artifact"
	ntio "github.com/nichetrace/nichetrace/pkg/io"
	"github.com/nichetrace/nichetrace/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newViewCmd creates the view command, a terminal browser for the run
// summary written by score.
func newViewCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "view <ntscore-dir>",
		Short: "Browse a scoring run summary in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := ntio.ImportSummary(filepath.Join(args[0], pipeline.SummaryFile))
			if err != nil {
				return err
			}
			if plain {
				fmt.Println(renderSummary(summary, -1))
				return nil
			}
			_, err = tea.NewProgram(newSummaryModel(summary)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the summary without the interactive browser")

	return cmd
}

// =============================================================================
// summaryModel - Interactive run summary browser
// =============================================================================

// summaryModel is the bubbletea model for browsing per-sample stats.
type summaryModel struct {
	Summary *artifact.Summary
	Cursor  int
}

// newSummaryModel creates a summary browser positioned on the first sample.
func newSummaryModel(s *artifact.Summary) summaryModel {
	return summaryModel{Summary: s}
}

func (m summaryModel) Init() tea.Cmd {
	return nil
}

func (m summaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Summary.Samples)-1 {
				m.Cursor++
			}
		}
	}
	return m, nil
}

func (m summaryModel) View() string {
	var b strings.Builder
	b.WriteString(renderSummary(m.Summary, m.Cursor))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Rendering
// =============================================================================

// renderSummary renders the run header and the per-sample stats table.
// A cursor of -1 highlights nothing (plain output).
func renderSummary(s *artifact.Summary, cursor int) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Niche Trajectory Run"))
	b.WriteString("\n\n")

	direction := "forward"
	if s.Reversed {
		direction = "reversed"
	}
	solved := "computed"
	if s.CacheHit {
		solved = StyleSuccess.Render("cached")
	}
	b.WriteString(listDimStyle.Render("Run:        ") + StyleValue.Render(s.RunID) + "\n")
	b.WriteString(listDimStyle.Render("Strategy:   ") + StyleValue.Render(fmt.Sprintf("%s (%s, %s)", s.Strategy, direction, solved)) + "\n")
	b.WriteString(listDimStyle.Render("Trajectory: ") + StyleHighlight.Render(formatOrdering(s.Ordering)) + "\n")
	b.WriteString("\n")

	rows := make([][]string, 0, len(s.Samples))
	for i, sample := range s.Samples {
		cursorMark := "  "
		if i == cursor {
			cursorMark = "▸ "
		}
		rows = append(rows, []string{
			cursorMark,
			sample.Name,
			fmt.Sprintf("%d", sample.Cells),
			fmt.Sprintf("[%.3f, %.3f]", sample.NicheScoreMin, sample.NicheScoreMax),
			fmt.Sprintf("[%.3f, %.3f]", sample.CellScoreMin, sample.CellScoreMax),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Sample", "Cells", "Niche NTScore", "Cell NTScore").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())

	return b.String()
}
