package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/session"
)

// playCommand creates the "play" command that runs the interactive UI.
func (c *CLI) playCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play <session>",
		Short: "Answer comparisons interactively",
		Long: `Answer comparisons in a terminal UI until nothing is left to ask.

Keys:
  ←, h, 1   left item ranks higher
  →, l, 2   right item ranks higher
  s         skip this comparison
  q         quit (answers are saved as you go)`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(_ *session.Manager, r *session.Ranker) error {
				p := tea.NewProgram(newPlayModel(ctx, r), tea.WithContext(ctx))
				final, err := p.Run()
				if err != nil {
					return err
				}

				m := final.(playModel)
				if m.err != nil {
					return m.err
				}
				printSuccess("Recorded %d answers", m.answered)
				fmt.Fprint(stdout, formatRanking(r.Ranking(ctx), nil))
				return nil
			})
		},
	}
}

var (
	playCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(1, 3).
			Width(28).
			Align(lipgloss.Center)
	playKeyStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// playModel is the bubbletea model for answering comparisons.
type playModel struct {
	ctx    context.Context
	ranker *session.Ranker
	name   string

	question session.Question
	done     bool
	answered int
	skipped  int
	last     string
	err      error
}

func newPlayModel(ctx context.Context, r *session.Ranker) playModel {
	m := playModel{ctx: ctx, ranker: r, name: r.Session().Name}
	return m.advance()
}

// advance loads the next question, marking the model done when none is left.
func (m playModel) advance() playModel {
	q, ok := m.ranker.Next(m.ctx)
	m.question = q
	m.done = !ok
	return m
}

func (m playModel) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	q := m.question
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h", "1":
		m = m.answer(q.From, q.To)
	case "right", "l", "2":
		m = m.answer(q.To, q.From)
	case "s":
		if m.err = m.ranker.Skip(m.ctx, q.From, q.To); m.err == nil {
			m.skipped++
			m.last = fmt.Sprintf("skipped %s vs %s", q.FromItem, q.ToItem)
		}
	default:
		return m, nil
	}

	if m.err != nil && !errs.Is(m.err, errs.ErrCodeInvalidInput) {
		return m, tea.Quit
	}
	m = m.advance()
	if m.done {
		return m, tea.Quit
	}
	return m, nil
}

func (m playModel) answer(winner, loser int) playModel {
	if m.err = m.ranker.Compare(m.ctx, winner, loser); m.err != nil {
		return m
	}
	items := m.ranker.Items()
	m.answered++
	m.last = fmt.Sprintf("%s > %s", items[winner], items[loser])
	return m
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d answered · %d skipped", m.answered, m.skipped)))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(StyleSuccess.Render("Nothing left to ask."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("Which ranks higher?\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		playCardStyle.Render(m.question.FromItem),
		StyleDim.Render("  vs  "),
		playCardStyle.Render(m.question.ToItem),
	))
	b.WriteString("\n\n")

	if m.last != "" {
		b.WriteString(StyleDim.Render(iconSuccess + " " + m.last))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + errs.UserMessage(m.err)))
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render(fmt.Sprintf("%s left  %s right  %s skip  %s quit",
		playKeyStyle.Render("←"), playKeyStyle.Render("→"), playKeyStyle.Render("s"), playKeyStyle.Render("q"))))
	return b.String()
}
