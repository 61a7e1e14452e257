package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pairrank/pkg/config"
	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/rank"
	"github.com/matzehuels/pairrank/pkg/session"
)

// newCommand creates the "new" command that starts a session.
func (c *CLI) newCommand() *cobra.Command {
	var name, file string

	cmd := &cobra.Command{
		Use:   "new [item...]",
		Short: "Start a ranking session",
		Long: `Start a ranking session over the given items.

Items are taken from the arguments or from --file, which accepts either a
plain text file with one item per line or a TOML file:

  name = "fruit"
  items = ["apple", "pear", "plum"]`,
		Example: `  pairrank new apple pear plum --name fruit
  pairrank new --file movies.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := args
			if file != "" {
				if len(args) > 0 {
					return errs.New(errs.ErrCodeInvalidInput, "give items as arguments or with --file, not both")
				}
				list, err := config.LoadItems(file)
				if err != nil {
					return err
				}
				items = list.Items
				if name == "" {
					name = list.Name
				}
			}

			ctx := cmd.Context()
			m, err := c.newManager(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			r, err := m.Create(ctx, name, items)
			if err != nil {
				return err
			}

			sess := r.Session()
			printSuccess("Created session %s", StyleHighlight.Render(sess.Name))
			printKeyValue("ID", sess.ID)
			printKeyValue("Items", strconv.Itoa(len(sess.Items)))
			printNextStep("Start comparing", "pairrank play "+shortID(sess.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "session name")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read items from a .txt or .toml file")

	return cmd
}

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List ranking sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := c.newManager(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			list, err := m.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No sessions yet")
				printNextStep("Start one", "pairrank new apple pear plum")
				return nil
			}
			fmt.Fprintln(stdout, sessionTable(list))
			return nil
		},
	}
}

func sessionTable(list []*session.Session) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{
			shortID(s.ID),
			s.Name,
			strconv.Itoa(len(s.Items)),
			strconv.Itoa(len(s.Comparisons)),
			formatRelativeTime(s.UpdatedAt),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Items", "Answers", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// showCommand creates the "show" command that prints the current ranking.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "show <session>",
		Short:             "Show the current ranking of a session",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(_ *session.Manager, r *session.Ranker) error {
				levels := r.Ranking(ctx)
				if asJSON {
					enc := json.NewEncoder(stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(levels)
				}

				sess := r.Session()
				snap := r.Snapshot(ctx)
				fmt.Fprintln(stdout, StyleTitle.Render(sess.Name))
				fmt.Fprint(stdout, formatRanking(levels, cycleMembers(snap)))

				ranked := snap.Ranking.NodeCount()
				printDetail("%d comparisons, %d skipped, %d of %d items ranked",
					len(sess.Comparisons), len(sess.Skips), ranked, len(sess.Items))
				if ranked < len(sess.Items) {
					printWarning("Some items sit on a cycle of contradicting answers and are not ranked")
				}
				if _, ok := r.Next(ctx); ok {
					printNextStep("Keep going", "pairrank play "+shortID(sess.ID))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranking as JSON")

	return cmd
}

// cycleMembers reports which item labels lie on the recovered cycle.
func cycleMembers(s session.Snapshot) func(string) bool {
	return func(name string) bool {
		i := slices.Index(s.Items, name)
		return i >= 0 && slices.Contains(s.CycleNodes, rank.NodeID(i))
	}
}

// nextCommand creates the "next" command.
func (c *CLI) nextCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "next <session>",
		Short:             "Show the next comparison to answer",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(_ *session.Manager, r *session.Ranker) error {
				q, ok := r.Next(ctx)
				if !ok {
					printSuccess("Nothing left to ask")
					printNextStep("See the result", "pairrank show "+shortID(r.ID()))
					return nil
				}
				fmt.Fprintf(stdout, "%s  %s  %s\n",
					StyleHighlight.Render(q.FromItem), StyleDim.Render("vs"), StyleHighlight.Render(q.ToItem))
				printNextStep("Answer", fmt.Sprintf("pairrank compare %s %d %d", shortID(r.ID()), q.From, q.To))
				return nil
			})
		},
	}
}

// compareCommand creates the "compare" command that records a judgement.
func (c *CLI) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "compare <session> <winner> <loser>",
		Short:             "Record that one item ranks above another",
		Long:              `Record that <winner> ranks above <loser>. Items are given by name or index.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeSessionItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(_ *session.Manager, r *session.Ranker) error {
				winner, loser, err := resolveItems(r, args[1], args[2])
				if err != nil {
					return err
				}
				if err := r.Compare(ctx, winner, loser); err != nil {
					return err
				}
				items := r.Items()
				printSuccess("%s %s %s", items[winner], StyleDim.Render(">"), items[loser])
				return nil
			})
		},
	}
}

// skipCommand creates the "skip" command.
func (c *CLI) skipCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "skip <session> <a> <b>",
		Short:             "Skip a comparison without answering it",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeSessionItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(_ *session.Manager, r *session.Ranker) error {
				a, b, err := resolveItems(r, args[1], args[2])
				if err != nil {
					return err
				}
				if err := r.Skip(ctx, a, b); err != nil {
					return err
				}
				items := r.Items()
				printInfo("Skipped %s vs %s", items[a], items[b])
				return nil
			})
		},
	}
}

// deleteCommand creates the "delete" command.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <session>",
		Aliases:           []string{"rm"},
		Short:             "Delete a ranking session",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRanker(ctx, args[0], func(m *session.Manager, r *session.Ranker) error {
				name := r.Session().Name
				if err := m.Delete(ctx, r.ID()); err != nil {
					return err
				}
				printSuccess("Deleted session %s", StyleHighlight.Render(name))
				return nil
			})
		},
	}
}

func resolveItems(r *session.Ranker, a, b string) (int, int, error) {
	x, err := r.Resolve(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := r.Resolve(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
