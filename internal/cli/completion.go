package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pairrank/pkg/session"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for pairrank.

Session arguments complete to stored session IDs, and the item arguments of
compare and skip complete to the labels of that session.

  $ source <(pairrank completion bash)
  $ pairrank completion zsh > "${fpath[1]}/_pairrank"
  $ pairrank completion fish | source
  PS> pairrank completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
}

// completeSession completes the first argument to stored session IDs,
// described by their names.
func (c *CLI) completeSession(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.sessionCandidates(cmd, toComplete)
}

// completeSessionItems completes a session ID followed by item labels of
// that session.
func (c *CLI) completeSessionItems(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return c.sessionCandidates(cmd, toComplete)
	}
	if len(args) > 2 || c.loadConfig() != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	err := c.withRanker(completionContext(cmd), args[0], func(_ *session.Manager, r *session.Ranker) error {
		for _, item := range r.Items() {
			if strings.HasPrefix(item, toComplete) && item != args[len(args)-1] {
				out = append(out, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) sessionCandidates(cmd *cobra.Command, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := completionContext(cmd)
	m, err := c.newManager(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer m.Close()

	list, err := m.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, s := range list {
		if strings.HasPrefix(s.ID, toComplete) {
			out = append(out, s.ID+"\t"+s.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completionContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
