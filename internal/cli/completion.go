package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestsquare/pkg/dataset"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for nestsquare.

  bash:        source <(nestsquare completion bash)
  zsh:         nestsquare completion zsh > "${fpath[1]}/_nestsquare"
  fish:        nestsquare completion fish > ~/.config/fish/completions/nestsquare.fish
  powershell:  nestsquare completion powershell | Out-String | Invoke-Expression

Preset names are completed for render, layout and show.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completePresets completes the optional preset argument.
func completePresets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return dataset.PresetNames(), cobra.ShellCompDirectiveNoFileComp
}
