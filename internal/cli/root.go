// Package cli defines the Cobra command tree for the lazycommit CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lazycommit/lazycommit/internal/config"
	"github.com/lazycommit/lazycommit/internal/i18n"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagLang    string
	flagNoColor bool
)

// rootCmd generates a commit message when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "lazycommit",
	Short: "Generate conventional commit messages from your git changes with an LLM",
	Long: `Lazycommit reads your git status, staged and unstaged diffs, and recent
history, fits them into a model context budget, and asks an LLM to draft a
conventional commit message.

Run 'lazycommit' inside a repository to preview a message, or add --apply to
create the commit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		gcfg, err := config.LoadGlobal()
		if err != nil {
			gcfg = config.DefaultGlobal()
		}

		lang := flagLang
		if lang == "" {
			lang = gcfg.Language
		}
		i18n.SetLanguage(lang, os.Getenv)

		if flagNoColor || !gcfg.Output.Color || os.Getenv("NO_COLOR") != "" ||
			!term.IsTerminal(int(os.Stdout.Fd())) {
			disableColors()
		}
	},
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		prefix := i18n.T("cli.error.prefix")
		fmt.Fprintf(os.Stderr, "%s: %v\n", errorText(prefix), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "output language (en, zh-cn, zh-tw)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	addGenerateFlags(rootCmd)
	rootCmd.RunE = runGenerate

	rootCmd.AddCommand(
		newCountTokensCmd(),
		newHistoryCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lazycommit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
