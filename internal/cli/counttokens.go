package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazycommit/lazycommit/internal/i18n"
	"github.com/lazycommit/lazycommit/internal/prompt"
)

func newCountTokensCmd() *cobra.Command {
	var (
		tokenModel    string
		tokenEncoding string
	)

	cmd := &cobra.Command{
		Use:   "count-tokens [text]",
		Short: "Count tokens in text with a model's tiktoken encoding",
		Long: `Count the tokens a piece of text occupies under the tiktoken encoding of a
model. Pass the text as an argument, or '-' to read stdin.

Examples:
  lazycommit count-tokens "some prompt text"
  cat prompt.txt | lazycommit count-tokens -
  lazycommit count-tokens --token-encoding cl100k_base "hello"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := resolveTokenInput(args, os.Stdin)
			if err != nil {
				return err
			}

			model := tokenModel
			if model == "" {
				model = prompt.DefaultTokenModel
			}
			result, err := prompt.CountText(prompt.DefaultResolverConfig(), text, model, tokenEncoding)
			if err != nil {
				return err
			}

			fmt.Println(rule("="))
			fmt.Println(section(i18n.T("cli.section.token_count")))
			fmt.Println(keyValue(i18n.T("cli.label.model"), result.ModelName))
			fmt.Println(keyValue(i18n.T("cli.label.encoding"), result.EncodingName))
			fmt.Println(keyValue(i18n.T("cli.label.characters"), strconv.Itoa(result.Characters)))
			fmt.Println(keyValue(i18n.T("cli.label.tokens"), strconv.Itoa(result.Tokens)))
			fmt.Println(rule("="))
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenModel, "token-model", "", "model used to pick the encoding")
	cmd.Flags().StringVar(&tokenEncoding, "token-encoding", "", "explicit encoding name, overrides --token-model")
	return cmd
}

// resolveTokenInput returns the text to count, reading stdin when the
// argument is '-' or absent and stdin is piped.
func resolveTokenInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	if len(args) == 0 {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
				return "", fmt.Errorf("%s", i18n.T("cli.error.count_tokens_stdin_required"))
			}
		}
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(raw), "\n")
	if text == "" {
		return "", fmt.Errorf("%s", i18n.T("cli.error.count_tokens_stdin_required"))
	}
	return text, nil
}
