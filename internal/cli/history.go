package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazycommit/lazycommit/internal/config"
	"github.com/lazycommit/lazycommit/internal/history"
	"github.com/lazycommit/lazycommit/internal/i18n"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit       int
		showMessage bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated commit messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}
			if !gcfg.History.Enabled {
				fmt.Println(warn(i18n.T("history.disabled")))
				return nil
			}

			path, err := config.HistoryDBPath()
			if err != nil {
				return err
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(info(i18n.T("history.empty")))
				return nil
			}

			for _, e := range entries {
				status := " "
				if e.Applied {
					status = success("*")
				}
				fmt.Printf("%s [%s] %s %s (%s/%s)\n",
					status,
					e.CreatedAt.Format("2006-01-02 15:04"),
					cBold+e.Header+cReset,
					info(e.Branch),
					e.Provider, e.Model)
				if len(e.Stages) > 0 {
					fmt.Printf("    %s\n", info(strings.Join(e.Stages, ", ")))
				}
				if showMessage {
					fmt.Println(renderMessageBox(e.Message))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to show")
	cmd.Flags().BoolVar(&showMessage, "full", false, "print the full commit message for each entry")
	return cmd
}
