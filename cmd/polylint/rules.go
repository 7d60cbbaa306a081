package polylint

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/polylint/polylint/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rules in the configured catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(flagCatalog) == 0 {
				return fmt.Errorf("no rule catalog configured; pass --catalog")
			}
			cat := catalog.NewFileCatalog(flagCatalog)
			if err := cat.Initialize(); err != nil {
				return err
			}
			rules, err := cat.RulesMatching(nil)
			if err != nil {
				return err
			}
			table := tablewriter.NewTable(os.Stdout)
			table.Header("Name", "Engine", "Severity", "Rulesets", "Languages")
			for _, r := range rules {
				err := table.Append([]string{
					r.Name, r.Engine, string(r.Severity),
					strings.Join(r.Rulesets, ","),
					strings.Join(r.Languages, ","),
				})
				if err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
