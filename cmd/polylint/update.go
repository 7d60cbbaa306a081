package polylint

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the polylint version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("polylint", version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update polylint to the latest release",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := selfUpdate(); err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			fmt.Println("updated to latest release")
			return nil
		},
	}
	rootCmd.AddCommand(updateCmd)
}
