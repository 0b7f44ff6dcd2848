package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database",
	Long: `Create the database file, its tables and the four category roots.
Running it again on an existing database changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already initialized the store
		fmt.Println(GetRuntime().Store.DatabasePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
