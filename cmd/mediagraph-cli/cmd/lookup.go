package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [path|id] <value>",
	Short: "Resolve paths and object ids",
	Long: `Resolve a registered path to its object id, or an id to its path.
An unregistered path prints -1. An object without a source prints an
empty line.

Examples:
  mediagraph-cli lookup path ~/Music/a.mp3
  mediagraph-cli lookup id 256`,
}

var lookupPathCmd = &cobra.Command{
	Use:   "path <path>",
	Short: "Print the object id of a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewLookupPathCommand(GetRuntime().Store, path).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.ID)
		return nil
	},
}

var lookupIDCmd = &cobra.Command{
	Use:   "id <id>",
	Short: "Print the path of an object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := application.ParseObjectID(args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewLookupIDCommand(GetRuntime().Store, id).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.AddCommand(lookupPathCmd)
	lookupCmd.AddCommand(lookupIDCmd)
}
