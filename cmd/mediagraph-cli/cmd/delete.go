package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediagraph/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id|path>",
	Short: "Delete an object",
	Long: `Delete an object by id or by its registered path.

Its source record and metadata row go with it. Album, genre and artist
folders left without songs are deleted too, and so is anything linked
only below the object.

Examples:
  mediagraph-cli delete 256
  mediagraph-cli delete ~/Music/a.mp3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if strings.ContainsRune(target, filepath.Separator) {
			abs, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			target = abs
		}

		deleteCmd := commands.NewDeleteCommand(GetRuntime().Store, target)
		result, err := deleteCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
