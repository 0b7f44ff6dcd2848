package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
)

var registerCmd = &cobra.Command{
	Use:   "register <music|photo|video|savedata> <path>",
	Short: "Register a media file or save-data directory",
	Long: `Read the metadata of a file and add it to the graph under its
category root. Songs are also filed under their album, genre, artist
and album artist folders. Registering a path again replaces its object.

Examples:
  mediagraph-cli register music ~/Music/a.mp3
  mediagraph-cli register savedata ~/PSP/SAVEDATA/ULUS10041`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := application.ParseCategory(args[0])
		if err != nil {
			return err
		}
		path, err := filepath.Abs(args[1])
		if err != nil {
			return err
		}

		r := GetRuntime()
		registerCmd := commands.NewRegisterCommand(r.Store, r.Extractors, category, path)
		result, err := registerCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
