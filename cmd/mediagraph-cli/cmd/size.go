package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
)

var sizeCmd = &cobra.Command{
	Use:   "size <id> <bytes>",
	Short: "Set the recorded size of a source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := application.ParseObjectID(args[0])
		if err != nil {
			return err
		}
		size, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid size: %s", args[1])
		}

		sizeCmd := commands.NewUpdateSizeCommand(GetRuntime().Store, id, size)
		result, err := sizeCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sizeCmd)
}
