package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediagraph/internal/application/commands"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count the rows of every table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := commands.NewStatsCommand(GetRuntime().Store).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("database  %s\n", GetRuntime().Store.DatabasePath())
		fmt.Printf("objects   %d\n", s.Objects)
		fmt.Printf("edges     %d\n", s.Edges)
		fmt.Printf("sources   %d\n", s.Sources)
		fmt.Printf("music     %d\n", s.Music)
		fmt.Printf("photos    %d\n", s.Photos)
		fmt.Printf("videos    %d\n", s.Videos)
		fmt.Printf("savedata  %d\n", s.SaveData)
		fmt.Printf("next id   %d\n", s.NextID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
