package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediagraph/internal/bootstrap"
	"mediagraph/internal/config"
)

var (
	dataDir string
	rt      *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "mediagraph-cli",
	Short: "CLI for the media object database",
	Long: `mediagraph-cli manages a database of media files organised as a graph.

Songs, photos, videos and save-data directories are registered under the
Music, Photos, Videos and Saved Data roots. Songs are also filed under
album, genre and artist folders, which disappear with their last song.

Environment:
` + config.Usage(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		rt, err = bootstrap.Open(cmd.Context(), bootstrap.Options{
			Name:    "cli",
			DataDir: dataDir,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt == nil {
			return nil
		}
		return rt.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "directory holding the database (default $MEDIAGRAPH_DATA_DIR or the XDG data dir)")
}

// GetRuntime returns the initialized runtime
func GetRuntime() *bootstrap.Runtime {
	return rt
}
