package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediagraph/internal/application/commands"
	"mediagraph/internal/domain"
)

var (
	scanRefresh bool
	scanPrune   bool
	scanDryRun  bool
	scanVerbose bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Register everything below a directory",
	Long: `Walk a directory and register every mp3, wav, mp4, image and
save-data directory found. Paths already in the database are skipped
unless --refresh is given. Files that cannot be read are reported and
the scan continues.

Examples:
  mediagraph-cli scan ~/Music
  mediagraph-cli scan --prune --dry-run ~/Media`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		r := GetRuntime()

		scanCmd := commands.NewScanCommand(r.Store, r.Extractors, r.Walker, root)
		scanCmd.Refresh = scanRefresh
		scanCmd.Prune = scanPrune
		scanCmd.DryRun = scanDryRun
		scanCmd.OnEntry = func(e domain.ScanEntry, err error) {
			switch {
			case err != nil:
				fmt.Printf("FAIL  %s: %v\n", e.Path, err)
			case scanVerbose:
				fmt.Printf("ok    %-8s %s\n", e.Category, e.Path)
			}
		}

		result, err := scanCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanRefresh, "refresh", false, "re-register paths already in the database")
	scanCmd.Flags().BoolVar(&scanPrune, "prune", false, "delete registered paths below dir that no longer exist")
	scanCmd.Flags().BoolVarP(&scanDryRun, "dry-run", "n", false, "report what would change without writing")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "print every entry")
	rootCmd.AddCommand(scanCmd)
}
