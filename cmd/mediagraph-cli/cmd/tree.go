package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree [id]",
	Short: "Print the graph below an object",
	Long: `Print the nodes reachable below an object, or below every root
when no id is given. A song filed under several folders appears under
each of them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := GetRuntime().Store

		var top []domain.ObjectNode
		if len(args) == 0 {
			roots, err := commands.NewListRootsCommand(store).Execute(ctx)
			if err != nil {
				return err
			}
			top = roots
		} else {
			id, err := application.ParseObjectID(args[0])
			if err != nil {
				return err
			}
			details, err := commands.NewGetObjectCommand(store, id).Execute(ctx)
			if err != nil {
				return err
			}
			top = []domain.ObjectNode{*details.Node}
		}

		var sb strings.Builder
		for _, n := range top {
			if err := printTree(ctx, &sb, store, n, "", treeDepth, map[int64]bool{}); err != nil {
				return err
			}
		}
		fmt.Print(sb.String())
		return nil
	},
}

func printTree(ctx context.Context, sb *strings.Builder, store ports.ObjectStore, n domain.ObjectNode, prefix string, depth int, path map[int64]bool) error {
	fmt.Fprintf(sb, "%s%d %s\n", prefix, n.ID, n.Title)
	if depth == 0 || n.ChildCount == 0 || path[n.ID] {
		return nil
	}
	path[n.ID] = true
	defer delete(path, n.ID)

	children, err := commands.NewListChildrenCommand(store, n.ID).Execute(ctx)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := printTree(ctx, sb, store, c, prefix+"  ", depth-1, path); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "L", -1, "levels to descend, -1 for all")
	rootCmd.AddCommand(treeCmd)
}
