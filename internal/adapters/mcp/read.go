package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// RegisterReadTools adds all read-only graph tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store ports.ObjectStore) {
	s.AddTool(lookupPathTool(), lookupPathHandler(store))
	s.AddTool(lookupIDTool(), lookupIDHandler(store))
	s.AddTool(getObjectTool(), getObjectHandler(store))
	s.AddTool(listChildrenTool(), listChildrenHandler(store))
	s.AddTool(statsTool(), statsHandler(store))
}

// --- lookup_path ---

func lookupPathTool() mcp.Tool {
	return mcp.NewTool("lookup_path",
		mcp.WithDescription("Resolve a registered file path to its object id. Returns -1 when the path is not registered."),
		mcp.WithString("path",
			mcp.Description("Path of the file or save-data directory"),
			mcp.Required(),
		),
	)
}

func lookupPathHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := absPath(req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewLookupPathCommand(store, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d", result.ID)), nil
	}
}

// --- lookup_id ---

func lookupIDTool() mcp.Tool {
	return mcp.NewTool("lookup_id",
		mcp.WithDescription("Resolve an object id to the path it was registered from. Returns an empty result when the object has no source."),
		mcp.WithString("id",
			mcp.Description("Object id (e.g. 256)"),
			mcp.Required(),
		),
	)
}

func lookupIDHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := application.ParseObjectID(req.GetString("id", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewLookupIDCommand(store, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Path), nil
	}
}

// --- get_object ---

func getObjectTool() mcp.Tool {
	return mcp.NewTool("get_object",
		mcp.WithDescription("Show an object node with its counters, source record, category metadata, parents and children."),
		mcp.WithString("id",
			mcp.Description("Object id"),
			mcp.Required(),
		),
	)
}

func getObjectHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := application.ParseObjectID(req.GetString("id", ""))
		if err != nil {
			return toolError(err)
		}
		details, err := commands.NewGetObjectCommand(store, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		n := details.Node
		fmt.Fprintf(&sb, "id: %d\ntitle: %s\ntype: %s\nchild_count: %d\nreference_count: %d\n",
			n.ID, n.Title, n.Type, n.ChildCount, n.ReferenceCount)
		if src := details.Source; src != nil {
			fmt.Fprintf(&sb, "path: %s\nsize: %d\n", src.Path, src.Size)
		}
		if details.Record != nil {
			fmt.Fprintf(&sb, "metadata: %+v\n", details.Record)
		}
		writeNodes(&sb, "parents", details.Parents)
		writeNodes(&sb, "children", details.Children)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_children ---

func listChildrenTool() mcp.Tool {
	return mcp.NewTool("list_children",
		mcp.WithDescription("List the nodes linked under an object. Without arguments lists the category roots."),
		mcp.WithString("parent_id",
			mcp.Description("Parent object id. Omit to list the roots (1 Music, 2 Photos, 3 Videos, 4 Saved Data)."),
		),
	)
}

func listChildrenHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parent := req.GetString("parent_id", "")

		var nodes []domain.ObjectNode
		var err error
		if parent == "" {
			nodes, err = commands.NewListRootsCommand(store).Execute(ctx)
		} else {
			id, perr := application.ParseObjectID(parent)
			if perr != nil {
				return toolError(perr)
			}
			nodes, err = commands.NewListChildrenCommand(store, id).Execute(ctx)
		}
		if err != nil {
			return toolError(err)
		}
		return formatEntities(nodes, formatNode)
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Count objects, edges, sources and category rows in the database."),
	)
}

func statsHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := commands.NewStatsCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"objects: %d\nedges: %d\nsources: %d\nmusic: %d\nphotos: %d\nvideos: %d\nsavedata: %d\nnext_id: %d\n",
			s.Objects, s.Edges, s.Sources, s.Music, s.Photos, s.Videos, s.SaveData, s.NextID,
		)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatNode(n domain.ObjectNode) string {
	return fmt.Sprintf("%d  %s  [%s]", n.ID, n.Title, n.Type)
}

func writeNodes(sb *strings.Builder, label string, nodes []domain.ObjectNode) {
	if len(nodes) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, n := range nodes {
		fmt.Fprintf(sb, "  %s\n", formatNode(n))
	}
}
