package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
	"mediagraph/internal/ports"
)

// extractMu serializes tools that read metadata, since the decoder and the
// descriptor reader hold the file they have open
var extractMu sync.Mutex

// RegisterWriteTools adds all tools that modify the graph to the MCP server.
func RegisterWriteTools(s *server.MCPServer, store ports.ObjectStore, ex commands.Extractors, walker ports.MediaWalker) {
	s.AddTool(registerTool(), registerHandler(store, ex))
	s.AddTool(deleteTool(), deleteHandler(store))
	s.AddTool(updateSizeTool(), updateSizeHandler(store))
	s.AddTool(scanTool(), scanHandler(store, ex, walker))
}

// absPath resolves p against the server's working directory, so that a
// file reached by a relative path and by a scan shares one source record
func absPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	return filepath.Abs(p)
}

// --- register ---

func registerTool() mcp.Tool {
	return mcp.NewTool("register",
		mcp.WithDescription("Register a media file or save-data directory. Reads its metadata, creates the object node, files it under its category root and, for music, under its album, genre and artist folders."),
		mcp.WithString("category",
			mcp.Description("One of music, photo, video, savedata"),
			mcp.Required(),
			mcp.Enum("music", "photo", "video", "savedata"),
		),
		mcp.WithString("path",
			mcp.Description("Path of the file, or of the save-data directory; relative paths are resolved against the server's working directory"),
			mcp.Required(),
		),
	)
}

func registerHandler(store ports.ObjectStore, ex commands.Extractors) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category, err := application.ParseCategory(req.GetString("category", ""))
		if err != nil {
			return toolError(err)
		}

		path, err := absPath(req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}

		extractMu.Lock()
		defer extractMu.Unlock()

		cmd := commands.NewRegisterCommand(store, ex, category, path)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete an object by id or by registered path. Groupings left without songs are removed too."),
		mcp.WithString("target",
			mcp.Description("Object id or absolute path"),
			mcp.Required(),
		),
	)
}

func deleteHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := req.GetString("target", "")
		if _, err := application.ParseObjectID(target); err != nil {
			if target, err = absPath(target); err != nil {
				return toolError(err)
			}
		}
		result, err := commands.NewDeleteCommand(store, target).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- update_size ---

func updateSizeTool() mcp.Tool {
	return mcp.NewTool("update_size",
		mcp.WithDescription("Set the recorded byte size of a registered source."),
		mcp.WithString("id",
			mcp.Description("Object id"),
			mcp.Required(),
		),
		mcp.WithString("size",
			mcp.Description("Size in bytes"),
			mcp.Required(),
		),
	)
}

func updateSizeHandler(store ports.ObjectStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := application.ParseObjectID(req.GetString("id", ""))
		if err != nil {
			return toolError(err)
		}
		size, err := strconv.ParseInt(strings.TrimSpace(req.GetString("size", "")), 10, 64)
		if err != nil {
			return toolError(fmt.Errorf("invalid size: %w", err))
		}

		result, err := commands.NewUpdateSizeCommand(store, id, size).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- scan ---

func scanTool() mcp.Tool {
	return mcp.NewTool("scan",
		mcp.WithDescription("Register every media file and save-data directory below a directory. Already registered paths are skipped."),
		mcp.WithString("root",
			mcp.Description("Directory to walk"),
			mcp.Required(),
		),
		mcp.WithBoolean("prune",
			mcp.Description("Also delete registered paths under root that no longer exist"),
		),
	)
}

func scanHandler(store ports.ObjectStore, ex commands.Extractors, walker ports.MediaWalker) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := absPath(req.GetString("root", ""))
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewScanCommand(store, ex, walker, root)
		cmd.Prune = req.GetBool("prune", false)

		extractMu.Lock()
		defer extractMu.Unlock()

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(result.Message)
		for _, p := range result.FailedPaths {
			fmt.Fprintf(&sb, "\nfailed: %s", p)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
