package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "mediagraph/internal/adapters/mcp"
	"mediagraph/internal/bootstrap"
)

func main() {
	dataDir := flag.String("data-dir", "", "directory holding the database (default $MEDIAGRAPH_DATA_DIR)")
	flag.Parse()

	rt, err := bootstrap.Open(context.Background(), bootstrap.Options{
		Name:    "mcp",
		DataDir: *dataDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediagraph-mcp: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	mcpServer := server.NewMCPServer(
		"mediagraph-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, rt.Store)
	mcpadapter.RegisterWriteTools(mcpServer, rt.Store, rt.Extractors, rt.Walker)

	rt.Log.Info("serving %s over stdio", rt.Store.DatabasePath())
	if err := server.ServeStdio(mcpServer); err != nil {
		rt.Log.Error("serve: %v", err)
		rt.Close()
		os.Exit(1)
	}
}
