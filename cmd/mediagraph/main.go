package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mediagraph/internal/adapters/opener"
	"mediagraph/internal/adapters/tui"
	"mediagraph/internal/bootstrap"
)

func main() {
	dataDir := flag.String("data-dir", "", "directory holding the database (default $MEDIAGRAPH_DATA_DIR)")
	flag.Parse()

	// Logs would tear the alt screen, keep them in the log file
	rt, err := bootstrap.Open(context.Background(), bootstrap.Options{
		Name:    "tui",
		DataDir: *dataDir,
		Quiet:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(rt.Store, opener.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	rt.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
