package bootstrap

import (
	"context"
	"fmt"

	"mediagraph/internal/adapters/filesystem"
	"mediagraph/internal/adapters/media"
	"mediagraph/internal/adapters/sfo"
	"mediagraph/internal/adapters/sqlite"
	"mediagraph/internal/application/commands"
	"mediagraph/internal/config"
	"mediagraph/internal/log"
)

// Runtime is everything a binary needs to serve requests against the store
type Runtime struct {
	Config     *config.Config
	Log        *log.Logger
	Store      *sqlite.Store
	Extractors commands.Extractors
	Walker     *filesystem.Walker
}

// Options adjust how the runtime is built
type Options struct {
	// Name is the component name used in log lines
	Name string
	// DataDir overrides the configured data directory
	DataDir string
	// Quiet keeps logs off the terminal, for the TUI
	Quiet bool
}

// Open loads the configuration, opens and initializes the store and wires
// the metadata readers.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(opts.Name, log.Options{
		Level:      level,
		File:       cfg.LogFile,
		JSON:       cfg.LogJSON,
		NoTerminal: opts.Quiet,
	})

	store := sqlite.NewStore(sqlite.WithLogger(logger.Named("store")))
	if err := store.Open(cfg.ResolveDataDir()); err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize %s: %w", store.DatabasePath(), err)
	}

	return &Runtime{
		Config: cfg,
		Log:    logger,
		Store:  store,
		Extractors: commands.Extractors{
			Decoder: media.NewDecoder(
				media.WithFFProbe(cfg.FFProbe),
				media.WithLogger(logger.Named("media")),
			),
			Descriptors: sfo.NewReader(),
			Files:       filesystem.NewAttributes(),
		},
		Walker: filesystem.NewWalker(logger.Named("scan")),
	}, nil
}

// Close releases the store
func (r *Runtime) Close() error {
	return r.Store.Close()
}
