package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LavenderBridge/knowpoint/internal/config"
	"github.com/LavenderBridge/knowpoint/internal/engine"
	"github.com/LavenderBridge/knowpoint/internal/imagestore"
	"github.com/LavenderBridge/knowpoint/internal/kv"
	"github.com/LavenderBridge/knowpoint/internal/store"
)

var (
	flagDataDir string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "knowpoint",
	Short: "A spaced repetition tracker for knowledge points",
	Long: `Knowpoint tracks flashcard-like knowledge points through a
spaced repetition review lifecycle: each point carries a mastery level,
a review streak, and a computed next-review date.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.knowpoint)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

// openEngine wires config, logging, the KV backend, image storage, and
// the engine for one command invocation. Callers must Close it.
func openEngine() (*engine.Engine, error) {
	cfg, err := config.Load(flagDataDir)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
	}

	var backend kv.Store
	if cfg.Backend == config.BackendSQLite {
		backend, err = kv.OpenSQLite(cfg.StorePath())
	} else {
		backend, err = kv.OpenBadger(kv.BadgerConfig{Path: cfg.StorePath(), SyncWrites: true})
	}
	if err != nil {
		return nil, err
	}

	images, err := imagestore.New(cfg.ImageDir())
	if err != nil {
		backend.Close()
		return nil, err
	}

	eng, err := engine.New(engine.Options{
		Store:     store.New(backend, logger),
		Images:    images,
		Intervals: cfg.Intervals,
		Logger:    logger,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}
	return eng, nil
}
