package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"nycleads/internal/annotations"
	"nycleads/internal/config"
	"nycleads/internal/log"
	"nycleads/internal/pipeline"
	"nycleads/internal/zoning"
)

// app is the state shared by every subcommand, built once before it runs.
type app struct {
	cfg   config.Config
	log   *log.Logger
	pipe  *pipeline.Pipeline
	notes *annotations.Store

	// Root flag overrides; empty means use the environment.
	dataDir    string
	categories string
	logLevel   string
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "nycleads",
		Short: "NYC property sales lead finder",
		Long:  `Loads NYC rolling sales extracts, builds the borough/neighborhood index and searches the combined sales data`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the category files (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&a.categories, "categories", "", "YAML category manifest (overrides CATEGORIES_FILE)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(createIndexCmd(a))
	rootCmd.AddCommand(createSearchCmd(a))
	rootCmd.AddCommand(createBrowseCmd(a))
	rootCmd.AddCommand(createNoteCmd(a))
	rootCmd.AddCommand(createPushCmd(a))
	rootCmd.AddCommand(createServeCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	a.cfg = config.Load()
	if a.dataDir != "" {
		a.cfg.DataDir = a.dataDir
	}
	if a.categories != "" {
		a.cfg.CategoriesFile = a.categories
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	a.log = log.New(a.cfg.LogLevel, a.cfg.LogDir)

	cats, err := a.cfg.Categories()
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	a.pipe = &pipeline.Pipeline{Categories: cats, Log: a.log}

	// Zoning is optional; a bad shapefile only costs the zoning column.
	if a.cfg.ZoningShapefile != "" {
		layer, err := zoning.Load(a.cfg.ZoningProjected, splitList(a.cfg.ZoningShapefile)...)
		if err != nil {
			a.log.Warn("zoning disabled", "error", err)
		} else {
			a.log.Debug("zoning loaded", "polygons", layer.Len())
			a.pipe.Zoning = layer
		}
	}

	if dir := filepath.Dir(a.cfg.NotesFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create notes directory: %w", err)
		}
	}
	a.notes = annotations.Open(a.cfg.NotesFile)
	return nil
}

// splitList splits a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
