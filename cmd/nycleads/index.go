package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nycleads/internal/neighborhoods"
)

func createIndexCmd(a *app) *cobra.Command {
	var refresh bool
	var boroughFilter string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or show the borough/neighborhood index",
		Long:  `Builds the borough to neighborhood index from every category file and caches it as JSON and CSV. The cache is reused unless --refresh is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, built, err := a.loadIndex(refresh)
			if err != nil {
				return err
			}

			if boroughFilter != "" {
				for _, n := range idx.Lookup(boroughFilter) {
					fmt.Println(n)
				}
				return nil
			}

			source := "cache " + a.cfg.IndexJSON
			if built {
				source = "rebuilt"
			}
			fmt.Printf("Index (%s): %d boroughs\n", source, idx.Len())
			for _, b := range idx.Boroughs() {
				ns := idx.Lookup(b)
				fmt.Printf("  %-15s %4d  %s\n", b, len(ns), preview(ns, 3))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "rebuild the index from the source files")
	cmd.Flags().StringVar(&boroughFilter, "borough", "", "list the neighborhoods of one borough (code or name)")
	return cmd
}

// loadIndex returns the cached index, building and saving it when missing,
// corrupt or refresh is set.
func (a *app) loadIndex(refresh bool) (*neighborhoods.Index, bool, error) {
	start := time.Now()
	idx, built, err := neighborhoods.LoadOrBuild(a.cfg.IndexJSON, a.cfg.IndexCSV, refresh, func() (*neighborhoods.Index, error) {
		idx, warnings := a.pipe.Index()
		for _, w := range warnings {
			a.log.Debug("index warning", "error", w)
		}
		return idx, nil
	})
	if err != nil {
		if idx == nil {
			return nil, false, fmt.Errorf("failed to build index: %w", err)
		}
		// Built but not cached; the index is still usable.
		a.log.Warn("index cache not saved", "error", err)
	}
	a.log.Debug("index ready", "rebuilt", built, "elapsed", time.Since(start).Truncate(time.Millisecond))
	return idx, built, nil
}

func preview(ns []string, n int) string {
	if len(ns) <= n {
		return strings.Join(ns, ", ")
	}
	return strings.Join(ns[:n], ", ") + ", ..."
}
