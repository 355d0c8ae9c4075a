package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nycleads/internal/borough"
	"nycleads/internal/filter"
	"nycleads/internal/pipeline"
)

// filterFlags are the search criteria shared by search, browse and push.
type filterFlags struct {
	types         []string
	boroughs      []string
	neighborhoods []string
	address       string
	zip           string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.types, "type", "t", nil, "building types to load (default all)")
	cmd.Flags().StringSliceVarP(&f.boroughs, "borough", "b", nil, "boroughs by code (1-5) or name ("+strings.Join(borough.Names(), ", ")+")")
	cmd.Flags().StringSliceVarP(&f.neighborhoods, "neighborhood", "n", nil, "neighborhood substrings, any may match")
	cmd.Flags().StringVarP(&f.address, "address", "a", "", "address substring")
	cmd.Flags().StringVarP(&f.zip, "zip", "z", "", `ZIP codes and ranges, e.g. "10001, 10007-10011"`)
}

func (f *filterFlags) spec() (filter.Spec, error) {
	zip, err := filter.ParseZIP(f.zip)
	if err != nil {
		return filter.Spec{}, err
	}
	return filter.Spec{
		BuildingTypes: f.types,
		Boroughs:      f.boroughs,
		Neighborhoods: f.neighborhoods,
		Address:       f.address,
		Zip:           zip,
	}, nil
}

// run ingests and filters, printing every warning to stderr.
func (a *app) run(f *filterFlags) (pipeline.Result, error) {
	spec, err := f.spec()
	if err != nil {
		return pipeline.Result{}, err
	}

	start := time.Now()
	res := a.pipe.Run(spec)
	// Per-file problems were already logged during ingest.
	for _, w := range res.Warnings {
		var empty pipeline.EmptyResultWarning
		if errors.As(w, &empty) {
			a.log.Warn(w.Error())
		}
	}
	a.log.Debug("search complete",
		"zip", spec.Zip.String(),
		"records", len(res.Records),
		"elapsed", time.Since(start).Truncate(time.Millisecond))
	return res, nil
}

func createSearchCmd(a *app) *cobra.Command {
	var f filterFlags
	var jsonOut, csvOut string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search sales records",
		Long:  `Loads the selected building types, removes duplicate addresses and prints the records matching every given filter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(&f)
			if err != nil {
				return err
			}

			for _, r := range res.Records {
				fmt.Println(recordLine(r))
			}
			printSummary(pipeline.Summarize(res.Records))

			if jsonOut != "" {
				if err := exportJSON(jsonOut, res.Records); err != nil {
					return err
				}
				fmt.Printf("Wrote %d records to %s\n", len(res.Records), jsonOut)
			}
			if csvOut != "" {
				if err := exportCSV(csvOut, res.Records); err != nil {
					return err
				}
				fmt.Printf("Wrote %d records to %s\n", len(res.Records), csvOut)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the results to a JSON file")
	cmd.Flags().StringVar(&csvOut, "csv", "", "write the results to a CSV file")
	return cmd
}
