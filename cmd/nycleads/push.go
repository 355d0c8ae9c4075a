package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nycleads/internal/database"
)

func createPushCmd(a *app) *cobra.Command {
	var f filterFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upsert search results into the CRM database",
		Long:  `Runs a search and writes the results to the configured CRM database (DB_DRIVER oracle or postgres). Rows are keyed by building type and address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(&f)
			if err != nil {
				return err
			}
			if len(res.Records) == 0 {
				fmt.Println("Nothing to push.")
				return nil
			}
			if dryRun {
				fmt.Printf("Would push %d records to %s@%s\n", len(res.Records), a.cfg.DB.Driver, a.cfg.DB.Host)
				return nil
			}

			ctx := cmd.Context()

			start := time.Now()
			sink, err := database.Open(ctx, a.cfg.DB)
			if err != nil {
				return err
			}
			defer sink.Close()

			if err := sink.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := sink.WriteRecords(ctx, res.Records)
			if err != nil {
				return err
			}

			a.log.Info("pushed records", "driver", a.cfg.DB.Driver, "rows", n, "elapsed", time.Since(start).Truncate(time.Millisecond))
			fmt.Printf("Pushed %d of %d records\n", n, len(res.Records))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "search only; do not connect to the database")
	return cmd
}
