package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nycleads/internal/annotations"
)

func createNoteCmd(a *app) *cobra.Command {
	var text string
	var contacted bool

	cmd := &cobra.Command{
		Use:   "note KEY",
		Short: "Show or update the CRM note for a record",
		Long:  `Shows the annotation stored for a record key (borough-address-position). With --text or --contacted the annotation is updated.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			ann, ok, err := a.notes.Get(key)
			if err != nil {
				return fmt.Errorf("failed to read annotations: %w", err)
			}
			if !ok {
				ann, err = a.findAnnotation(key)
				if err != nil {
					return err
				}
			}

			changed := false
			if cmd.Flags().Changed("text") {
				ann.Note = text
				changed = true
			}
			if cmd.Flags().Changed("contacted") {
				ann.Contacted = contacted
				changed = true
			}

			if changed {
				ann, err = a.notes.Set(ann)
				if err != nil {
					return fmt.Errorf("failed to save annotation: %w", err)
				}
				fmt.Println("Annotation saved.")
			}

			fmt.Printf("Key       : %s\n", ann.Key)
			fmt.Printf("Address   : %s, %s\n", ann.Address, ann.Borough)
			fmt.Printf("Contacted : %t\n", ann.Contacted)
			fmt.Printf("Note      : %s\n", ann.Note)
			if !ann.UpdatedAt.IsZero() {
				fmt.Printf("Updated   : %s\n", ann.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "note text (empty clears it)")
	cmd.Flags().BoolVar(&contacted, "contacted", false, "mark the record as contacted")
	return cmd
}

// findAnnotation resolves a key against the full record set for a record
// that has no annotation yet.
func (a *app) findAnnotation(key string) (annotations.Annotation, error) {
	ds := a.pipe.Ingest(nil)
	for _, r := range ds.Records {
		if r.Key() == key {
			return annotations.For(r), nil
		}
	}
	return annotations.Annotation{}, fmt.Errorf("unknown record key %q", key)
}
