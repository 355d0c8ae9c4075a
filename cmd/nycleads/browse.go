package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nycleads/internal/annotations"
	"nycleads/internal/types"
)

func createBrowseCmd(a *app) *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse search results interactively",
		Long:  `Runs a search and shows the results as a list. Use the arrow keys to move, Enter for details and a map link, c to toggle contacted, Esc to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(&f)
			if err != nil {
				return err
			}
			if len(res.Records) == 0 {
				fmt.Println("No records match the current filters.")
				return nil
			}
			return interactiveSelect(res.Records, a.notes)
		},
	}

	f.register(cmd)
	return cmd
}

// browser holds the list state for interactiveSelect.
type browser struct {
	records  []types.Record
	notes    *annotations.Store
	marks    map[string]annotations.Annotation
	selected int
}

func (b *browser) line(i int) string {
	mark := "[ ]"
	if b.marks[b.records[i].Key()].Contacted {
		mark = "[" + colorGreen + "x" + colorReset + "]"
	}
	return mark + " " + recordLine(b.records[i])
}

func (b *browser) annotation(r types.Record) annotations.Annotation {
	if a, ok := b.marks[r.Key()]; ok {
		return a
	}
	return annotations.For(r)
}

// toggle flips the contacted flag of the selected record and persists it.
func (b *browser) toggle() error {
	r := b.records[b.selected]
	a := b.annotation(r)
	a.Contacted = !a.Contacted
	saved, err := b.notes.Set(a)
	if err != nil {
		return err
	}
	b.marks[saved.Key] = saved
	return nil
}

func (b *browser) up() bool {
	if b.selected > 0 {
		b.selected--
		return true
	}
	return false
}

func (b *browser) down() bool {
	if b.selected < len(b.records)-1 {
		b.selected++
		return true
	}
	return false
}

// interactiveSelect lets the user move through records with arrow keys and
// press Enter to view full details.
func interactiveSelect(records []types.Record, notes *annotations.Store) error {
	marks, err := notes.All()
	if err != nil {
		return fmt.Errorf("failed to read annotations: %w", err)
	}
	b := &browser{records: records, notes: notes, marks: marks}

	enableVT()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("(interactive selection not supported on this terminal)")
		for i := range records {
			fmt.Println(b.line(i))
		}
		return nil
	}
	defer func() { term.Restore(fd, oldState) }()

	reader := bufio.NewReader(os.Stdin)
	status := ""

	redraw := func() {
		// Clear screen (ANSI reset to top + clear screen)
		fmt.Print("\033[H\033[2J")
		for i := range b.records {
			prefix := "  "
			if i == b.selected {
				prefix = "> "
			}
			fmt.Print(prefix + b.line(i) + "\r\n")
		}
		fmt.Print("(↑/↓ to navigate, Enter to view details, c to toggle contacted, Esc to quit)\r\n")
		if status != "" {
			fmt.Print(status + "\r\n")
			status = ""
		}
	}

	showDetails := func() error {
		term.Restore(fd, oldState) // restore cooked mode before rendering details
		fmt.Println()
		r := b.records[b.selected]
		renderRecord(r, b.annotation(r))

		// Wait for user acknowledgement before returning to list
		fmt.Print("\n(press Enter to return)")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')

		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return err
		}
		reader = bufio.NewReader(os.Stdin)
		redraw()
		return nil
	}

	redraw()

	for {
		b1, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		// Handle Windows console arrow sequences (0 or 224, then code)
		if b1 == 0 || b1 == 224 {
			b2, _ := reader.ReadByte()
			switch b2 {
			case 72: // up
				if b.up() {
					redraw()
				}
			case 80: // down
				if b.down() {
					redraw()
				}
			case 13: // Enter
				if err := showDetails(); err != nil {
					return nil
				}
			}
			continue
		}

		switch b1 {
		case 27: // ESC or ANSI sequence
			if reader.Buffered() == 0 {
				// Bare ESC – exit
				fmt.Print("\r\n")
				return nil
			}
			b2, _ := reader.ReadByte()
			if b2 != '[' {
				continue
			}
			if reader.Buffered() == 0 {
				continue
			}
			b3, _ := reader.ReadByte()
			switch b3 {
			case 'A': // up
				if b.up() {
					redraw()
				}
			case 'B': // down
				if b.down() {
					redraw()
				}
			}
		case '\r', '\n': // Enter
			if err := showDetails(); err != nil {
				return nil
			}
		case 'c', 'C':
			if err := b.toggle(); err != nil {
				status = colorRed + "failed to save: " + err.Error() + colorReset
			}
			redraw()
		case 3: // Ctrl-C
			fmt.Print("\r\n")
			return nil

		default:
			// ignore other keys
		}
	}
}
