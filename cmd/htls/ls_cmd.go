package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/htls/htls/internal/htfs"
)

var lsCmd = &cobra.Command{
	Use:   "ls <url> [path]",
	Short: "List a remote directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, _, err := newFS(cmd, args[0], false)
		if err != nil {
			return err
		}

		if len(args) == 2 {
			if _, err := fs.Cd(cmd.Context(), args[1]); err != nil {
				return err
			}
		}

		entries, err := fs.Ls(cmd.Context())
		if err != nil {
			return err
		}

		printEntries(os.Stdout, entries)
		return nil
	},
}

func printEntries(w io.Writer, entries []htfs.Dirent) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, e := range entries {
		kind := "-"
		name := e.Name
		if e.IsFolder {
			kind = "d"
			name = cyan(name + "/")
		}

		date := ""
		if !e.Date.IsZero() {
			date = humanize.Time(e.Date)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", kind, name, e.Size, date, e.Description)
	}
	tw.Flush()
}
