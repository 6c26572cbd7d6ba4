package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <url> [path]",
	Short: "Download a file or a whole subtree",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vfs, cfg, err := newFS(cmd, args[0], true)
		if err != nil {
			return err
		}

		entity := vfs.Root()
		if len(args) == 2 {
			entity, err = vfs.Entry(cmd.Context(), args[1])
			if err != nil {
				return err
			}
		}

		slog.Debug("download start", "locator", entity.Locator(), "dest", cfg.OutputDir)

		path, err := entity.Download(cmd.Context(), cfg.OutputDir, "")
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", path, humanize.Bytes(treeSize(path)))
		return nil
	},
}

// treeSize sums the regular files under path; for a plain file it is just
// its size.
func treeSize(path string) uint64 {
	var total uint64
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += uint64(info.Size())
		}
		return nil
	})
	return total
}
