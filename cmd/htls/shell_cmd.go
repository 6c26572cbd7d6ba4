package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell <url>",
	Short: "Interactive session over one cached listing tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vfs, cfg, err := newFS(cmd, args[0], true)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Printf("%s> ", cyan("/"+vfs.Pwd()))
			if !scanner.Scan() {
				return scanner.Err()
			}

			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			arg := ""
			if len(fields) > 1 {
				arg = fields[1]
			}

			var cmdErr error
			switch fields[0] {
			case "pwd":
				fmt.Println("/" + vfs.Pwd())
			case "cd":
				if arg == "" {
					arg = "/"
				}
				_, cmdErr = vfs.Cd(ctx, arg)
			case "ls":
				entries, err := vfs.Ls(ctx)
				if err != nil {
					cmdErr = err
					break
				}
				printEntries(os.Stdout, entries)
			case "get":
				if arg == "" {
					cmdErr = fmt.Errorf("usage: get <path>")
					break
				}
				entity, err := vfs.Entry(ctx, arg)
				if err != nil {
					cmdErr = err
					break
				}
				var path string
				if path, cmdErr = entity.Download(ctx, cfg.OutputDir, ""); cmdErr == nil {
					fmt.Println(path)
				}
			case "help":
				fmt.Println("commands: pwd, cd <path>, ls, get <path>, exit")
			case "exit", "quit":
				return nil
			default:
				cmdErr = fmt.Errorf("unknown command %q (try help)", fields[0])
			}

			if cmdErr != nil {
				fmt.Fprintln(os.Stderr, red(cmdErr.Error()))
			}
		}
	},
}
