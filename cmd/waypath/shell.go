package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/waypath/command"
)

func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the map and route interactively, one command per line",
		Long: `shell reads commands from standard input until EOF or "quit".

` + command.Usage,
		Args: cobra.NoArgs,
		RunE: a.runShell,
	}
}

func (a *app) runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, closeStore, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	h := a.newHandler(sess)
	interactive := isInteractive(a.stdin)
	scanner := bufio.NewScanner(a.stdin)
	for {
		if interactive {
			fmt.Fprint(a.stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case line == "quit" || line == "exit":
			return nil
		}
		if err := h.Execute(ctx, line); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func isInteractive(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
