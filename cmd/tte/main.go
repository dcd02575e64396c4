package main

import (
	"fmt"
	"os"

	"github.com/barun-bash/tte/internal/cli"
	"github.com/barun-bash/tte/internal/editor"
	"github.com/barun-bash/tte/internal/storage"
	"github.com/barun-bash/tte/internal/term"
	"github.com/barun-bash/tte/internal/version"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("tte v%s\n", version.Info())
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, cli.Error("too many arguments"))
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err := run(args); err != nil {
		fmt.Fprintln(os.Stderr, cli.Error(err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	var doc *editor.Document
	if len(args) == 1 {
		lines, err := storage.ReadLines(args[0])
		if err != nil {
			return err
		}
		doc = editor.NewDocumentFromLines(args[0], lines)
	} else {
		doc = editor.NewDocument()
	}

	return editor.New(doc).Run(term.New())
}

func printUsage() {
	fmt.Println(`tte — a tiny terminal text editor

Usage:
  tte [file]

Keys:
  Ctrl-S  save (prompts for a name on new buffers)
  Ctrl-Q  quit (press repeatedly to discard unsaved changes)
  Ctrl-F  incremental search (ESC cancels, Enter keeps the match)
  Ctrl-G  go to line`)
}
