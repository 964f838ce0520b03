package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/orizon-lang/swiftparse/internal/cli"
	"github.com/orizon-lang/swiftparse/internal/export"
	"github.com/orizon-lang/swiftparse/internal/parser"
	"github.com/orizon-lang/swiftparse/internal/position"
)

const (
	historyFile = ".swiftparse_history"
	promptMain  = "swift> "
	promptCont  = "  ...> "
)

const replHelp = `Enter declarations or statements; unfinished input continues on the next line.
  :json    toggle JSON output
  :dump    toggle Go-syntax dump output
  :quit    leave`

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func (e *env) execRepl() int {
	fmt.Fprintf(e.out, "%s v%s\n%s\n", toolName, cli.Version, replHelp)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	e.repl(ln)
	return cli.ExitOK
}

// repl runs the read-parse-print loop until end of input or :quit.
func (e *env) repl(ln lineReader) {
	mode := "text"
	for {
		src, ok := readEntry(ln, e.parserOptions())
		if !ok {
			fmt.Fprintln(e.out)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return
			case ":json", ":dump":
				if mode == trimmed[1:] {
					mode = "text"
				} else {
					mode = trimmed[1:]
				}
				fmt.Fprintf(e.out, "output: %s\n", mode)
			default:
				fmt.Fprintln(e.out, replHelp)
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		f, err := parser.ParseFile(context.Background(), "repl", src, parser.WithOptions(e.parserOptions()))
		if err != nil {
			e.log.ReportError(position.NewSourceFile("repl", src), err)
		}
		if f == nil {
			continue
		}
		switch mode {
		case "json":
			err = export.Encode(e.out, f, nil, export.Options{Indent: true})
		case "dump":
			err = export.Dump(e.out, f)
		default:
			for _, item := range f.Items {
				fmt.Fprintf(e.out, "%T %s\n", item, item)
			}
			err = nil
		}
		if err != nil {
			e.log.Error("failed to write %s output: %v", mode, err)
		}
	}
}

// readEntry reads lines until they form a complete entry. It returns false
// at end of input.
func readEntry(ln lineReader, opts parser.Options) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := parser.ParseFile(context.Background(), "repl", src, parser.WithOptions(opts))
		if perr != nil && parser.IsIncomplete(perr, src) && strings.TrimSpace(line) != "" {
			continue
		}
		return src, true
	}
}
