package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ComedicChimera/olive"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/cli"
	"github.com/orizon-lang/swiftparse/internal/config"
	"github.com/orizon-lang/swiftparse/internal/export"
	"github.com/orizon-lang/swiftparse/internal/format"
	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/parser"
	"github.com/orizon-lang/swiftparse/internal/position"
	"github.com/orizon-lang/swiftparse/internal/workspace"
)

// env is what every command runs with.
type env struct {
	cfg *config.Config
	log *cli.Logger
	out io.Writer
	in  io.Reader
}

// newEnv loads the project file and applies command line overrides.
func newEnv(root, sub *olive.ArgParseResult, out io.Writer) (*env, error) {
	path := ""
	if v, ok := root.Arguments["config"]; ok {
		path = v.(string)
	} else if wd, err := os.Getwd(); err == nil {
		path = config.Find(wd)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, ok := root.Arguments["loglevel"]; ok {
		cfg.Log.Level = v.(string)
	}
	if sub.HasFlag("recover") {
		cfg.Parser.Recovery = parser.Recover.String()
	}
	if sub.HasFlag("opaque") {
		cfg.Parser.OpaqueBodies = true
	}
	if sub.HasFlag("tokens") {
		cfg.Output.Tokens = true
	}
	if sub.HasFlag("indent") {
		cfg.Output.Indent = true
	}
	if v, ok := sub.Arguments["format"]; ok {
		cfg.Output.Format = v.(string)
	}
	if v, ok := sub.Arguments["schema"]; ok {
		cfg.Output.SchemaConstraint = v.(string)
	}
	if v, ok := sub.Arguments["jobs"]; ok {
		jobs, err := strconv.Atoi(v.(string))
		if err != nil || jobs <= 0 {
			return nil, fmt.Errorf("invalid job count %q", v)
		}
		cfg.Workspace.Jobs = jobs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := cli.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	cli.ConfigureColor(cfg.Log.Color, os.Stderr)
	logger := cli.NewLogger(os.Stderr, level, os.Getenv("SWIFTPARSE_DEBUG") != "")
	if cfg.Path != "" {
		logger.Debug("using %s", cfg.Path)
	}
	return &env{cfg: cfg, log: logger, out: out, in: os.Stdin}, nil
}

// readSource reads path, or standard input for "-".
func (e *env) readSource(path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(e.in)
		if err != nil {
			return "", "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(data), nil
}

func (e *env) parserOptions() parser.Options {
	// Validated in newEnv.
	opts, _ := e.cfg.ParserOptions()
	return opts
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func (e *env) execParse(sub *olive.ArgParseResult) int {
	path, _ := sub.PrimaryArg()
	if err := export.CheckSchema(e.cfg.Output.SchemaConstraint); err != nil {
		e.log.Error("%v", err)
		return cli.ExitUsage
	}
	name, src, err := e.readSource(path)
	if err != nil {
		e.log.Error("%v", err)
		return cli.ExitFailure
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	f, perr := parser.ParseFile(ctx, name, src, parser.WithOptions(e.parserOptions()))
	e.log.Info("parsed %s in %s", name, time.Since(start))
	if perr != nil {
		e.log.ReportError(position.NewSourceFile(name, src), perr)
	}
	if f != nil {
		if err := e.writeTree(f, perr); err != nil {
			e.log.Error("%v", err)
			return cli.ExitInternal
		}
	}
	if perr != nil {
		return cli.ExitFailure
	}
	return cli.ExitOK
}

func (e *env) writeTree(f *ast.File, perr error) error {
	switch e.cfg.Output.Format {
	case config.FormatJSON:
		var errs []error
		if list, ok := perr.(parser.ErrorList); ok {
			for _, pe := range list {
				errs = append(errs, pe)
			}
		}
		return export.Encode(e.out, f, errs, export.Options{
			Indent: e.cfg.Output.Indent,
			Tokens: e.cfg.Output.Tokens,
		})
	case config.FormatDump:
		return export.Dump(e.out, f)
	}
	_, err := fmt.Fprintln(e.out, f.String())
	return err
}

func (e *env) execCheck(sub *olive.ArgParseResult) int {
	path, _ := sub.PrimaryArg()
	ctx, cancel := signalContext()
	defer cancel()
	if !e.check(ctx, []string{path}) {
		return cli.ExitFailure
	}
	return cli.ExitOK
}

// check parses every file under roots and reports diagnostics. It returns
// false when any file failed to parse.
func (e *env) check(ctx context.Context, roots []string) bool {
	filter := workspace.Filter{Extensions: e.cfg.Workspace.Extensions, Exclude: e.cfg.Workspace.Exclude}
	files, err := workspace.Discover(roots, filter)
	if err != nil {
		e.log.Error("%v", err)
		return false
	}
	e.log.Info("checking %d files with %d jobs", len(files), e.cfg.Workspace.Jobs)

	start := time.Now()
	results, err := workspace.ParseAll(ctx, files, e.cfg.Workspace.Jobs, e.parserOptions())
	if err != nil {
		e.log.Error("%v", err)
		return false
	}
	for _, r := range results {
		if r.Err != nil {
			e.log.ReportError(position.NewSourceFile(r.Path, r.Source), r.Err)
		}
		e.log.Debug("%s: %s", r.Path, r.Duration)
	}

	s := workspace.Summarize(results, time.Since(start))
	fmt.Fprintf(e.out, "%d files, %d failed, %d errors (%s)\n", s.Files, s.Failed, s.Errors, s.Elapsed.Round(time.Millisecond))
	return s.Failed == 0
}

func (e *env) execTokens(sub *olive.ArgParseResult) int {
	path, _ := sub.PrimaryArg()
	name, src, err := e.readSource(path)
	if err != nil {
		e.log.Error("%v", err)
		return cli.ExitFailure
	}
	if !writeTokens(e.out, e.log, name, src) {
		return cli.ExitFailure
	}
	return cli.ExitOK
}

// writeTokens prints one token per line and reports lexical errors. It
// returns false when there were any.
func writeTokens(w io.Writer, log *cli.Logger, name, src string) bool {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	ok := true
	sf := position.NewSourceFile(name, src)
	for tok, err := range lexer.Tokens(name, src) {
		if err != nil {
			ok = false
			log.ReportError(sf, err)
			continue
		}
		if tok.Type == lexer.TokenEOF {
			break
		}
		flags := ""
		switch {
		case tok.NewlineBefore:
			flags = "nl"
		case tok.SpaceBefore:
			flags = "sp"
		}
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\t%q\n", tok.Span.Start.Line, tok.Span.Start.Column, tok.Kind(), tok.Type, flags, tok.Literal)
	}
	tw.Flush()
	return ok
}

func (e *env) execRoundtrip(sub *olive.ArgParseResult) int {
	path, _ := sub.PrimaryArg()
	name, src, err := e.readSource(path)
	if err != nil {
		e.log.Error("%v", err)
		return cli.ExitFailure
	}
	opts := format.DefaultOptions()
	opts.Layout = sub.HasFlag("layout")

	out, result, err := format.RoundTrip(name, src, opts)
	if err != nil {
		e.log.ReportError(position.NewSourceFile(name, src), err)
		return cli.ExitFailure
	}
	if sub.HasFlag("diff") {
		fmt.Fprint(e.out, format.FormatDiff(name, result))
	} else {
		fmt.Fprint(e.out, out)
	}
	if result.HasChanges() {
		e.log.Error("%s: token stream changed in %d places", name, len(result.Changes))
		return cli.ExitFailure
	}
	e.log.Info("%s: %d tokens round-tripped", name, result.Compared)
	return cli.ExitOK
}

func (e *env) execWatch(sub *olive.ArgParseResult) int {
	root, _ := sub.PrimaryArg()
	ctx, cancel := signalContext()
	defer cancel()

	filter := workspace.Filter{Extensions: e.cfg.Workspace.Extensions, Exclude: e.cfg.Workspace.Exclude}
	w, err := workspace.NewWatcher(filter)
	if err != nil {
		e.log.Error("failed to start watcher: %v", err)
		return cli.ExitInternal
	}
	defer w.Close()
	if err := w.AddTree(root); err != nil {
		e.log.Error("failed to watch %s: %v", root, err)
		return cli.ExitFailure
	}

	e.check(ctx, []string{root})
	go func() {
		<-ctx.Done()
		w.Close()
	}()
	go func() {
		for err := range w.Errors() {
			e.log.Warn("watch: %v", err)
		}
	}()

	for {
		changed := workspace.Debounce(w.Events(), 150*time.Millisecond)
		if changed == nil {
			return cli.ExitOK
		}
		var present []string
		for _, p := range changed {
			if _, err := os.Stat(p); err == nil {
				present = append(present, p)
			}
		}
		e.log.Info("%d files changed", len(changed))
		if len(present) > 0 {
			e.check(ctx, present)
		}
	}
}

func execInit(sub *olive.ArgParseResult) int {
	dir, ok := sub.PrimaryArg()
	if !ok {
		dir = "."
	}
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists\n", path)
		return cli.ExitFailure
	}
	if err := config.Default().Save(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitFailure
	}
	fmt.Println(cli.SuccessColorFG.Sprint("wrote " + path))
	return cli.ExitOK
}
