package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/parser"
	"github.com/orizon-lang/swiftparse/internal/position"
)

// Diagnostic is one message about a source location.
type Diagnostic struct {
	Kind    string // banner title, e.g. "Syntax"
	Message string
	Span    position.Span // a zero-width span selects one column
	IsError bool
}

// FromError converts parse and lex errors into diagnostics. Other errors
// yield a single diagnostic without a location.
func FromError(err error) []Diagnostic {
	var list parser.ErrorList
	if errors.As(err, &list) {
		out := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			out = append(out, fromParseError(e))
		}
		return out
	}
	var pe *parser.Error
	if errors.As(err, &pe) {
		return []Diagnostic{fromParseError(pe)}
	}
	var le *lexer.LexError
	if errors.As(err, &le) {
		return []Diagnostic{{Kind: "Token", Message: le.Message, Span: position.Span{Start: le.Pos, End: le.Pos}, IsError: true}}
	}
	if err == nil {
		return nil
	}
	return []Diagnostic{{Kind: "Input", Message: err.Error(), IsError: true}}
}

var diagnosticKinds = map[parser.ErrorKind]string{
	parser.LexError:                        "Token",
	parser.UnexpectedToken:                 "Syntax",
	parser.UnexpectedDeclarationIntroducer: "Declaration",
	parser.MalformedDeclaration:            "Declaration",
	parser.MalformedPattern:                "Pattern",
	parser.MalformedCondition:              "Condition",
	parser.UnterminatedBlock:               "Block",
	parser.Cancelled:                       "Cancelled",
	parser.DuplicateModifier:               "Modifier",
}

func fromParseError(e *parser.Error) Diagnostic {
	msg := e.Error()
	// The banner and the selection already show where.
	if e.Pos.IsValid() {
		msg = strings.TrimPrefix(msg, e.Pos.String()+": ")
	}
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return Diagnostic{
		Kind:    diagnosticKinds[e.Kind],
		Message: msg,
		Span:    position.Span{Start: e.Pos, End: e.Pos},
		IsError: true,
	}
}

// Diagnostic prints d with a banner and, when src is given, the selected
// source lines with carets under the selection.
func (l *Logger) Diagnostic(src *position.SourceFile, d Diagnostic) {
	l.mu.Lock()
	if d.IsError {
		l.errorCount++
	} else {
		l.warnCount++
	}
	l.mu.Unlock()

	if l.Level == LevelSilent || (!d.IsError && l.Level < LevelWarning) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	writeBanner(l.out, src, d)
	fmt.Fprintln(l.out, d.Message)
	if src != nil && d.Span.Start.IsValid() {
		writeSelection(l.out, src, d.Span)
	}
}

// writeBanner displays the banner on top of every diagnostic
func writeBanner(w io.Writer, src *position.SourceFile, d Diagnostic) {
	fmt.Fprint(w, "\n-- ")
	kind := d.Kind
	if kind == "" {
		kind = "Syntax"
	}
	title := kind + " Warning"
	style := WarnStyleBG
	if d.IsError {
		title = kind + " Error"
		style = ErrorStyleBG
	}
	fmt.Fprint(w, style.Sprint(title), " ")

	where := ""
	if src != nil {
		where = filepath.Base(src.Filename)
	}
	if d.Span.Start.IsValid() {
		where += fmt.Sprintf(":%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(where) - len(title) - 1
	if dashCount < 2 {
		dashCount = 2
	}
	fmt.Fprintln(w, strings.Repeat("-", dashCount)+" "+InfoColorFG.Sprint(where))
}

// writeSelection displays the selected lines with line numbers and carets.
func writeSelection(w io.Writer, src *position.SourceFile, span position.Span) {
	startLn, endLn := span.Start.Line, span.End.Line
	if endLn < startLn {
		endLn = startLn
	}
	lines := make([]string, 0, endLn-startLn+1)
	for ln := startLn; ln <= endLn; ln++ {
		lines = append(lines, src.GetLine(ln))
	}

	width := len(strconv.Itoa(endLn)) + 1
	lineFmt := "%-" + strconv.Itoa(width) + "v"

	fmt.Fprintln(w)
	for i, line := range lines {
		fmt.Fprint(w, InfoColorFG.Sprint(fmt.Sprintf(lineFmt, startLn+i)), "|  ", line, "\n")

		from, to := 0, len(line)
		if i == 0 {
			from = span.Start.Column - 1
		}
		if i == len(lines)-1 {
			to = span.End.Column - 1
		}
		if from > len(line) {
			from = len(line)
		}
		if to <= from {
			to = from + 1
		}
		fmt.Fprint(w, strings.Repeat(" ", width), "|  ", padding(line[:from]), ErrorColorFG.Sprint(strings.Repeat("^", to-from)), "\n")
	}
}

// padding blanks out prefix while keeping its tabs so carets line up.
func padding(prefix string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, prefix)
}

// ReportError prints every diagnostic carried by err against src.
func (l *Logger) ReportError(src *position.SourceFile, err error) {
	for _, d := range FromError(err) {
		l.Diagnostic(src, d)
	}
}
