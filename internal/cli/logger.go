package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Level selects how much the logger prints.
type Level int

// Enumeration of the different log levels
const (
	LevelSilent  Level = iota // no output at all
	LevelError                // errors only
	LevelWarning              // errors and warnings (default)
	LevelVerbose              // everything, including progress
)

var levelNames = map[string]Level{
	"silent":  LevelSilent,
	"error":   LevelError,
	"warning": LevelWarning,
	"verbose": LevelVerbose,
}

// ParseLevel maps a level name to a Level.
func ParseLevel(name string) (Level, error) {
	if lvl, ok := levelNames[name]; ok {
		return lvl, nil
	}
	return LevelWarning, fmt.Errorf("unknown log level %q", name)
}

func (l Level) String() string {
	for name, lvl := range levelNames {
		if lvl == l {
			return name
		}
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
	DebugColorFG   = pterm.FgGray
)

// Logger writes leveled, styled messages for the CLI. It is safe for
// concurrent use; messages from parallel parses never interleave.
type Logger struct {
	Level     Level
	DebugMode bool

	out        io.Writer
	mu         sync.Mutex
	errorCount int
	warnCount  int
	now        func() time.Time
}

// NewLogger creates a logger writing to out, or to stderr when out is nil.
func NewLogger(out io.Writer, level Level, debug bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{Level: level, DebugMode: debug, out: out, now: time.Now}
}

// Writer returns the logger's destination.
func (l *Logger) Writer() io.Writer { return l.out }

func (l *Logger) print(style *pterm.Style, tag string, color pterm.Color, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s %s\n", l.now().Format("15:04:05"), style.Sprint(tag), color.Sprint(msg))
}

// Info logs a progress message at the verbose level
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Level >= LevelVerbose {
		l.print(InfoStyleBG, "INFO", InfoColorFG, fmt.Sprintf(format, args...))
	}
}

// Debug logs a debug message when debug mode is on
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		l.print(pterm.NewStyle(pterm.BgGray, pterm.FgWhite), "DEBUG", DebugColorFG, fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	l.warnCount++
	l.mu.Unlock()
	if l.Level >= LevelWarning {
		l.print(WarnStyleBG, "WARN", WarnColorFG, fmt.Sprintf(format, args...))
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	l.errorCount++
	l.mu.Unlock()
	if l.Level >= LevelError {
		l.print(ErrorStyleBG, "ERROR", ErrorColorFG, fmt.Sprintf(format, args...))
	}
}

// ErrorCount reports how many errors and diagnostics were logged.
func (l *Logger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errorCount
}

// WarningCount reports how many warnings were logged.
func (l *Logger) WarningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warnCount
}

// ShouldProceed reports whether no error has been logged yet.
func (l *Logger) ShouldProceed() bool {
	return l.ErrorCount() == 0
}

// HandleError logs err and exits when it is non-nil.
func HandleError(err error, logger *Logger) {
	if err == nil {
		return
	}
	if logger != nil {
		logger.Error("%v", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitFailure)
}

// ConfigureColor enables or disables styled output. mode is auto, always
// or never; auto styles only when f is a terminal.
func ConfigureColor(mode string, f *os.File) {
	switch mode {
	case "always":
		pterm.EnableColor()
	case "never":
		pterm.DisableColor()
	default:
		if IsTerminal(f) {
			pterm.EnableColor()
		} else {
			pterm.DisableColor()
		}
	}
}
