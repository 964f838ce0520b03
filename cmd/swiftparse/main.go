// Command swiftparse parses Swift-like source files and reports their syntax
// trees, tokens and errors.
package main

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"

	"github.com/orizon-lang/swiftparse/internal/cli"
)

const toolName = "swiftparse"

func main() {
	os.Exit(execute(os.Args))
}

// execute runs the command line and returns the process exit code.
func execute(args []string) int {
	root := olive.NewCLI(toolName, "swiftparse parses Swift-like source into syntax trees", true)
	root.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warning", "verbose"})
	root.AddStringArg("config", "c", "path to a swiftparse.toml file", false)

	parseCmd := root.AddSubcommand("parse", "parse a file and print its syntax tree", true)
	parseCmd.AddPrimaryArg("path", "the file to parse, or - for standard input", true)
	parseCmd.AddSelectorArg("format", "f", "the output format", false, []string{"text", "json", "dump"})
	parseCmd.AddStringArg("schema", "s", "require the JSON schema version to satisfy a constraint", false)
	parseCmd.AddFlag("recover", "r", "keep parsing after errors and print the partial tree")
	parseCmd.AddFlag("opaque", "o", "keep declaration bodies as verbatim text")
	parseCmd.AddFlag("tokens", "t", "include the token stream in JSON output")
	parseCmd.AddFlag("indent", "i", "indent JSON output")

	checkCmd := root.AddSubcommand("check", "parse every source file under a path and report errors", true)
	checkCmd.AddPrimaryArg("path", "a file or directory", true)
	checkCmd.AddStringArg("jobs", "j", "the number of files parsed at once", false)
	checkCmd.AddFlag("recover", "r", "report every error instead of the first one per file")

	tokensCmd := root.AddSubcommand("tokens", "print the token stream of a file", true)
	tokensCmd.AddPrimaryArg("path", "the file to tokenize, or - for standard input", true)

	roundtripCmd := root.AddSubcommand("roundtrip", "re-serialize the tokens of a file and verify them", true)
	roundtripCmd.AddPrimaryArg("path", "the file to serialize, or - for standard input", true)
	roundtripCmd.AddFlag("layout", "l", "indent lines by nesting depth")
	roundtripCmd.AddFlag("diff", "d", "print only the token differences")

	watchCmd := root.AddSubcommand("watch", "check a directory again whenever a source file changes", true)
	watchCmd.AddPrimaryArg("path", "the directory to watch", true)
	watchCmd.AddFlag("recover", "r", "report every error instead of the first one per file")

	root.AddSubcommand("repl", "parse declarations and statements interactively", false)

	initCmd := root.AddSubcommand("init", "write a default swiftparse.toml", true)
	initCmd.AddPrimaryArg("dir", "the directory to write into", false)

	versionCmd := root.AddSubcommand("version", "print version information", true)
	versionCmd.AddFlag("json", "j", "print version information as JSON")

	result, err := olive.ParseArgs(root, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyleBG.Sprint("CLI Usage Error"), err)
		return cli.ExitUsage
	}

	name, sub, ok := result.Subcommand()
	if !ok {
		fmt.Fprintln(os.Stderr, "no command given; run swiftparse --help")
		return cli.ExitUsage
	}
	if name == "version" {
		if err := cli.PrintVersion(os.Stdout, toolName, sub.HasFlag("json")); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return cli.ExitInternal
		}
		return cli.ExitOK
	}
	if name == "init" {
		return execInit(sub)
	}

	env, err := newEnv(result, sub, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyleBG.Sprint("Config Error"), err)
		return cli.ExitUsage
	}

	switch name {
	case "parse":
		return env.execParse(sub)
	case "check":
		return env.execCheck(sub)
	case "tokens":
		return env.execTokens(sub)
	case "roundtrip":
		return env.execRoundtrip(sub)
	case "watch":
		return env.execWatch(sub)
	case "repl":
		return env.execRepl()
	}
	return cli.ExitUsage
}
