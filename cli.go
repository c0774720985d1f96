package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Slate - a small class-based scripting language compiler

Usage:
    slate <command> [arguments]

Commands:
    build <file>    Compile a .sl file to stack-machine instructions
    check <file>    Parse and analyze a .sl file without generating code
    eval <code>     Compile inline Slate code and print the instructions
    help            Show this help message

Examples:
    slate build -o program.code hello.sl
    slate check myfile.sl

The exit status on failure is the error kind: 1 lexical, 2 syntax,
3 undefined symbol, 4 redefinition, 5 argument count, 6 expression type,
10 other semantic, 99 internal.

Use "slate <command> -h" for more information about a command.
`)
}

// builtinFlags registers the builtin feature switches shared by every
// command and returns a loader for the parsed config.
func builtinFlags(fs *flag.FlagSet) func() BuiltinConfig {
	readBool := fs.Bool("read-bool", false, "Enable the Std.read_bool builtin")
	isInt := fs.Bool("is-int", false, "Enable the Std.is_int builtin")
	return func() BuiltinConfig {
		return BuiltinConfig{ReadBool: *readBool, IsInt: *isInt}
	}
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.code)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	cfg := builtinFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slate build [-o output] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a .sl file to stack-machine instructions\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, ".sl") + ".code"
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(int(ErrInternal))
	}

	if *verbose {
		fmt.Printf("Compiling %s to %s...\n", filename, outputFile)
	}

	code, cerr := CompileWithConfig(src, cfg())
	if cerr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, cerr)
		os.Exit(ExitCode(cerr))
	}

	if err := os.WriteFile(outputFile, []byte(code), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
		os.Exit(int(ErrInternal))
	}

	if *verbose {
		fmt.Printf("Generated %s (%d lines)\n", outputFile, strings.Count(code, "\n"))
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	showAST := fs.Bool("ast", false, "Print the program tree as an s-expression")
	cfg := builtinFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slate check [-ast] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and analyze a .sl file without generating code\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(int(ErrInternal))
	}

	prog, cerr := parseAndAnalyze(src, cfg())
	if cerr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, cerr)
		os.Exit(ExitCode(cerr))
	}

	if *showAST {
		fmt.Println(prog.ToSExpr())
	} else {
		fmt.Printf("%s: no errors found\n", filename)
	}
}

func evalCommand(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	cfg := builtinFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slate eval <code>\n")
		fmt.Fprintf(os.Stderr, "Compile inline Slate code and print the instructions\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}

	code, cerr := CompileWithConfig([]byte(fs.Arg(0)), cfg())
	if cerr != nil {
		fmt.Fprintf(os.Stderr, "eval: %v\n", cerr)
		os.Exit(ExitCode(cerr))
	}
	fmt.Print(code)
}
