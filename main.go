package main

import "os"

// Compile runs the whole pipeline on one source text with the default
// builtin set: tokenize, parse, analyze, generate.
func Compile(src []byte) (string, error) {
	return CompileWithConfig(src, BuiltinConfig{})
}

// CompileWithConfig is Compile with optional builtins switched on.
func CompileWithConfig(src []byte, cfg BuiltinConfig) (string, error) {
	prog, err := parseAndAnalyze(src, cfg)
	if err != nil {
		return "", err
	}
	return Generate(prog), nil
}

// parseAndAnalyze runs the front half of the pipeline and returns the
// annotated tree, for callers that do not need instructions.
func parseAndAnalyze(src []byte, cfg BuiltinConfig) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	prog, err := Parse(toks)
	if err != nil {
		return nil, err
	}
	if err := AnalyzeWithConfig(prog, cfg); err != nil {
		return nil, err
	}
	return prog, nil
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		buildCommand(os.Args[2:])
	case "check":
		checkCommand(os.Args[2:])
	case "eval":
		evalCommand(os.Args[2:])
	case "help", "-h", "--help":
		showUsage()
	default:
		showUsage()
		os.Exit(1)
	}
}
