// Command ferritec is the compiler driver: it parses the flag surface,
// reads the input file, and runs it through the core pipeline
// (parse -> analyze -> plan). The CLI carries no compiler semantics of
// its own — it only wires the flags to the packages that do.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	ferrite "github.com/ferrite-lang/ferritec"
)

const version = "ferritec 0.1.0"

// repeatedFlag accumulates a flag.Value across repeated occurrences,
// the shape the flag package expects for a custom multi-value flag.
type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ",") }
func (r *repeatedFlag) Set(v string) error {
	*r = append(*r, v)
	return nil
}

type cliArgs struct {
	output      string
	optimize    int
	debug       bool
	verbose     bool
	target      string
	backend     string
	includes    repeatedFlag
	libPaths    repeatedFlag
	libs        repeatedFlag
	noStdlib    bool
	testMode    bool
	showVersion bool
}

func readArgs(fs *flag.FlagSet, argv []string) (*cliArgs, []string, error) {
	a := &cliArgs{}
	fs.StringVar(&a.output, "o", "a.out", "output file")
	fs.IntVar(&a.optimize, "O", 0, "optimization level [0-3]")
	fs.BoolVar(&a.debug, "g", false, "emit debug info")
	fs.BoolVar(&a.verbose, "v", false, "verbose output")
	fs.StringVar(&a.target, "t", "native", "target triple: x86_64, arm64, wasm32, native")
	fs.StringVar(&a.backend, "b", "llvm", "backend (only llvm is supported; legacy names are deprecated)")
	fs.Var(&a.includes, "I", "include path (repeatable)")
	fs.Var(&a.libPaths, "L", "library search path (repeatable)")
	fs.Var(&a.libs, "l", "library to link (repeatable)")
	fs.BoolVar(&a.noStdlib, "no-stdlib", false, "don't link the standard library")
	fs.BoolVar(&a.testMode, "test-mode", false, "run in test-mode (relaxes nothing in the core; reserved for driver-level test wiring)")
	fs.BoolVar(&a.showVersion, "version", false, "print the version and exit")

	if err := fs.Parse(argv); err != nil {
		return nil, nil, err
	}
	return a, fs.Args(), nil
}

func main() {
	fs := flag.NewFlagSet("ferritec", flag.ContinueOnError)
	a, rest, err := readArgs(fs, os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if a.showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if a.backend != "llvm" {
		fmt.Fprintf(os.Stderr, "warning: backend %q is deprecated, only \"llvm\" is supported\n", a.backend)
	}

	switch a.target {
	case "x86_64", "arm64", "wasm32", "native":
	default:
		fmt.Fprintf(os.Stderr, "usage error: unknown target %q\n", a.target)
		os.Exit(1)
	}
	if a.optimize < 0 || a.optimize > 3 {
		fmt.Fprintf(os.Stderr, "usage error: -O must be 0-3, got %d\n", a.optimize)
		os.Exit(1)
	}

	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ferritec [flags] <source-file>")
		os.Exit(1)
	}
	inputPath := rest[0]

	src, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: can't read %s: %s\n", inputPath, err)
		os.Exit(1)
	}

	exitCode := compile(inputPath, src, a)
	os.Exit(exitCode)
}

// compile runs the parse -> analyze -> plan pipeline and reports
// diagnostics, returning the process exit code.
func compile(path string, src []byte, a *cliArgs) int {
	cfg := ferrite.NewConfig()
	cfg.SetInt("codegen.optimize", a.optimize)
	cfg.SetString("codegen.target", a.target)

	prog, parseDiags := ferrite.ParseSource(ferrite.FileID(0), src)
	reportDiagnostics(path, parseDiags.Items())
	if parseDiags.HasErrors() {
		return 2
	}

	analyzer := ferrite.NewAnalyzer(cfg)
	analysisDiags := analyzer.Analyze(prog)
	reportDiagnostics(path, analysisDiags.Items())
	if analysisDiags.HasErrors() {
		return 2
	}

	if a.verbose {
		fmt.Fprintln(os.Stderr, prog.PrettyString())
	}

	planner := ferrite.NewPlanner(cfg, analyzer)
	plan, planDiags := planner.Plan(prog)
	reportDiagnostics(path, planDiags.Items())
	if planDiags.HasErrors() {
		return 3
	}

	if a.verbose {
		fmt.Fprintf(os.Stderr, "lowered %d function(s), %d FFI call site(s)\n", len(plan.Funcs), len(plan.FFI))
	}

	// Object/ELF emission belongs to the external backend — ferritec's
	// job ends at producing a validated CodegenPlan for it.
	fmt.Fprintf(os.Stderr, "%s: compiled (plan emitted; object emission is an external backend concern)\n", a.output)
	return 0
}

func reportDiagnostics(path string, diags []ferrite.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, d.Error())
	}
}
