package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumikalt/rizzv-go/config"
	"github.com/lumikalt/rizzv-go/diag"
	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/executor"
	"github.com/lumikalt/rizzv-go/loader"
	"github.com/lumikalt/rizzv-go/tools"
	"github.com/lumikalt/rizzv-go/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	// Command-line flags
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		tuiMode     = flag.Bool("tui", false, "Step through the program interactively")
		dumpMode    = flag.Bool("dump", false, "Assemble only and write the hex dump")
		outputFile  = flag.String("o", "", "Hex dump output file (default: stdout, used with -dump)")
		maxSteps    = flag.Uint64("max-steps", 0, "Maximum instructions before halt (0: config default)")
		numberBase  = flag.String("base", "", "Number base for explanations: hex, dec, bin (default: config)")
		noColor     = flag.Bool("no-color", false, "Disable colored diagnostics")

		// Tracing and statistics flags
		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		enableStats = flag.Bool("stats", false, "Enable execution statistics")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: stdout)")
		statsFormat = flag.String("stats-format", "", "Statistics format (json, csv, text)")

		// Source tool modes
		formatMode  = flag.Bool("fmt", false, "Reformat the source file to stdout and exit")
		lintMode    = flag.Bool("lint", false, "Lint the source file and exit")
		xrefMode    = flag.Bool("xref", false, "Print the label cross-reference and exit")
		dumpSymbols = flag.Bool("dump-symbols", false, "Dump the label table and exit")
	)

	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("rizzv RV32 simulator %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	// Show help
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	// Load configuration; flags override it below
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}

	sourceFile := flag.Arg(0)
	src, err := os.ReadFile(sourceFile) // #nosec G304 -- user-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", sourceFile, err)
		os.Exit(1)
	}

	// Source tool modes work on raw text and exit before assembly
	if *formatMode {
		fmt.Print(tools.FormatSource(string(src), nil))
		os.Exit(0)
	}
	if *lintMode {
		issues := tools.Lint(string(src))
		for _, issue := range issues {
			fmt.Println(issue)
		}
		if tools.HasErrors(issues) {
			os.Exit(1)
		}
		os.Exit(0)
	}
	if *xrefMode {
		if err := tools.WriteXref(os.Stdout, tools.CrossReference(string(src))); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	useColor := cfg.Display.ColorOutput && !*noColor
	printer := diag.NewPrinter(string(src), useColor)

	// Parse and assemble
	e := env.New()
	program, err := loader.Load(e, string(src))
	if err != nil {
		printer.Print(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Assembler.WarnUnusedLabels {
		for _, issue := range tools.Lint(string(src)) {
			if issue.Severity == tools.SeverityWarning {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", issue)
			}
		}
	}

	if *dumpSymbols {
		if err := loader.DumpSymbols(os.Stdout, e); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Assemble-only mode: emit the hex dump and stop
	if *dumpMode {
		if *outputFile != "" {
			if err := loader.WriteHexFile(*outputFile, program.Words); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else if err := loader.WriteHex(os.Stdout, program.Words); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Resolve execution settings from config and flags
	steps := cfg.Execution.MaxSteps
	if *maxSteps > 0 {
		steps = *maxSteps
	}
	baseName := cfg.Display.NumberFormat
	if *numberBase != "" {
		baseName = *numberBase
	}
	base, ok := executor.ParseBase(baseName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown number base %q\n", baseName)
		os.Exit(1)
	}

	// Interactive stepper
	if *tuiMode {
		if err := tui.New(e, program, base, steps).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Headless run
	opts := executor.RunOptions{MaxSteps: steps}
	var observers []func(executor.StepInfo)

	var trace *executor.Trace
	if *enableTrace || cfg.Execution.EnableTrace {
		path := *traceFile
		if path == "" {
			path = filepath.Join(config.GetLogPath(), cfg.Trace.OutputFile)
		}
		f, err := os.Create(path) // #nosec G304 -- user-supplied trace path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create trace file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		trace = executor.NewTrace(f)
		observers = append(observers, trace.Recorder())
	}

	var stats *executor.Statistics
	if *enableStats || cfg.Execution.EnableStats {
		stats = executor.NewStatistics()
		stats.Start()
		observers = append(observers, stats.Recorder())
	}

	if len(observers) > 0 {
		opts.OnStep = func(info executor.StepInfo) {
			for _, o := range observers {
				o(info)
			}
		}
	}

	if err := executor.Run(e, opts); err != nil {
		printer.Print(os.Stderr, err)
		os.Exit(1)
	}

	if stats != nil {
		stats.Stop()
		if err := writeStats(stats, *statsFile, pick(*statsFormat, cfg.Statistics.Format)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if trace != nil && trace.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: trace: %v\n", trace.Err())
		os.Exit(1)
	}

	fmt.Printf("Program finished, pc=0x%08x\n", e.PC)
	if err := loader.FinalRegisters(os.Stdout, e); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func pick(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func writeStats(stats *executor.Statistics, path, format string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path) // #nosec G304 -- user-supplied stats path
		if err != nil {
			return fmt.Errorf("failed to create statistics file: %w", err)
		}
		defer f.Close()
		out = f
	}
	switch format {
	case "csv":
		return stats.WriteCSV(out)
	case "text", "":
		return stats.WriteText(out)
	default:
		return stats.WriteJSON(out)
	}
}

func printHelp() {
	fmt.Printf(`rizzv RV32 simulator %s

An assembler and single-step interpreter for RV32I with the M extension
and a single-precision float subset.

Usage: rizzv [options] <source.s>

Modes:
  (default)       Assemble and run to completion, print final registers
  -tui            Step through the program interactively
  -dump           Assemble only; print the hex dump (one %%08x word per line)
  -dump-symbols   Print the label table and exit
  -fmt            Reformat the source to stdout and exit
  -lint           Report source problems and exit
  -xref           Print the label cross-reference and exit

Options:
  -o <file>           Hex dump output file (with -dump)
  -base hex|dec|bin   Number base for instruction explanations
  -max-steps <n>      Stop after n instructions
  -trace              Write an execution trace
  -trace-file <file>  Trace output path
  -stats              Collect execution statistics
  -stats-file <file>  Statistics output path
  -stats-format <f>   json, csv or text
  -no-color           Plain diagnostics
  -version            Show version information
  -help               Show this help

Keys in -tui mode: s/space/F10 step, r/F5 run, b cycle number base, q quit.
`, Version)
}
