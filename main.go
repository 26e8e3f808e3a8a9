package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sicxe/assembler/config"
	"github.com/sicxe/assembler/encoder"
	"github.com/sicxe/assembler/loader"
	"github.com/sicxe/assembler/object"
	"github.com/sicxe/assembler/parser"
	"github.com/sicxe/assembler/pass1"
	"github.com/sicxe/assembler/tools"
	"github.com/sicxe/assembler/vm"
	"github.com/sicxe/assembler/viewer"

	"flag"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		memModel    = flag.String("mem", "", "Memory model: SIC (32KB) or XE (1MB); defaults to the config's memory_model (XE)")
		verboseMode = flag.Bool("verbose", false, "Print the Pass 1 intermediate listing and symbol table")
		outPath     = flag.String("o", "", "Output path for the object program text (default stdout)")
		formatMode  = flag.Bool("format", false, "Reformat the source instead of assembling")
		lintMode    = flag.Bool("lint", false, "Run the static linter instead of assembling")
		xrefMode    = flag.Bool("xref", false, "Print a symbol cross-reference report instead of assembling")
		tuiMode     = flag.Bool("tui", false, "Open the read-only TUI viewer instead of printing to stdout")
		configPath  = flag.String("config", "", "Explicit config file path, overriding the default")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("sicxe %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}
	if *memModel == "" {
		*memModel = cfg.Assembly.MemoryModel
	}

	source, err := readSource(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source: %v\n", err)
		os.Exit(2)
	}

	switch {
	case *formatMode:
		out := tools.FormatString(source)
		os.Exit(writeOutput(out, *outPath))

	case *lintMode:
		issues := tools.NewLinter(nil).Lint(source)
		exit := 0
		for _, issue := range issues {
			fmt.Println(issue.String())
			if issue.Level == tools.LintError {
				exit = 1
			}
		}
		os.Exit(exit)

	case *xrefMode:
		os.Exit(writeOutput(tools.GenerateXRef(source), *outPath))
	}

	lines := parser.Tokenize(source)

	if dl := parser.Validate(lines); dl.HasErrors() {
		printDiagnostics(dl)
		os.Exit(1)
	}

	p1 := pass1.Run(lines)
	if *verboseMode {
		printIntermediateListing(p1)
	}
	if !p1.Success {
		printDiagnostics(p1.Diagnostics)
		os.Exit(1)
	}

	p2 := encoder.Run(p1)
	if !p2.Success {
		printDiagnostics(p2.Diagnostics)
		os.Exit(1)
	}

	prog := object.Generate(p1, p2)

	if *tuiMode {
		memSize, merr := memorySize(*memModel)
		if merr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", merr)
			os.Exit(2)
		}
		loaded, lerr := loader.LoadFromEncoded(p1, p2, memSize)
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "Error loading program into memory: %v\n", lerr)
			os.Exit(2)
		}
		v := viewer.NewViewer(p1, prog, loaded, cfg)
		if err := v.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Viewer error: %v\n", err)
			os.Exit(2)
		}
		os.Exit(0)
	}

	os.Exit(writeOutput(prog.String(), *outPath))
}

func loadConfig(explicitPath string) (*config.Config, error) {
	if explicitPath != "" {
		return config.LoadFrom(explicitPath)
	}
	return config.Load()
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified source path
	return string(data), err
}

func writeOutput(text, outPath string) int {
	if outPath == "" {
		fmt.Println(text)
		return 0
	}
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0644); err != nil { // #nosec G306 -- object/report output, not sensitive
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 2
	}
	return 0
}

func memorySize(model string) (uint32, error) {
	switch model {
	case "SIC":
		return vm.SICMemorySize, nil
	case "XE":
		return vm.XEMemorySize, nil
	default:
		return 0, fmt.Errorf("unknown memory model %q (expected SIC or XE)", model)
	}
}

func printDiagnostics(dl *parser.DiagnosticList) {
	for _, d := range dl.Errors() {
		fmt.Fprintln(os.Stderr, d.String())
	}
	for _, d := range dl.Warnings() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func printIntermediateListing(p1 *pass1.Result) {
	fmt.Println("Intermediate Listing")
	fmt.Println("====================")
	for _, entry := range p1.Intermediate {
		if entry.HasLocCtr {
			fmt.Printf("%05X  %s\n", entry.LocCtr, entry.Line.Raw)
		} else {
			fmt.Printf("       %s\n", entry.Line.Raw)
		}
	}
	fmt.Println()
	fmt.Println("Symbol Table")
	fmt.Println("============")
	for _, sym := range p1.Symbols.All() {
		fmt.Printf("%-10s %05X\n", sym.Name, sym.Value)
	}
	fmt.Println()
}

func printHelp() {
	fmt.Printf(`sicxe %s - a SIC/XE two-pass assembler

Usage: sicxe [options] <source-file>
       sicxe [options] -

Options:
  -help            Show this help message
  -version         Show version information
  -mem MODEL       Memory model: SIC (32KB) or XE (1MB), default from config (XE)
  -verbose         Print the Pass 1 intermediate listing and symbol table
  -o FILE          Output path for the object program text (default stdout)
  -format          Reformat the source instead of assembling
  -lint            Run the static linter instead of assembling
  -xref            Print a symbol cross-reference report instead of assembling
  -tui             Open the read-only TUI viewer instead of printing to stdout
  -config FILE     Explicit config file path, overriding the default

A lone "-" in place of the source file reads from standard input.

Exit codes: 0 success, 1 assembly error, 2 usage or I/O failure.

Examples:
  sicxe program.asm
  sicxe -verbose -o program.obj program.asm
  sicxe -lint program.asm
  sicxe -xref program.asm
  sicxe -format program.asm
  sicxe -tui program.asm
`, Version)
}
