// Command ramc is the thin glue binary over the toolkit: it loads a .ram
// source file into the query-engine database, runs the analysis pipeline
// over its lowered body, prints any diagnostics, and — for "run" — compiles
// and executes the resulting VM program. It is not a feature-complete CLI
// product; per the toolkit's own scope, the CLI surface is intentionally
// minimal.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ramtk/ram/internal/analysis"
	"github.com/ramtk/ram/internal/compile"
	"github.com/ramtk/ram/internal/config"
	"github.com/ramtk/ram/internal/db"
	"github.com/ramtk/ram/internal/diagnostics"
	"github.com/ramtk/ram/internal/types"
	"github.com/ramtk/ram/internal/vm"
)

func main() {
	app := &cli.App{
		Name:  "ramc",
		Usage: "RAM assembly compiler and analyzer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "project root to load .ramc.kdl from",
				Value: ".",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "compile and execute a .ram program",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{
						Name:  "input",
						Usage: "values READ consumes, in order",
					},
					&cli.IntFlag{
						Name:  "max-steps",
						Usage: "override the VM's step budget (0 = config default)",
					},
				},
				Action: runCommand,
			},
			{
				Name:      "check",
				Usage:     "run the analysis pipeline and print diagnostics, without executing",
				ArgsUsage: "<file>",
				Action:    checkCommand,
			},
			{
				Name:      "graph",
				Usage:     "export the control-flow graph or pipeline dependency graph",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "dot, mermaid, or json",
						Value: "dot",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "cfg, dependencies, or order",
						Value: "cfg",
					},
				},
				Action: graphCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadBody reads path's source into a fresh Database and returns the owner
// id of its single body (callers lower it with Database.Body), together
// with the database's own syntax diagnostics — a caller prints those even
// when lowering otherwise succeeds.
func loadBody(path string) (*db.Database, *types.DefId, []*diagnostics.Diagnostic, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	database := db.New()
	fileID := database.AddFile(string(source), types.DurabilityLow)
	owner := types.DefId{File: fileID, Local: 0}

	syntaxDiags, err := database.Diagnostics(fileID)
	if err != nil {
		return nil, nil, nil, err
	}

	return database, &owner, syntaxDiags, nil
}

func standardPipeline() *analysis.Pipeline {
	p := analysis.NewPipeline()
	_ = p.Register(analysis.InstructionValidationAnalysis{})
	_ = p.Register(analysis.ControlFlowAnalysis{})
	_ = p.Register(analysis.DataFlowAnalysis{})
	_ = p.Register(analysis.ConstantPropagationAnalysis{})
	_ = p.Register(analysis.ControlFlowOptimizer{})
	return p
}

func printDiagnostics(path string, ds []*diagnostics.Diagnostic) (hasError bool) {
	for _, d := range ds {
		if d.Kind == diagnostics.Error {
			hasError = true
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", path, d.Kind, d.Message)
		if d.Help != "" {
			fmt.Fprintf(os.Stderr, "  help: %s\n", d.Help)
		}
	}
	return hasError
}

func checkCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: ramc check <file>", 1)
	}

	database, owner, syntaxDiags, err := loadBody(path)
	if err != nil {
		return err
	}
	hasError := printDiagnostics(path, syntaxDiags)

	body, err := database.Body(*owner)
	if err != nil {
		return err
	}

	ctx, err := standardPipeline().Analyze(body)
	if err != nil {
		return err
	}
	if printDiagnostics(path, ctx.Diagnostics()) {
		hasError = true
	}

	if hasError {
		return cli.Exit("", 1)
	}
	return nil
}

func runCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: ramc run <file>", 1)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, owner, syntaxDiags, err := loadBody(path)
	if err != nil {
		return err
	}
	if printDiagnostics(path, syntaxDiags) {
		return cli.Exit("", 1)
	}

	body, err := database.Body(*owner)
	if err != nil {
		return err
	}

	ctx, err := standardPipeline().Analyze(body)
	if err != nil {
		return err
	}
	if printDiagnostics(path, ctx.Diagnostics()) {
		return cli.Exit("", 1)
	}

	program, err := compile.Program(body)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", path, err)
	}

	machine := vm.New(program, vm.NewVecInput(c.Int64Slice("input")), vm.NewStreamOutput(os.Stdout))

	maxSteps := cfg.VM.MaxSteps
	if n := c.Int("max-steps"); n > 0 {
		maxSteps = n
	}
	if maxSteps <= 0 {
		return machine.Run()
	}
	return machine.RunWithMaxSteps(maxSteps)
}

func graphCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: ramc graph <file>", 1)
	}

	format, err := parseFormat(c.String("format"))
	if err != nil {
		return err
	}

	database, owner, syntaxDiags, err := loadBody(path)
	if err != nil {
		return err
	}
	if printDiagnostics(path, syntaxDiags) {
		return cli.Exit("", 1)
	}

	body, err := database.Body(*owner)
	if err != nil {
		return err
	}

	pipeline := standardPipeline()
	ctx, err := pipeline.Analyze(body)
	if err != nil {
		return err
	}

	var out string
	switch c.String("kind") {
	case "cfg":
		cfg, err := analysis.GetResult[analysis.ControlFlowAnalysis, *analysis.ControlFlowGraph](ctx)
		if err != nil {
			return err
		}
		switch format {
		case analysis.FormatDOT:
			out = cfg.ToDOT()
		case analysis.FormatMermaid:
			out = cfg.ToMermaid()
		default:
			data, err := cfg.ExportJSON()
			if err != nil {
				return err
			}
			out = string(data)
		}
	case "dependencies":
		out, err = pipeline.ExportDependencyGraph(format)
	case "order":
		out, err = pipeline.ExportExecutionOrder(format)
	default:
		return cli.Exit(fmt.Sprintf("unknown graph kind %q", c.String("kind")), 1)
	}
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func parseFormat(s string) (analysis.Format, error) {
	switch s {
	case "dot":
		return analysis.FormatDOT, nil
	case "mermaid":
		return analysis.FormatMermaid, nil
	case "json":
		return analysis.FormatJSON, nil
	default:
		return 0, cli.Exit(fmt.Sprintf("unknown format %q (want dot, mermaid, or json)", s), 1)
	}
}
