package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/debug"
	"github.com/scrylabs/scry/internal/engine"
	"github.com/scrylabs/scry/internal/types"
	"github.com/scrylabs/scry/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	// If root is specified and config path is default, look for config in root directory
	if rootFlag := c.String("root"); rootFlag != "" && configPath == ".scry.toml" {
		configPath = filepath.Join(rootFlag, ".scry.toml")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Project.Exclude = append(cfg.Project.Exclude, excludeFlags...)
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}
	if c.Bool("debug") {
		debug.SetEnabled(true)
	}

	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "scry",
		Usage:                  "Code intelligence for multi-language projects",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".scry.toml",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to analyze (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/generated/**')",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "symbol",
				Aliases:   []string{"s"},
				Usage:     "Find symbol declarations by name",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Filter by kind (comma separated: function,class,interface,type,variable,method)",
					},
					jsonFlag(),
				},
				Action: symbolCommand,
			},
			{
				Name:      "refs",
				Aliases:   []string{"R"},
				Usage:     "Find references to a symbol",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Declaring file for precise resolution",
					},
					&cli.IntFlag{
						Name:    "line",
						Aliases: []string{"l"},
						Usage:   "Declaring line for precise resolution",
					},
					jsonFlag(),
				},
				Action: refsCommand,
			},
			{
				Name:    "graph",
				Aliases: []string{"g"},
				Usage:   "Build the project dependency graph",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Restrict output to files near this file",
					},
					&cli.IntFlag{
						Name:    "max-depth",
						Aliases: []string{"d"},
						Usage:   "Directory distance bound around --target",
						Value:   config.DefaultMaxDepth,
					},
					&cli.BoolFlag{
						Name:  "external",
						Usage: "Include external package specifiers",
					},
					&cli.BoolFlag{
						Name:  "circular",
						Usage: "Detect circular dependencies",
						Value: true,
					},
					jsonFlag(),
				},
				Action: graphCommand,
			},
			{
				Name:      "complexity",
				Aliases:   []string{"x"},
				Usage:     "Analyze complexity of a source file or stdin",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "metrics",
						Aliases: []string{"m"},
						Usage:   "Metric families: all, cyclomatic, cognitive, halstead",
						Value:   "all",
					},
					jsonFlag(),
				},
				Action: complexityCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}
}

func newEngine(c *cli.Context) (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(cfg), cfg, nil
}

func symbolCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: scry symbol <name>")
	}
	eng, cfg, err := newEngine(c)
	if err != nil {
		return err
	}

	result := eng.FindSymbol(types.FindSymbolRequest{
		SymbolName:  c.Args().First(),
		ProjectPath: cfg.Project.Root,
		KindFilter:  c.String("kind"),
	})
	if c.Bool("json") {
		return emitJSON(os.Stdout, result)
	}
	renderSymbols(os.Stdout, result)
	return nil
}

func refsCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: scry refs <name>")
	}
	eng, cfg, err := newEngine(c)
	if err != nil {
		return err
	}

	result := eng.FindReferences(types.FindReferencesRequest{
		SymbolName:  c.Args().First(),
		ProjectPath: cfg.Project.Root,
		FilePath:    c.String("file"),
		Line:        c.Int("line"),
	})
	if c.Bool("json") {
		return emitJSON(os.Stdout, result)
	}
	renderReferences(os.Stdout, result)
	return nil
}

func graphCommand(c *cli.Context) error {
	eng, cfg, err := newEngine(c)
	if err != nil {
		return err
	}

	result := eng.AnalyzeDependencyGraph(types.DependencyGraphRequest{
		ProjectPath:     cfg.Project.Root,
		TargetFile:      c.String("target"),
		MaxDepth:        c.Int("max-depth"),
		IncludeExternal: c.Bool("external"),
		DetectCircular:  c.Bool("circular"),
	})
	if c.Bool("json") {
		return emitJSON(os.Stdout, result)
	}
	renderGraph(os.Stdout, result)
	return nil
}

func complexityCommand(c *cli.Context) error {
	eng, _, err := newEngine(c)
	if err != nil {
		return err
	}

	var source []byte
	if c.NArg() >= 1 {
		source, err = os.ReadFile(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.Args().First(), err)
		}
	} else {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	result := eng.AnalyzeComplexity(types.ComplexityRequest{
		SourceText: string(source),
		Metrics:    strings.ToLower(c.String("metrics")),
	})
	if c.Bool("json") {
		return emitJSON(os.Stdout, result)
	}
	renderComplexity(os.Stdout, result)
	return nil
}

func emitJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
