package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sce/internal/config"
	"github.com/standardbeagle/sce/internal/debug"
	"github.com/standardbeagle/sce/internal/engine"
	sceerrors "github.com/standardbeagle/sce/internal/errors"
	"github.com/standardbeagle/sce/internal/mcp"
	"github.com/standardbeagle/sce/internal/types"
	"github.com/standardbeagle/sce/internal/version"
	"github.com/standardbeagle/sce/pkg/pathutil"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
		}
		root = absRoot
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if maxTokens := c.Int("max-tokens"); maxTokens > 0 {
		cfg.Context.MaxTokens = maxTokens
	}
	if sensitivity := c.String("sensitivity"); sensitivity != "" {
		cfg.Context.Sensitivity = sensitivity
	}
	if depth := c.Int("depth"); depth > 0 {
		cfg.Context.DependencyDepth = depth
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "sce",
		Usage:                  "Smart context selection and edit strategy for AI coding assistants",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.ts')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/generated/**')",
			},
			&cli.IntFlag{
				Name:  "max-tokens",
				Usage: "Token budget for context selection (overrides config)",
			},
			&cli.StringFlag{
				Name:  "sensitivity",
				Usage: "Seed threshold: conservative, balanced, or aggressive",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Dependency expansion depth (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show debug information",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				debug.SetDebugOutput(os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			contextCommand(),
			classifyCommand(),
			optimizeCommand(),
			validateCommand(),
			statsCommand(),
			cyclesCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func contextCommand() *cli.Command {
	return &cli.Command{
		Name:      "context",
		Aliases:   []string{"c"},
		Usage:     "Select relevant files for a prompt within the token budget",
		ArgsUsage: "<prompt>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("prompt is required")
			}
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			eng := engine.New(cfg)
			result := eng.SelectContext(c.Context, c.Args().First(), cfg.Project.Root)

			if c.Bool("json") {
				return printJSON(result)
			}
			fmt.Printf("Selected %d files (%d tokens, %.0f%% relevance coverage):\n",
				len(result.SelectedFiles), result.TotalTokens, result.RelevanceRatio*100)
			for _, f := range pathutil.ToRelativeAll(result.SelectedFiles, cfg.Project.Root) {
				fmt.Println("  " + f)
			}
			return nil
		},
	}
}

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Estimate the complexity of an edit request",
		ArgsUsage: "<prompt> [file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("prompt is required")
			}
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			eng := engine.New(cfg)
			analysis := eng.EstimateComplexity(c.Args().First(), c.Args().Get(1))

			if c.Bool("json") {
				return printJSON(analysis)
			}
			fmt.Printf("Complexity: %s (confidence %.0f%%)\n", analysis.Complexity, analysis.Confidence*100)
			fmt.Printf("Estimated tokens: %d\n", analysis.EstimatedTokens)
			for _, reason := range analysis.Reasoning {
				fmt.Println("  - " + reason)
			}
			s := analysis.SuggestedStrategy
			fmt.Printf("Strategy: model=%s maxTokens=%d validation=%s retries=%d\n",
				s.ModelSelection, s.MaxTokens, s.ValidationLevel, s.RetryPolicy.MaxAttempts)
			return nil
		},
	}
}

func optimizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "optimize",
		Usage:     "Package an edit request for generation",
		ArgsUsage: "<prompt> [file]",
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("prompt is required")
			}
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			eng := engine.New(cfg)
			return printJSON(eng.OptimizeEdit(c.Args().First(), c.Args().Get(1)))
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate an edited file against its original",
		ArgsUsage: "<original-file> <edited-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "Validation level: basic, enhanced, or strict",
				Value:   "basic",
			},
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 2 {
				return fmt.Errorf("original and edited file paths are required")
			}
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			original, err := os.ReadFile(c.Args().Get(0))
			if err != nil {
				return sceerrors.NewFileError("read", c.Args().Get(0), err)
			}
			edited, err := os.ReadFile(c.Args().Get(1))
			if err != nil {
				return sceerrors.NewFileError("read", c.Args().Get(1), err)
			}

			level := types.ValidationBasic
			switch c.String("level") {
			case "enhanced":
				level = types.ValidationEnhanced
			case "strict":
				level = types.ValidationStrict
			}

			eng := engine.New(cfg)
			result := eng.ValidateEdit(string(original), string(edited), c.Args().Get(1), level)

			if c.Bool("json") {
				return printJSON(result)
			}
			fmt.Printf("Syntax valid: %v\n", result.SyntaxValid)
			fmt.Printf("Structure intact: %v\n", result.StructureIntact)
			fmt.Printf("Confidence: %.2f\n", result.Confidence)
			for _, issue := range result.PotentialIssues {
				fmt.Println("  ! " + issue)
			}
			if !result.SyntaxValid || !result.StructureIntact {
				os.Exit(1)
			}
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show dependency graph statistics for the project",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			eng := engine.New(cfg)
			g, err := eng.Graph(c.Context, cfg.Project.Root)
			if err != nil {
				return err
			}
			stats := g.Stats()
			fmt.Printf("Files: %d\n", stats.NodeCount)
			fmt.Printf("Dependencies: %d\n", stats.EdgeCount)
			fmt.Printf("Max in-degree: %d\n", stats.MaxInDegree)
			fmt.Printf("Avg out-degree: %.2f\n", stats.AvgOutDegree)
			return nil
		},
	}
}

func cyclesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cycles",
		Usage: "Report import cycles in the project dependency graph",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			eng := engine.New(cfg)
			g, err := eng.Graph(c.Context, cfg.Project.Root)
			if err != nil {
				return err
			}
			cycles := g.DetectCycles()
			if len(cycles) == 0 {
				fmt.Println("No import cycles found")
				return nil
			}
			fmt.Printf("%d import cycles found:\n", len(cycles))
			for _, cycle := range cycles {
				fmt.Print("  ")
				for i, node := range cycle {
					if i > 0 {
						fmt.Print(" -> ")
					}
					fmt.Print(node)
				}
				fmt.Println()
			}
			os.Exit(1)
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server over stdio",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			// Stdout carries the protocol; debug output must not pollute it
			debug.MCPMode = true
			if logFile, err := debug.InitDebugLogFile(); err == nil && logFile != "" {
				debug.Printf("debug log: %s\n", logFile)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := mcp.NewServer(cfg, engine.New(cfg))
			return srv.Start(ctx)
		},
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
