package main

import (
	"context"

	"github.com/ternarybob/testpilot/internal/app"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/urfave/cli/v2"
)

var analyzeCommand = &cli.Command{
	Name:  "analyze",
	Usage: "Explain every failed test in a Playwright JSON report",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "report",
			Aliases: []string{"r"},
			Usage:   "Playwright JSON report path",
		},
		&cli.StringFlag{
			Name:  "stories",
			Usage: "Directory of markdown user stories",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Analysis document path",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Completion model (e.g. gpt-4.1, claude/claude-sonnet-4-20250514, gemini-2.5-flash)",
		},
		&cli.BoolFlag{
			Name:  "html",
			Usage: "Render the HTML dashboard",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Render and open the HTML dashboard in the default browser",
		},
		&cli.BoolFlag{
			Name:  "checkpoint",
			Usage: "Rewrite the analysis document after every analyzed test",
		},
	},
	Action: runAnalyze,
}

func runAnalyze(c *cli.Context) error {
	overrides := common.FlagOverrides{
		ReportPath:    c.String("report"),
		StoriesDir:    c.String("stories"),
		Output:        c.String("output"),
		AnalysisModel: c.String("model"),
		HTML:          c.Bool("html"),
		Open:          c.Bool("open"),
		Checkpoint:    c.Bool("checkpoint"),
	}

	return withApp(c, overrides, func(ctx context.Context, a *app.App) error {
		result, err := a.RunAnalyze(ctx)
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			a.Logger.Info().
				Int("analyzed", len(result.Records)).
				Str("document", result.DocumentPath).
				Str("html", result.HTMLPath).
				Msg("Analysis complete")
		}
		return nil
	})
}
