package main

import (
	"context"

	"github.com/ternarybob/testpilot/internal/app"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/urfave/cli/v2"
)

var generateCommand = &cli.Command{
	Name:  "generate",
	Usage: "Write a Playwright test for each markdown user story",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "stories",
			Usage: "Directory of markdown user stories",
		},
		&cli.StringFlag{
			Name:  "tests-dir",
			Usage: "Directory the generated tests are written to",
		},
		&cli.StringFlag{
			Name:    "story",
			Aliases: []string{"s"},
			Usage:   "Only generate the test for this story name (filename without extension)",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Completion model",
		},
	},
	Action: runGenerate,
}

func runGenerate(c *cli.Context) error {
	overrides := common.FlagOverrides{
		StoriesDir:    c.String("stories"),
		TestsDir:      c.String("tests-dir"),
		GenerateModel: c.String("model"),
	}

	return withApp(c, overrides, func(ctx context.Context, a *app.App) error {
		_, err := a.RunGenerate(ctx, c.String("story"))
		return err
	})
}
