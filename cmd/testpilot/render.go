package main

import (
	"context"

	"github.com/ternarybob/testpilot/internal/app"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/urfave/cli/v2"
)

var renderCommand = &cli.Command{
	Name:      "render",
	Usage:     "Re-render the dashboard from an existing analysis document",
	ArgsUsage: "[analysis document]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open the HTML dashboard in the default browser",
		},
	},
	Action: runRender,
}

func runRender(c *cli.Context) error {
	overrides := common.FlagOverrides{
		HTML: true,
		Open: c.Bool("open"),
	}

	return withApp(c, overrides, func(ctx context.Context, a *app.App) error {
		result, err := a.RunRender(ctx, c.Args().First())
		if err != nil {
			return err
		}
		a.Logger.Info().
			Int("records", len(result.Records)).
			Str("html", result.HTMLPath).
			Msg("Render complete")
		return nil
	})
}
