package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/testpilot/internal/app"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/models"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var auditCommand = &cli.Command{
	Name:  "audit",
	Usage: "List recorded completion calls from the audit database",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "run",
			Usage: "Only list calls from this run ID",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "Show one entry, including prompt and response",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of entries (0 lists all)",
			Value: 20,
		},
	},
	Action: runAudit,
}

func runAudit(c *cli.Context) error {
	return withApp(c, common.FlagOverrides{}, func(ctx context.Context, a *app.App) error {
		if id := c.String("id"); id != "" {
			entry, err := a.GetAudit(ctx, id)
			if err != nil {
				return err
			}
			return writeYAML(entry)
		}

		entries, err := a.ListAudits(ctx, c.String("run"), c.Int("limit"))
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			a.Logger.Info().Str("path", a.Config.Audit.Path).Msg("No audit entries found")
			return nil
		}
		return writeYAML(summarizeAudits(entries))
	})
}

// summarizeAudits drops prompt and response text from a listing
func summarizeAudits(entries []*models.CompletionAudit) []models.CompletionAudit {
	summary := make([]models.CompletionAudit, 0, len(entries))
	for _, entry := range entries {
		e := *entry
		e.Prompt = ""
		e.Response = ""
		summary = append(summary, e)
	}
	return summary
}

func writeYAML(v any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode audit output: %w", err)
	}
	return encoder.Close()
}
