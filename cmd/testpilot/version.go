package main

import (
	"fmt"

	"github.com/ternarybob/testpilot/internal/common"
	"github.com/urfave/cli/v2"
)

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print version information",
	Action: func(c *cli.Context) error {
		fmt.Printf("TestPilot version %s\n", common.GetFullVersion())
		return nil
	},
}
