package main

import (
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/uvsensor/adapter"
	"github.com/mklimuk/uvsensor/cmd/uvsensor/console"
	"github.com/mklimuk/uvsensor/snsctx"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB-I2C bridge maintenance",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "index", Value: -1, Usage: "adapter index as shown by usb detect"},
	},
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

func printStatus(status *adapter.MCP2221Status) error {
	enc := yaml.NewEncoder(console.Writer())
	defer func() { _ = enc.Close() }()
	err := enc.Encode(status)
	if err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "dump the I2C engine status",
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithIndex(c.Int("index")))
		ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
		status, err := a.Status(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printStatus(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and release the bus",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			ok, err := console.Confirm("cancel the pending I2C transfer?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				return nil
			}
		}
		a := adapter.NewMCP2221(adapter.WithIndex(c.Int("index")))
		ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printStatus(status)
	},
}
