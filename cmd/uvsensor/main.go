package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/uvsensor/cmd/uvsensor/console"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := cli.NewApp()
	app.Name = "uvsensor"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "VEML6070 UV sensor cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "enable verbose logging and adapter traffic dumps",
			EnvVars: []string{"UVSENSOR_VERBOSE"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file with default settings",
			EnvVars: []string{"UVSENSOR_CONFIG"},
		},
	}
	app.Before = func(c *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if c.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	// exit codes are handled below instead of cli calling os.Exit
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Commands = cli.Commands{
		&uvCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			console.Error(exerr.Error())
			return exerr.ExitCode()
		}
		console.Error(err.Error())
		return 1
	}
	return 0
}
