package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/uvsensor/cmd/uvsensor/console"
	"github.com/mklimuk/uvsensor/snsctx"
	"github.com/mklimuk/uvsensor/uv"
)

var uvFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "mcp2221",
		Usage:   "bus adapter: mcp2221, generic or gobot",
		EnvVars: []string{"UVSENSOR_ADAPTER"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   "/dev/i2c-1",
		Usage:   "i2c-dev device for the generic adapter",
		EnvVars: []string{"UVSENSOR_DEVICE"},
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: -1,
		Usage: "gobot bus number, -1 for the board default",
	},
	&cli.IntFlag{
		Name:  "speed",
		Usage: "bus clock in kHz for the generic adapter, 0 keeps the kernel setting",
	},
	&cli.StringFlag{
		Name:    "it",
		Value:   "1T",
		Usage:   "integration time: 1/2T, 1T, 2T or 4T",
		EnvVars: []string{"UVSENSOR_IT"},
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Value: uv.DefaultTimeout,
		Usage: "single bus transaction timeout",
	},
}

var uvCmd = cli.Command{
	Name:  "uv",
	Usage: "VEML6070 UV sensor",
	Flags: uvFlags,
	Subcommands: []*cli.Command{
		&uvReadCmd,
		&uvWatchCmd,
		&uvSleepCmd,
		&uvWakeCmd,
		&uvIndexCmd,
	},
}

// session is an initialized sensor on an open bus.
type session struct {
	cfg    Config
	sensor *uv.VEML6070
	closer func() error
}

func openSession(c *cli.Context) (context.Context, *session, error) {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return ctx, nil, err
	}
	cfg = cfg.override(c)
	it, err := cfg.integrationTime()
	if err != nil {
		return ctx, nil, err
	}
	bus, closer, err := openBus(cfg)
	if err != nil {
		return ctx, nil, err
	}
	sensor := uv.NewVEML6070(bus, uv.WithTimeout(cfg.Timeout))
	err = sensor.Init(ctx, it)
	if err != nil {
		_ = closer()
		return ctx, nil, fmt.Errorf("sensor initialization error: %w", err)
	}
	slog.Debug("sensor initialized", "adapter", cfg.Adapter, "reg", sensor.CommandRegister())
	return ctx, &session{cfg: cfg, sensor: sensor, closer: closer}, nil
}

func (s *session) close() {
	if err := s.closer(); err != nil {
		console.Errorf("error closing bus: %s", console.Red(err))
	}
}

func printReading(r uv.Reading) {
	console.PInfof(console.PictoSun, "%s raw (%s), UV index %s", console.White(r.Raw), r.IntegrationTime, console.Index(r.Index))
}

var uvReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "take a single classified sample",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "keep-awake", Usage: "do not put the sensor to sleep afterwards"},
	},
	Action: func(c *cli.Context) error {
		ctx, s, err := openSession(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer s.close()
		err = s.sensor.WaitIntegration(ctx)
		if err != nil {
			return console.Exit(1, "interrupted: %s", console.Red(err))
		}
		r, err := s.sensor.Measure(ctx)
		if err != nil {
			return console.Exit(1, "error getting UV read: %s", console.Red(err))
		}
		printReading(r)
		if c.Bool("keep-awake") {
			return nil
		}
		err = s.sensor.SetSleep(ctx, true)
		if err != nil {
			return console.Exit(1, "error putting sensor to sleep: %s", console.Red(err))
		}
		return nil
	},
}

var uvWatchCmd = cli.Command{
	Name:  "watch",
	Usage: "sample periodically until interrupted",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: time.Second},
	},
	Action: func(c *cli.Context) error {
		ctx, s, err := openSession(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer s.close()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		interval := s.cfg.Interval
		if floor := s.sensor.IntegrationTime().Duration(); interval < floor {
			console.Warnf("interval shorter than integration time, using %s", floor)
			interval = floor
		}
		console.Infof("sampling every %s, %s to stop", console.White(interval), console.Bold("ctrl-c"))
		err = watch(ctx, s.sensor, interval, printReading)
		if sleepErr := s.sensor.Close(context.WithoutCancel(ctx)); sleepErr != nil {
			console.Errorf("error putting sensor to sleep: %s", console.Red(sleepErr))
		}
		if err != nil {
			return console.Exit(1, "error getting UV read: %s", console.Red(err))
		}
		return nil
	},
}

// watch measures every interval until ctx is done. Bus errors are reported
// and skipped; only ctx ends the loop.
func watch(ctx context.Context, sensor uv.UVSensor, interval time.Duration, report func(uv.Reading)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		r, err := sensor.Measure(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			console.Errorf("error getting UV read: %s", console.Red(err))
			continue
		}
		report(r)
	}
}

var uvSleepCmd = cli.Command{
	Name:        "sleep",
	Usage:       "put the sensor in shutdown mode, re-initializing it with --it first",
	Description: "The command register cannot be read back, so it is first re-initialized\n" +
		"with the --it integration time (leaving the sensor briefly active) and then\n" +
		"written again with the shutdown bit set.",
	Action: func(c *cli.Context) error {
		return setSleep(c, true)
	},
}

var uvWakeCmd = cli.Command{
	Name:        "wake",
	Usage:       "bring the sensor back to active mode, re-initializing it with --it first",
	Description: "The command register cannot be read back, so it is re-initialized with the\n" +
		"--it integration time and written again with the shutdown bit cleared.\n" +
		"Settings written by an earlier invocation are not preserved.",
	Action: func(c *cli.Context) error {
		return setSleep(c, false)
	},
}

func setSleep(c *cli.Context, enable bool) error {
	ctx, s, err := openSession(c)
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	defer s.close()
	err = s.sensor.SetSleep(ctx, enable)
	if err != nil {
		return console.Exit(1, "error writing command register: %s", console.Red(err))
	}
	picto := console.PictoSun
	if enable {
		picto = console.PictoMoon
	}
	console.PInfof(picto, "command register %s", s.sensor.CommandRegister())
	return nil
}

var uvIndexCmd = cli.Command{
	Name:      "index",
	Usage:     "classify a raw reading without touching the bus",
	ArgsUsage: "<raw>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected exactly one raw reading")
		}
		raw, err := strconv.ParseUint(c.Args().First(), 0, 16)
		if err != nil {
			return console.Exit(1, "invalid reading: %s", console.Red(err))
		}
		cfg, err := loadConfig(c.String("config"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		it, err := cfg.override(c).integrationTime()
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		idx := uv.Classify(it, uint16(raw))
		console.Printf("%s\n", console.Index(idx))
		return nil
	},
}
