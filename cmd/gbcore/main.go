package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/tholt-dev/gbcore"
	"github.com/tholt-dev/gbcore/backend/terminal"
	"github.com/tholt-dev/gbcore/input"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Description = "A cycle-accurate Game Boy (DMG) core emulator"
	app.Usage = "gbcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "override the embedded placeholder boot ROM image",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "run headless for N frames and exit, instead of opening a terminal window",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "debug, info, warn, or error",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return fmt.Errorf("no ROM path provided")
		}
	}

	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(level)

	cfg := gbcore.Config{
		ROMPath:     romPath,
		BootROMPath: c.String("boot-rom"),
		LogLevel:    level,
		FrameLimit:  c.Int("frames"),
	}
	emu, err := gbcore.New(cfg)
	if err != nil {
		return err
	}

	if cfg.FrameLimit > 0 {
		return runHeadless(emu, cfg.FrameLimit)
	}

	driver, err := terminal.New(emu)
	if err != nil {
		return err
	}
	return driver.Run()
}

func runHeadless(emu *gbcore.Emulator, frames int) error {
	var blank input.Snapshot
	for i := 0; i < frames; i++ {
		result := emu.RunFrame(blank)
		if result.InvalidOpcode {
			return fmt.Errorf("halted on illegal opcode after %d frames", result.Frame)
		}
	}
	slog.Info("headless run complete", "frames", frames)
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
