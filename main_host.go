//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ausar/app"
	"ausar/hal"
	"ausar/internal/buildinfo"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&appCfg.MediaPath, "media", "movie.gba", "Packed ROM/GBFS image.")
	flag.StringVar(&appCfg.MoviePath, "movie", "", "Bare .gbm container (with -music).")
	flag.StringVar(&appCfg.MusicPath, "music", "", "Bare .gbs container (with -movie).")
	flag.StringVar(&appCfg.Version, "version", "gen1", "Container generation: gen1|gen3|v130.")
	flag.Parse()

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, func(h hal.HAL) func() error {
			return app.New(h, appCfg)
		}, cfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow("Ausar ("+buildinfo.Short()+")", func(h hal.HAL) func() error {
		return app.New(h, appCfg)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
