// evkit inspects and monitors Linux evdev input devices: it lists devices,
// reports their identity and capabilities, streams their events, and applies
// autorepeat and force-feedback settings from its configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"deedles.dev/evkit/internal/config"
	"deedles.dev/evkit/internal/evdev"
	"deedles.dev/evkit/internal/glossy"
	"github.com/coreos/go-systemd/v22/journal"
	"golang.org/x/sync/errgroup"
)

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func listDevices() error {
	devices, err := evdev.ListDevicePaths()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Printf("%v\t%v\n", d.Path, d.Name)
	}
	return nil
}

func expandDevices(globs []string) (devices []string, err error) {
	for _, g := range globs {
		m, err := filepath.Glob(g)
		if err != nil {
			return nil, fmt.Errorf("find devices %q: %w", g, err)
		}
		devices = append(devices, m...)
	}
	return devices, nil
}

func run(ctx context.Context) error {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %v [options] [/dev/input/event*...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "path to the config file")
	list := flag.Bool("list", false, "list available devices and exit")
	grab := flag.Bool("grab", false, "grab devices for exclusive access")
	watch := flag.Bool("watch", false, "watch for hotplugged devices")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	cfg.Grab = cfg.Grab || *grab
	cfg.Watch = cfg.Watch || *watch

	logger := slog.New(glossy.Handler{
		Journal: cfg.Log.Journal && journal.Enabled(),
		Level:   parseLevel(cfg.Log.Level),
	})
	slog.SetDefault(logger)
	ctx = WithLogger(ctx, logger)

	if *list {
		return listDevices()
	}

	globs := cfg.Devices
	if args := flag.Args(); len(args) > 0 {
		globs = args
	}
	devices, err := expandDevices(globs)
	if err != nil {
		return err
	}
	if (len(devices) == 0) && !cfg.Watch {
		fmt.Fprintf(os.Stderr, "Usage: %v [options] [/dev/input/event*...]\n", os.Args[0])
		os.Exit(2)
	}

	eg, ctx := errgroup.WithContext(ctx)
	start := func(path string) {
		eg.Go(func() error { return Monitor{Path: path, Cfg: cfg}.Run(ctx) })
	}

	for _, dev := range devices {
		start(dev)
	}
	if cfg.Watch {
		eg.Go(func() error { return watchDevices(ctx, start) })
	}

	err = eg.Wait()
	if (err != nil) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx)
	if err != nil {
		Logger(ctx).Error("fatal", slogErr(err))
		os.Exit(1)
	}
}
