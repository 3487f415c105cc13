package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"deedles.dev/evkit/internal/config"
	"deedles.dev/evkit/internal/evdev"
	"deedles.dev/xiter"
	"golang.org/x/sys/unix"
)

// Monitor owns one device node: it opens it, applies the configured device
// settings, and streams its events to the log until the node goes away or
// the context ends.
type Monitor struct {
	Path string
	Cfg  config.Config
}

func (m Monitor) Run(ctx context.Context) error {
	logger := Logger(ctx).With("device", m.Path)
	ctx = WithLogger(ctx, logger)

	for {
		retry, err := m.monitor(ctx)
		if (m.Cfg.Retry.Value() <= 0) || !retry {
			return err
		}

		logger.Info("waiting before retrying", "duration", m.Cfg.Retry.Value(), slogErr(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.Cfg.Retry.Value()):
		}
	}
}

func (m Monitor) monitor(ctx context.Context) (retry bool, err error) {
	logger := Logger(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	file, err := os.OpenFile(m.Path, m.openFlag(), 0)
	if err != nil {
		if isTemporary(err) || errors.Is(err, fs.ErrNotExist) {
			return true, err
		}

		logger.Warn("ignoring device", "reason", "failed to open", slogErr(err))
		return false, nil
	}
	defer file.Close()

	go func() {
		<-ctx.Done()
		file.Close()
	}()

	d := evdev.NewDevice(file)

	id, err := d.Identity()
	if err != nil {
		logger.Warn("ignoring device", "reason", "failed to identify", slogErr(err))
		return false, nil
	}

	logger.Info(
		"initialized device",
		"name", id.Name,
		"bus", id.BusType,
		"vendor", fmt.Sprintf("%04x", id.Vendor),
		"product", fmt.Sprintf("%04x", id.Product),
		"phys", id.Phys,
	)

	caps, err := d.Capabilities(evdev.AbsZero)
	if err != nil {
		logger.Warn("query capabilities", slogErr(err))
	} else {
		logger.Info("capabilities", "types", typeSummary(caps), "axes", axisSummary(caps))
	}

	m.setup(ctx, d)

	if m.Cfg.Grab {
		if err := d.Grab(); err != nil {
			logger.Warn("grab device", slogErr(err))
		} else {
			defer d.Release()
		}
	}

	for {
		events, err := d.ReadEvents()
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			if errors.Is(err, fs.ErrClosed) {
				logger.Warn("device closed while reading")
				return false, nil
			}
			if isTemporary(err) {
				logger.Warn("device disappeared while reading", slogErr(err))
				return true, err
			}

			logger.Warn("read events", slogErr(err))
			continue
		}

		for _, ev := range events {
			logger.Info(
				"event",
				"time", ev.Timestamp().Format(time.StampMicro),
				"type", fmt.Sprintf("%#x", ev.Type),
				"code", ev.Code,
				"value", ev.Value,
			)
		}
	}
}

// setup applies the configured autorepeat and force-feedback settings.
// Failures are logged, not fatal; plenty of devices support neither.
func (m Monitor) setup(ctx context.Context, d *evdev.Device) {
	logger := Logger(ctx)

	if rep := m.Cfg.Repeat; rep != nil {
		err := d.SetRepeat(evdev.Repeat{Delay: rep.Delay, Period: rep.Period})
		if err != nil {
			logger.Warn("set autorepeat", slogErr(err))
		}
	}

	ff := m.Cfg.FF
	if ff == nil {
		return
	}
	if ff.Gain != nil {
		if err := d.SetGain(*ff.Gain); err != nil {
			logger.Warn("set gain", slogErr(err))
		}
	}
	if ff.Autocenter != nil {
		if err := d.SetAutocenter(*ff.Autocenter); err != nil {
			logger.Warn("set autocenter", slogErr(err))
		}
	}
}

// openFlag picks the open mode: force-feedback writes need a writable
// descriptor, plain monitoring does not.
func (m Monitor) openFlag() int {
	if m.Cfg.FF != nil {
		return os.O_RDWR
	}
	return os.O_RDONLY
}

func typeSummary(caps evdev.CapabilityMap) string {
	types := slices.Sorted(maps.Keys(caps))
	return strings.Join(slices.Collect(xiter.Map(slices.Values(types), func(t uint16) string {
		return fmt.Sprintf("%#x", t)
	})), " ")
}

func axisSummary(caps evdev.CapabilityMap) string {
	axes := xiter.Filter(slices.Values(caps[evdev.EvAbs]), func(c evdev.Capability) bool {
		return c.Abs != nil
	})
	return strings.Join(slices.Collect(xiter.Map(axes, func(c evdev.Capability) string {
		return fmt.Sprintf("%#x:[%v,%v]", c.Code, c.Abs.Minimum, c.Abs.Maximum)
	})), " ")
}

func isTemporary(err error) bool {
	var errno unix.Errno
	return errors.As(err, &errno) && errno.Temporary()
}
