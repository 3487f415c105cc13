// Package config loads the evkit configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from a TOML string like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	*d = Duration(v)
	return err
}

func (d Duration) Value() time.Duration {
	return time.Duration(d)
}

// Config is the evkit configuration. Optional sections are nil when absent.
type Config struct {
	Devices []string `toml:"devices"`
	Watch   bool     `toml:"watch"`
	Grab    bool     `toml:"grab"`
	Retry   Duration `toml:"retry"`

	Log    LogConfig     `toml:"log"`
	Repeat *RepeatConfig `toml:"repeat"`
	FF     *FFConfig     `toml:"ff"`
}

type LogConfig struct {
	Level   string `toml:"level"`
	Journal bool   `toml:"journal"`
}

// RepeatConfig overrides a device's autorepeat timing, in milliseconds.
type RepeatConfig struct {
	Delay  uint32 `toml:"delay"`
	Period uint32 `toml:"period"`
}

// FFConfig applies global force-feedback settings on device startup. Both
// values cover [0, 0xFFFF]; an absent value leaves the device alone.
type FFConfig struct {
	Gain       *int32 `toml:"gain"`
	Autocenter *int32 `toml:"autocenter"`
}

func Default() Config {
	return Config{
		Devices: []string{"/dev/input/event*"},
		Retry:   Duration(5 * time.Second),
		Log:     LogConfig{Level: "info"},
	}
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	return filepath.Join(dir, "evkit", "config.toml"), err
}

// Load reads the file at path over the defaults. Keys the Config does not
// know are an error rather than silently dropped.
func Load(path string) (Config, error) {
	c := Default()
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return c, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return c, nil
}
