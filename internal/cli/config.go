package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nestsquare/pkg/core/render/sink"
	"github.com/matzehuels/nestsquare/pkg/errors"
	"github.com/matzehuels/nestsquare/pkg/pipeline"
)

// Config is the user config file. It only carries render defaults and cache
// settings; data always comes from presets or flags.
//
//	[render]
//	formats = ["svg", "png"]
//	size = 480
//	gutter = 1.2
//	scale = 2.0
//
//	[text]
//	color = "black"
//	font_size = 14
//	vertical_align = "center"
//	horizontal_align = "center"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	disabled = false
type Config struct {
	Render RenderConfig `toml:"render"`
	Text   TextConfig   `toml:"text"`
	Cache  CacheConfig  `toml:"cache"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Size    float64  `toml:"size"`
	Gutter  float64  `toml:"gutter"`
	Scale   float64  `toml:"scale"`
}

// TextConfig holds label defaults.
type TextConfig struct {
	Color           string  `toml:"color"`
	FontSize        float64 `toml:"font_size"`
	VerticalAlign   string  `toml:"vertical_align"`
	HorizontalAlign string  `toml:"horizontal_align"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	RedisURL string `toml:"redis_url"`
	Disabled bool   `toml:"disabled"`
}

// loadConfigFile decodes the TOML file at path. A missing file is only an
// error when the user named it explicitly.
func loadConfigFile(path string, explicit bool) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Size < 0 || c.Render.Gutter < 0 || c.Render.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render size, gutter and scale must not be negative")
	}
	return c.textOptions().Validate()
}

// textOptions returns the configured text settings merged over the defaults.
func (c Config) textOptions() sink.TextOptions {
	return sink.DefaultTextOptions().Merge(sink.TextOptions{
		Color:           c.Text.Color,
		FontSize:        c.Text.FontSize,
		VerticalAlign:   c.Text.VerticalAlign,
		HorizontalAlign: c.Text.HorizontalAlign,
	})
}

// options returns pipeline options seeded with the configured defaults.
// Zero values are left for the pipeline to default.
func (c Config) options() pipeline.Options {
	return pipeline.Options{
		Formats: append([]string(nil), c.Render.Formats...),
		Size:    c.Render.Size,
		Gutter:  c.Render.Gutter,
		Scale:   c.Render.Scale,
		Text: sink.TextOptions{
			Color:           c.Text.Color,
			FontSize:        c.Text.FontSize,
			VerticalAlign:   c.Text.VerticalAlign,
			HorizontalAlign: c.Text.HorizontalAlign,
		},
	}
}
