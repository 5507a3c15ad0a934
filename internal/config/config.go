// Package config loads prism.toml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Discover.
const FileName = "prism.toml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Output struct {
	// Indent is the indentation unit of both outputs.
	Indent string `toml:"indent"`
	// Declarations enables the declaration file.
	Declarations bool `toml:"declarations"`
	// RuntimeHelper names the runtime support object used by emitted code.
	RuntimeHelper string `toml:"runtime_helper"`
}

// Naming controls synthesized accessor names: the marker is stripped from
// the member name, then the prefix is prepended.
type Naming struct {
	GetterPrefix  string `toml:"getter_prefix"`
	SetterPrefix  string `toml:"setter_prefix"`
	AdderPrefix   string `toml:"adder_prefix"`
	RemoverPrefix string `toml:"remover_prefix"`
	StripMarker   string `toml:"strip_marker"`
}

type Diagnostics struct {
	// Fatal turns unsupported-projection diagnostics into compilation errors.
	Fatal bool `toml:"fatal"`
	// Max bounds the number of collected diagnostics; 0 means no bound.
	Max int `toml:"max"`
}

type Config struct {
	Output      Output      `toml:"output"`
	Naming      Naming      `toml:"naming"`
	Diagnostics Diagnostics `toml:"diagnostics"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

func Default() Config {
	return Config{
		Output: Output{
			Indent:        "    ",
			Declarations:  true,
			RuntimeHelper: "$rt",
		},
		Naming: Naming{
			GetterPrefix:  "get",
			SetterPrefix:  "set",
			AdderPrefix:   "add",
			RemoverPrefix: "remove",
			StripMarker:   "$",
		},
		Diagnostics: Diagnostics{Max: 200},
	}
}

// Load reads path over the defaults. Keys the file does not define keep
// their default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	if meta.IsDefined("output", "indent") && cfg.Output.Indent == "" {
		return Config{}, fmt.Errorf("%s: %w: output.indent must not be empty", path, ErrInvalid)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would produce broken output.
func (c *Config) Validate() error {
	if strings.Trim(c.Output.Indent, " \t") != "" {
		return fmt.Errorf("%w: output.indent may contain only spaces and tabs", ErrInvalid)
	}
	if c.Output.RuntimeHelper == "" {
		return fmt.Errorf("%w: output.runtime_helper must not be empty", ErrInvalid)
	}
	n := c.Naming
	prefixes := []string{n.GetterPrefix, n.SetterPrefix, n.AdderPrefix, n.RemoverPrefix}
	for i := range prefixes {
		if prefixes[i] == "" {
			return fmt.Errorf("%w: naming prefixes must not be empty", ErrInvalid)
		}
		for j := i + 1; j < len(prefixes); j++ {
			if prefixes[i] == prefixes[j] {
				return fmt.Errorf("%w: naming prefix %q is used twice", ErrInvalid, prefixes[i])
			}
		}
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: diagnostics.max must not be negative", ErrInvalid)
	}
	return nil
}
