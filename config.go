package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/YLivay/delimited/reader"
)

// Config holds the settings of a run. Values come from an optional TOML file
// and are overridden by any flag given on the command line.
type Config struct {
	Delimiter string     `toml:"delimiter"`
	Quote     string     `toml:"quote"`
	Encoding  string     `toml:"encoding"`
	Header    bool       `toml:"header"`
	Format    string     `toml:"format"`
	Filter    string     `toml:"filter"`
	Load      LoadConfig `toml:"load"`
}

type LoadConfig struct {
	Database string `toml:"database"`
	Table    string `toml:"table"`
}

func defaultConfig() Config {
	return Config{
		Delimiter: ",",
		Quote:     `"`,
		Encoding:  "utf-8",
		Format:    formatJSON,
		Load: LoadConfig{
			Table: "records",
		},
	}
}

// loadConfig reads the config file at path on top of the defaults. An empty
// path means no file.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	path = os.ExpandEnv(path)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags copies every flag the user actually set over the config values.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	str("delimiter", &cfg.Delimiter)
	str("quote", &cfg.Quote)
	str("encoding", &cfg.Encoding)
	str("format", &cfg.Format)
	str("filter", &cfg.Filter)
	str("db", &cfg.Load.Database)
	str("table", &cfg.Load.Table)

	if flags.Lookup("header") != nil && flags.Changed("header") {
		cfg.Header, _ = flags.GetBool("header")
	}
}

// Dialect returns the reader dialect described by the config.
func (c Config) Dialect() (reader.Dialect, error) {
	delimiter, err := parseChar(c.Delimiter)
	if err != nil {
		return reader.Dialect{}, fmt.Errorf("invalid delimiter: %w", err)
	}
	quote, err := parseChar(c.Quote)
	if err != nil {
		return reader.Dialect{}, fmt.Errorf("invalid quote: %w", err)
	}

	d := reader.Dialect{Delimiter: delimiter, Quote: quote}
	if err := d.Validate(); err != nil {
		return reader.Dialect{}, err
	}
	return d, nil
}

var namedChars = map[string]rune{
	"tab":       '\t',
	`\t`:        '\t',
	"comma":     ',',
	"semicolon": ';',
	"pipe":      '|',
	"space":     ' ',
	"dquote":    '"',
	"squote":    '\'',
}

// parseChar turns a flag value into a single character. Besides a literal
// character it accepts a few names, since a tab is awkward to type in a shell.
func parseChar(s string) (rune, error) {
	if c, ok := namedChars[strings.ToLower(s)]; ok {
		return c, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}
