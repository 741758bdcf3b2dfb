// Package config loads gdoc settings from defaults, a YAML file and GDOC_*
// environment variables, in increasing order of precedence. A .env file in
// the working directory only fills in variables the environment lacks.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultFile = ".gdoc.yaml"

const envPrefix = "GDOC_"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Root          string   `yaml:"root" validate:"required"`
	Format        string   `yaml:"format" validate:"oneof=json yaml line text"`
	Output        string   `yaml:"output,omitempty"`
	Workers       int      `yaml:"workers" validate:"gte=0,lte=512"`
	CacheSize     int      `yaml:"cacheSize" validate:"gte=0"`
	Verbosity     int      `yaml:"verbosity" validate:"gte=-4,lte=2"`
	SQLite        string   `yaml:"sqlite,omitempty"`
	Dialects      []string `yaml:"dialects,omitempty" validate:"dive,oneof=java groovy"`
	IncludeHidden bool     `yaml:"includeHidden,omitempty"`
}

func Default() *Config {
	return &Config{
		Root:      ".",
		Format:    "text",
		CacheSize: 1024,
	}
}

// Load reads path, or DefaultFile when path is empty, and applies GDOC_*
// environment variables on top. A missing DefaultFile is not an error; a
// missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: %w", err)
	}

	// .env only feeds the environment; variables already set win
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s: %w", ErrInvalid, envPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("ROOT", &c.Root)
	str("FORMAT", &c.Format)
	str("OUTPUT", &c.Output)
	str("SQLITE", &c.SQLite)
	for name, dst := range map[string]*int{"WORKERS": &c.Workers, "CACHE_SIZE": &c.CacheSize, "VERBOSITY": &c.Verbosity} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup(envPrefix + "DIALECTS"); ok {
		c.Dialects = nil
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				c.Dialects = append(c.Dialects, d)
			}
		}
	}
	if v, ok := lookup(envPrefix + "INCLUDE_HIDDEN"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sINCLUDE_HIDDEN: %w", ErrInvalid, envPrefix, err)
		}
		c.IncludeHidden = b
	}
	return nil
}

var validate = validator.New()

// Validate reports every violated constraint, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Write stores c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
