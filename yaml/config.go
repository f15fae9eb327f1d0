// Package yaml reads and writes deepdoc configuration files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alqudimi/deepdoc"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "deepdoc.yaml"

const header = "# deepdoc configuration. Unset keys keep their default values.\n"

// LoadConfig reads the file at path over DefaultConfig and validates the
// result. A missing file returns ENOTFOUND; unknown keys and out-of-range
// values return EINVALID.
func LoadConfig(path string) (deepdoc.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return deepdoc.Config{}, deepdoc.Errorf(deepdoc.ENOTFOUND, "config file %q not found", path)
	} else if err != nil {
		return deepdoc.Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return deepdoc.Config{}, deepdoc.Errorf(deepdoc.EINVALID, "%s: %s", path, deepdoc.ErrorMessage(err))
	}
	return cfg, nil
}

// Decode reads a YAML document over DefaultConfig and validates the result.
// An empty document yields the defaults.
func Decode(r io.Reader) (deepdoc.Config, error) {
	cfg := deepdoc.DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return deepdoc.Config{}, deepdoc.Errorf(deepdoc.EINVALID, "parse config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return deepdoc.Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as a YAML document.
func Encode(w io.Writer, cfg deepdoc.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// WriteDefault writes the default configuration to path. An existing file
// is left untouched and reported as EINVALID unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return deepdoc.Errorf(deepdoc.EINVALID, "config file %q already exists", path)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if err := Encode(&buf, deepdoc.DefaultConfig()); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
