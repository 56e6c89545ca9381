package config

import (
	_ "embed"
	"errors"
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"
)

// defaultYAML is the stock site: both languages, the section palettes, the
// project galleries and the standard tunables.
//
//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := yamlv3.Unmarshal(defaultYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
	}
	return cfg
}

// bytesProvider serves an in-memory YAML document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errors.New("bytes provider does not support Read")
}
