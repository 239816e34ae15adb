// Package configfile decodes the YAML or JSON registry files (feeds, publishers).
package configfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	name string
	fn   func([]byte, any) error
}

var (
	yamlDecoder = decoder{name: "yaml", fn: yaml.Unmarshal}
	jsonDecoder = decoder{name: "json", fn: json.Unmarshal}
)

// Load reads path and decodes it into out. The extension picks the format;
// any other extension is tried as YAML, then JSON. kind names the file in errors.
func Load(path, kind string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	return Decode(raw, filepath.Ext(path), kind, out)
}

// Decode decodes data according to ext (".yaml", ".yml", ".json" or anything else).
func Decode(data []byte, ext, kind string, out any) error {
	var decoders []decoder
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".yaml", ".yml":
		decoders = []decoder{yamlDecoder}
	case ".json":
		decoders = []decoder{jsonDecoder}
	default:
		decoders = []decoder{yamlDecoder, jsonDecoder}
	}

	var errs []error
	for _, d := range decoders {
		if err := d.fn(data, out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s %s: %w", d.name, kind, err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}
