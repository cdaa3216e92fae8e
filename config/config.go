// Package config loads structured configuration used to seed parser
// defaults. A configuration is either a file path or a map; files are
// decoded by extension and several configurations merge left to right.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agilira/argus"
	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/types/namespace"
	"gopkg.in/yaml.v3"
)

// Load decodes every config and deep-merges them in order, later values
// winning. Each config is a file path, a map[string]any or a
// *namespace.Namespace. Maps passed in are never modified.
func Load(configs ...any) (map[string]any, error) {
	merged := map[string]any{}
	for _, c := range configs {
		m, err := loadOne(c)
		if err != nil {
			return nil, err
		}
		Merge(merged, m)
	}
	return merged, nil
}

func loadOne(c any) (map[string]any, error) {
	switch t := c.(type) {
	case nil:
		return map[string]any{}, nil
	case string:
		return LoadFile(t)
	case map[string]any:
		return convert.Normalize(clone(t)).(map[string]any), nil
	case *namespace.Namespace:
		return t.ToMap(), nil
	default:
		return nil, errs.ErrUnsupportedConfigFormat.WithArgs(fmt.Sprintf("%T", c))
	}
}

// LoadFile reads and decodes the file at path. Go plugins (ModuleExt) are
// opened and their Args symbol is read.
func LoadFile(path string) (map[string]any, error) {
	if strings.EqualFold(filepath.Ext(path), ModuleExt) {
		return LoadModule(path)
	}

	format := argus.DetectFormat(path)
	if format == argus.FormatUnknown {
		return nil, errs.ErrUnsupportedConfigFormat.WithArgs(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Parse decodes data in the given format into a normalized map
func Parse(data []byte, format argus.ConfigFormat) (map[string]any, error) {
	var m map[string]any
	switch format {
	case argus.FormatJSON:
		v, err := convert.JSON(string(data))
		if err != nil {
			return nil, err
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, errs.ErrUnsupportedConfigFormat.WithArgs("JSON document is not an object")
		}
		return obj, nil
	case argus.FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case argus.FormatTOML:
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, err
		}
	case argus.FormatHCL, argus.FormatINI, argus.FormatProperties:
		parsed, err := argus.ParseConfig(data, format)
		if err != nil {
			return nil, err
		}
		m = parsed
	default:
		return nil, errs.ErrUnsupportedConfigFormat.WithArgs(format.String())
	}
	if m == nil {
		m = map[string]any{}
	}
	return convert.Normalize(m).(map[string]any), nil
}

// Merge deep-merges src into dst. Nested maps merge key by key; any other
// value in src replaces the one in dst.
func Merge(dst, src map[string]any) {
	for k, v := range src {
		sub, isMap := v.(map[string]any)
		if !isMap {
			dst[k] = clone(v)
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = map[string]any{}
			dst[k] = existing
		}
		Merge(existing, sub)
	}
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[k] = clone(item)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, item := range t {
			s[i] = clone(item)
		}
		return s
	default:
		return v
	}
}
