// Package convert holds the value converters that turn a raw token into a
// typed value, and the registry that resolves converter names such as
// "int", "json" or "auto" at declaration time.
package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/internal/literal"
	"github.com/napalu/nestopt/types/orderedmap"
)

// Func converts one raw token
type Func func(raw string) (any, error)

// Registry maps converter names to converters. The zero value is not
// usable; use NewRegistry.
type Registry struct {
	funcs *orderedmap.OrderedMap[string, Func]
}

// NewRegistry returns a registry holding the builtin converters
func NewRegistry() *Registry {
	r := &Registry{funcs: orderedmap.NewOrderedMap[string, Func]()}
	r.Register("str", String)
	r.Register("int", Int)
	r.Register("float", Float)
	r.Register("bool", Bool)
	r.Register("py", Py)
	r.Register("json", JSON)
	r.Register("auto", Auto)
	r.Register("path", Path)
	r.Register("time", Time)
	r.Register("duration", Duration)
	r.Register("uuid", UUID)
	return r
}

// Register adds or replaces the converter for name
func (r *Registry) Register(name string, fn Func) {
	r.funcs.Set(name, fn)
}

// Lookup returns the converter for name, or errs.ErrUnsupportedType
func (r *Registry) Lookup(name string) (Func, error) {
	fn, ok := r.funcs.Get(name)
	if !ok || fn == nil {
		return nil, errs.ErrUnsupportedType.WithArgs(name)
	}
	return fn, nil
}

// Names lists the registered converter names in registration order
func (r *Registry) Names() []string {
	return r.funcs.Keys()
}

// Clone returns an independent copy of r
func (r *Registry) Clone() *Registry {
	c := &Registry{funcs: orderedmap.NewOrderedMap[string, Func]()}
	for it := r.funcs.Front(); it != nil; it = it.Next() {
		c.funcs.Set(*it.Key, it.Value)
	}
	return c
}

// String returns raw unchanged
func String(raw string) (any, error) {
	return raw, nil
}

// Int parses a base-10 integer; surrounding whitespace and digit
// separators are accepted
func Int(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "_") {
		if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") || strings.Contains(s, "__") {
			return nil, strconv.ErrSyntax
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return int(i), nil
}

// Float parses a float64
func Float(raw string) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// Bool parses the forms accepted by strconv.ParseBool plus yes/no and on/off
func Bool(raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

// Py evaluates a literal written in the py style
func Py(raw string) (any, error) {
	v, err := literal.Eval(raw)
	if err != nil {
		return nil, errs.ErrInvalidLiteral.WithArgs(raw).Wrap(err)
	}
	return v, nil
}

// JSON decodes raw. Integral numbers become int, other numbers float64.
func JSON(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return Normalize(v), nil
}

// Auto guesses the type of raw: booleans and none by name, then int,
// float and JSON, falling back to the string itself
func Auto(raw string) (any, error) {
	switch raw {
	case "True", "TRUE", "true":
		return true, nil
	case "False", "FALSE", "false":
		return false, nil
	case "None", "NONE", "none":
		return nil, nil
	}
	if v, err := Int(raw); err == nil {
		return v, nil
	}
	if v, err := Float(raw); err == nil {
		return v, nil
	}
	if v, err := JSON(raw); err == nil {
		return v, nil
	}
	return raw, nil
}

// Path returns raw as a cleaned file system path
func Path(raw string) (any, error) {
	return filepath.Clean(raw), nil
}

// Time parses a date or time in any layout dateparse recognises
func Time(raw string) (any, error) {
	return dateparse.ParseAny(strings.TrimSpace(raw))
}

// Duration parses a Go duration such as 1m30s
func Duration(raw string) (any, error) {
	return time.ParseDuration(strings.TrimSpace(raw))
}

// UUID parses a UUID in any form accepted by uuid.Parse
func UUID(raw string) (any, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}

// Normalize rewrites decoded data into the shapes used throughout nestopt:
// map[string]any, []any, int for integral numbers and float64 otherwise.
// Maps with non-string keys, as produced by some YAML documents, are
// converted by formatting their keys.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = Normalize(item)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[keyString(k)] = Normalize(item)
		}
		return m
	case []any:
		for i, item := range t {
			t[i] = Normalize(item)
		}
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case int64:
		return int(t)
	case int32:
		return int(t)
	case uint64:
		return int(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(k)
	return strings.TrimSpace(buf.String())
}
