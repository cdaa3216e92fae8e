package config

import (
	"plugin"

	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/errs"
)

// ModuleExt is the extension of configuration modules: Go plugins built
// with -buildmode=plugin that export an Args symbol.
const ModuleExt = ".so"

// ArgsSymbol is the symbol read from a configuration module. It may be a
// map[string]any variable or a func() map[string]any.
const ArgsSymbol = "Args"

type symbolTable interface {
	Lookup(name string) (plugin.Symbol, error)
}

var openModule = func(path string) (symbolTable, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LoadModule opens the plugin at path and returns a copy of its Args
func LoadModule(path string) (map[string]any, error) {
	mod, err := openModule(path)
	if err != nil {
		return nil, err
	}
	sym, err := mod.Lookup(ArgsSymbol)
	if err != nil {
		return nil, errs.ErrModuleArgsMissing.WithArgs(path).Wrap(err)
	}

	var args map[string]any
	switch t := sym.(type) {
	case *map[string]any:
		args = *t
	case map[string]any:
		args = t
	case func() map[string]any:
		args = t()
	case *func() map[string]any:
		args = (*t)()
	default:
		return nil, errs.ErrModuleArgsMissing.WithArgs(path)
	}
	return convert.Normalize(clone(args)).(map[string]any), nil
}
