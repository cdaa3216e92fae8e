package nestopt

import (
	"fmt"

	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/internal/util"
)

// WithAction sets the action by name. See ParseActionKind for the names.
func WithAction(name string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		kind, e := ParseActionKind(name)
		if e != nil {
			if err != nil {
				*err = e
			}
			return
		}
		argument.Action = kind
	}
}

// WithActionKind sets the action
func WithActionKind(kind ActionKind) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Action = kind
	}
}

// WithDest sets the destination. Dots address nested namespaces.
func WithDest(dest string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Dest = dest
	}
}

// WithType selects a converter by registry name ("int", "json", "auto", ...).
// The name is resolved when the argument is added to a parser.
func WithType(name string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.TypeName = name
	}
}

// WithTypeFunc sets an explicit converter, which wins over WithType
func WithTypeFunc(fn convert.Func) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Type = fn
	}
}

func WithDefault(value any) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Default = value
	}
}

func WithConst(value any) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Const = value
	}
}

// WithNargs accepts a Nargs, an int or one of "?", "*", "+", "...", "A..."
func WithNargs(nargs any) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		n, e := ParseNargs(nargs)
		if e != nil {
			if err != nil {
				*err = e
			}
			return
		}
		argument.Nargs = n
	}
}

// WithChoices restricts the converted values an argument accepts
func WithChoices[T any](choices ...T) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Choices = make([]any, len(choices))
		for i, c := range choices {
			argument.Choices[i] = c
		}
	}
}

func WithRequired(required bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Required = required
	}
}

// WithHidden hides the argument unless help is shown in plus mode
func WithHidden(hidden bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Hidden = hidden
	}
}

// WithShow is the inverse of WithHidden
func WithShow(show bool) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Hidden = !show
	}
}

// WithHelp sets the help text. "%(default)s" and "%(prog)s" are expanded,
// a "[nodefault]" suffix turns off the default annotation.
func WithHelp(help string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Help = help
	}
}

func WithMetavar(metavar string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Metavar = metavar
	}
}

// WithVersion sets the text printed by the version action
func WithVersion(version string) ConfigureArgumentFunc {
	return func(argument *Argument, err *error) {
		argument.Version = version
	}
}

// argumentFromMap applies the keys of a configuration mapping (as found in
// the "arguments" lists of FromConfigs) to a new Argument.
func argumentFromMap(m map[string]any) (*Argument, []string, error) {
	flags, _ := util.AsStrings(m["flags"])
	arg := &Argument{}
	var configs []ConfigureArgumentFunc
	for key, v := range m {
		switch key {
		case "flags":
		case "action":
			s, ok := util.AsString(v)
			if !ok {
				return nil, nil, invalidKey(key, v)
			}
			configs = append(configs, WithAction(s))
		case "dest":
			s, ok := util.AsString(v)
			if !ok {
				return nil, nil, invalidKey(key, v)
			}
			configs = append(configs, WithDest(s))
		case "type":
			s, ok := util.AsString(v)
			if !ok {
				return nil, nil, invalidKey(key, v)
			}
			configs = append(configs, WithType(s))
		case "default":
			configs = append(configs, WithDefault(v))
		case "const":
			configs = append(configs, WithConst(v))
		case "nargs":
			configs = append(configs, WithNargs(v))
		case "choices":
			choices, ok := util.CopyToAny(v)
			if !ok {
				return nil, nil, invalidKey(key, v)
			}
			configs = append(configs, WithChoices(choices...))
		case "required", "show", "hidden":
			b, ok := util.AsBool(v)
			if !ok {
				return nil, nil, invalidKey(key, v)
			}
			switch key {
			case "required":
				configs = append(configs, WithRequired(b))
			case "show":
				configs = append(configs, WithShow(b))
			default:
				configs = append(configs, WithHidden(b))
			}
		case "help", "metavar", "version":
			s, ok := util.AsString(v)
			if !ok {
				return nil, nil, invalidKey(key, v)
			}
			switch key {
			case "help":
				configs = append(configs, WithHelp(s))
			case "metavar":
				configs = append(configs, WithMetavar(s))
			default:
				configs = append(configs, WithVersion(s))
			}
		default:
			return nil, nil, invalidKey(key, v)
		}
	}
	if err := arg.Set(configs...); err != nil {
		return nil, nil, err
	}
	return arg, flags, nil
}

func invalidKey(key string, v any) error {
	return errInvalidConfig(fmt.Sprintf("%s=%v", key, v))
}
