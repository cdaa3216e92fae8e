package nestopt

import (
	"fmt"
	"strings"

	"github.com/napalu/nestopt/convert"
)

// Argument declares an option or a positional argument
type Argument struct {
	Flags    []string
	Dest     string
	Action   ActionKind
	TypeName string
	Type     convert.Func
	Default  any
	Const    any
	Nargs    Nargs
	Choices  []any
	Required bool
	Hidden   bool
	Help     string
	Metavar  string
	Version  string

	group *Group
	mutex []*Group
	// first error reported by a NewArg option; returned on registration
	configErr error
}

// NewArg convenience initialization method to configure arguments
func NewArg(configs ...ConfigureArgumentFunc) *Argument {
	argument := &Argument{}
	for _, config := range configs {
		var err error
		config(argument, &err)
		if err != nil && argument.configErr == nil {
			argument.configErr = err
		}
	}

	return argument
}

// Set configures the Argument instance with the provided ConfigureArgumentFunc(s),
// and returns an error if a configuration results in an error.
//
// Usage example:
//
//	arg := &Argument{}
//	err := arg.Set(
//	    WithAction("count"),
//	    WithHelp("increase verbosity"),
//	)
func (a *Argument) Set(configs ...ConfigureArgumentFunc) error {
	var err error
	for _, config := range configs {
		config(a, &err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Argument) String() string {
	if a.isPositional() {
		return fmt.Sprintf("Argument(dest=%s, action=%s)", a.Dest, a.Action)
	}
	return fmt.Sprintf("Argument(flags=%s, dest=%s, action=%s)", strings.Join(a.Flags, "/"), a.Dest, a.Action)
}

func (a *Argument) isPositional() bool {
	return len(a.Flags) == 0
}

func (a *Argument) isDotted() bool {
	return strings.Contains(a.Dest, ".")
}

// nargs returns the nargs the grammar applies, which differs from the
// declared one for actions that never consume or that take the rest
func (a *Argument) nargs() Nargs {
	if a.Action.takesNoValue() {
		return nargsNone
	}
	if a.Action == ActionParsers {
		return NargsParser
	}
	return a.Nargs
}

// displayName names the argument in error messages
func (a *Argument) displayName() string {
	switch {
	case len(a.Flags) > 0:
		return strings.Join(a.Flags, "/")
	case a.Metavar != "":
		return a.Metavar
	case a.Dest != "":
		return a.Dest
	case len(a.Choices) > 0:
		return choiceList(a.Choices)
	}
	return ""
}

func (a *Argument) convert(raw string) (any, error) {
	if a.Type == nil {
		return raw, nil
	}
	return a.Type(raw)
}

func (a *Argument) typeLabel() string {
	if a.TypeName != "" {
		return a.TypeName
	}
	return "value"
}

func (a *Argument) hasDefault() bool {
	return a.Default != nil && a.Default != Suppress
}

func (a *Argument) applyActionDefaults() {
	switch a.Action {
	case ActionStoreTrue:
		a.Const = true
		if a.Default == nil {
			a.Default = false
		}
	case ActionStoreFalse:
		a.Const = false
		if a.Default == nil {
			a.Default = true
		}
	case ActionHelp, ActionVersion:
		if a.Default == nil {
			a.Default = Suppress
		}
	}
}

func choiceList(choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprint(c)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func quoteChoices(choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		if s, ok := c.(string); ok {
			parts[i] = "'" + s + "'"
			continue
		}
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}
