package nestopt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/napalu/nestopt/config"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/internal/util"
)

// declarations are the nested keys of a parser configuration
type declarations struct {
	mutexGroups []map[string]any
	groups      []map[string]any
	namespaces  []map[string]any
	arguments   []map[string]any
	commands    []map[string]any
}

var declarationKeys = map[string]bool{
	"mutually_exclusive_groups": true,
	"groups":                    true,
	"namespaces":                true,
	"arguments":                 true,
	"commands":                  true,
}

// FromConfigs builds a parser from configuration files or mappings, merged
// left to right. Top-level keys are parser options (prog, usage,
// description, epilog, prefix_chars, fromfile_prefix_chars, add_help,
// allow_abbrev, exit_on_error, exit_on_void) plus the declaration lists
// arguments, groups, mutually_exclusive_groups, namespaces and commands.
//
// Example (YAML):
//
//	prog: app
//	arguments:
//	  - flags: [-v, --verbose]
//	    action: count
//	namespaces:
//	  - name: db
//	    arguments:
//	      - flags: --db.port
//	        type: int
//	        default: 5432
//	commands:
//	  - name: run
//	    help: Run it
func FromConfigs(configs ...any) (*Parser, error) {
	return FromConfigsWithVars(nil, configs...)
}

// FromConfigsWithVars is FromConfigs with "{key}" placeholders of the
// top-level description replaced from vars
func FromConfigsWithVars(vars map[string]any, configs ...any) (*Parser, error) {
	conf, err := config.Load(configs...)
	if err != nil {
		return nil, errs.ErrConfigLoad.WithArgs(describeConfigs(configs)).Wrap(err)
	}

	decl, err := collectDeclarations(conf)
	if err != nil {
		return nil, err
	}
	if d, ok := conf["description"].(string); ok {
		conf["description"] = expandVars(d, vars)
	}
	opts, err := parserOptionsFromMap(conf)
	if err != nil {
		return nil, err
	}

	p, err := NewParserWith(opts...)
	if err != nil {
		return nil, err
	}
	if err := p.addDescendants(decl); err != nil {
		return nil, err
	}
	return p, nil
}

func collectDeclarations(m map[string]any) (declarations, error) {
	var d declarations
	lists := []struct {
		key string
		dst *[]map[string]any
	}{
		{"mutually_exclusive_groups", &d.mutexGroups},
		{"groups", &d.groups},
		{"namespaces", &d.namespaces},
		{"arguments", &d.arguments},
		{"commands", &d.commands},
	}
	for _, l := range lists {
		maps, err := util.AsMaps(m[l.key])
		if err != nil {
			return d, errInvalidConfig(fmt.Sprintf("%s: %s", l.key, err))
		}
		*l.dst = maps
	}
	return d, nil
}

// addDescendants declares, in order: mutually exclusive groups, groups,
// namespaces, arguments (including those listed under namespaces) and
// commands
func (p *Parser) addDescendants(d declarations) error {
	for _, m := range d.mutexGroups {
		required := false
		for key, v := range m {
			switch key {
			case "arguments":
			case "required":
				b, ok := util.AsBool(v)
				if !ok {
					return invalidKey(key, v)
				}
				required = b
			default:
				return invalidKey(key, v)
			}
		}
		g := p.AddMutuallyExclusiveGroup(required)
		if err := addArgumentsFromMaps(g.AddArgument, m["arguments"]); err != nil {
			return err
		}
	}

	for _, m := range d.groups {
		title, _ := util.AsString(m["title"])
		opts, err := groupOptionsFromMap(m, "title")
		if err != nil {
			return err
		}
		g, err := p.AddArgumentGroup(title, opts...)
		if err != nil {
			return err
		}
		if err := addArgumentsFromMaps(g.AddArgument, m["arguments"]); err != nil {
			return err
		}
	}

	arguments := d.arguments
	for _, m := range d.namespaces {
		name, ok := util.AsString(m["name"])
		if !ok || name == "" {
			return invalidKey("name", m["name"])
		}
		opts, err := groupOptionsFromMap(m, "name")
		if err != nil {
			return err
		}
		if _, err := p.AddNamespace(name, opts...); err != nil {
			return err
		}
		nested, err := util.AsMaps(m["arguments"])
		if err != nil {
			return errInvalidConfig(fmt.Sprintf("namespace %s: %s", name, err))
		}
		arguments = append(arguments, nested...)
	}

	for _, m := range arguments {
		if err := addArgumentFromMap(p.AddArgument, m); err != nil {
			return err
		}
	}

	for _, m := range d.commands {
		if err := p.addCommandFromMap(m); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) addCommandFromMap(m map[string]any) error {
	name, ok := util.AsString(m["name"])
	if !ok || name == "" {
		return invalidKey("name", m["name"])
	}

	var cmdOpts []ConfigureCommandFunc
	rest := map[string]any{}
	for key, v := range m {
		switch key {
		case "name":
		case "help":
			s, ok := util.AsString(v)
			if !ok {
				return invalidKey(key, v)
			}
			cmdOpts = append(cmdOpts, WithCommandHelp(s))
		case "aliases":
			aliases, ok := util.AsStrings(v)
			if !ok {
				return invalidKey(key, v)
			}
			cmdOpts = append(cmdOpts, WithAliases(aliases...))
		case "hidden", "show":
			b, ok := util.AsBool(v)
			if !ok {
				return invalidKey(key, v)
			}
			cmdOpts = append(cmdOpts, WithCommandHidden(b == (key == "hidden")))
		default:
			rest[key] = v
		}
	}

	decl, err := collectDeclarations(rest)
	if err != nil {
		return err
	}
	parserOpts, err := parserOptionsFromMap(rest)
	if err != nil {
		return err
	}
	cmdOpts = append(cmdOpts, WithCommandParser(parserOpts...))

	child, err := p.AddCommand(name, cmdOpts...)
	if err != nil {
		return err
	}
	return child.addDescendants(decl)
}

// parserOptionsFromMap turns the parser keys of m into options, skipping the
// declaration lists
func parserOptionsFromMap(m map[string]any) ([]ConfigureParserFunc, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var opts []ConfigureParserFunc
	for _, key := range keys {
		v := m[key]
		if declarationKeys[key] {
			continue
		}

		switch key {
		case "prog", "usage", "description", "epilog", "prefix_chars", "fromfile_prefix_chars":
			s, ok := util.AsString(v)
			if !ok {
				return nil, invalidKey(key, v)
			}
			opts = append(opts, stringParserOption(key, s))
		case "add_help":
			spec, ok := addHelpSpec(v)
			if !ok {
				return nil, invalidKey(key, v)
			}
			opts = append(opts, WithAddHelp(spec))
		case "allow_abbrev", "exit_on_error", "exit_on_void":
			b, ok := util.AsBool(v)
			if !ok {
				return nil, invalidKey(key, v)
			}
			opts = append(opts, boolParserOption(key, b))
		default:
			return nil, invalidKey(key, v)
		}
	}
	return opts, nil
}

func stringParserOption(key, s string) ConfigureParserFunc {
	switch key {
	case "prog":
		return WithProg(s)
	case "usage":
		return WithUsage(s)
	case "description":
		return WithDescription(s)
	case "epilog":
		return WithEpilog(s)
	case "prefix_chars":
		return WithPrefixChars(s)
	}
	return WithFromFilePrefixChars(s)
}

func boolParserOption(key string, b bool) ConfigureParserFunc {
	switch key {
	case "allow_abbrev":
		return WithAllowAbbrev(b)
	case "exit_on_error":
		return WithExitOnError(b)
	}
	return WithExitOnVoid(b)
}

// addHelpSpec accepts a bool, a comma-separated string or a list of names
func addHelpSpec(v any) (string, bool) {
	if b, ok := util.AsBool(v); ok {
		return fmt.Sprint(b), true
	}
	if s, ok := util.AsString(v); ok {
		return s, true
	}
	if names, ok := util.AsStrings(v); ok {
		return strings.Join(names, ","), true
	}
	return "", false
}

func groupOptionsFromMap(m map[string]any, nameKey string) ([]ConfigureGroupFunc, error) {
	var opts []ConfigureGroupFunc
	for key, v := range m {
		switch key {
		case nameKey, "arguments":
		case "title", "description":
			s, ok := util.AsString(v)
			if !ok {
				return nil, invalidKey(key, v)
			}
			if key == "title" {
				opts = append(opts, WithGroupTitle(s))
			} else {
				opts = append(opts, WithGroupDescription(s))
			}
		case "order":
			n, ok := util.AsInt(v)
			if !ok {
				return nil, invalidKey(key, v)
			}
			opts = append(opts, WithGroupOrder(n))
		case "show", "hidden":
			b, ok := util.AsBool(v)
			if !ok {
				return nil, invalidKey(key, v)
			}
			opts = append(opts, WithGroupHidden(b == (key == "hidden")))
		default:
			return nil, invalidKey(key, v)
		}
	}
	return opts, nil
}

func addArgumentsFromMaps(add func(*Argument, ...string) error, v any) error {
	maps, err := util.AsMaps(v)
	if err != nil {
		return errInvalidConfig(fmt.Sprintf("arguments: %s", err))
	}
	for _, m := range maps {
		if err := addArgumentFromMap(add, m); err != nil {
			return err
		}
	}
	return nil
}

func addArgumentFromMap(add func(*Argument, ...string) error, m map[string]any) error {
	arg, flags, err := argumentFromMap(m)
	if err != nil {
		return err
	}
	return add(arg, flags...)
}

// expandVars replaces "{key}" placeholders. Unknown keys are left alone.
func expandVars(s string, vars map[string]any) string {
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func errInvalidConfig(detail string) error {
	return errs.ErrInvalidConfig.WithArgs(detail)
}
