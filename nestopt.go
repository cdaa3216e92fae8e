// Copyright 2021-2024, Florent Heyworth. All rights reserved.
// Use of this source code is governed by the MIT licensee
// which can be found in the LICENSE file.

// Package nestopt provides command-line processing with nested results.
//
// Destinations may be dotted paths: `--db.host x` stores "x" under the key
// "host" of the namespace "db" in the result. On top of the usual actions
// (store, append, count, ...) nestopt offers:
//
//	clear_append / clear_extend - the command line replaces the default list instead of extending it
//	ns - merges a JSON object into the namespace at the destination
//	parsers - dispatches to sub-command parsers, whose results join the parent's
//
// Tokens of the form @file load a configuration file (TOML, YAML, JSON,
// INI, HCL, properties or a Go plugin) whose values become argument
// defaults; @file.txt files expand to one argument per line.
package nestopt

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/i18n"
	"github.com/napalu/nestopt/internal/messages"
	"github.com/napalu/nestopt/types/orderedmap"
)

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// NewParser returns a parser with default settings and a -h/--help option
func NewParser() *Parser {
	p := newParser()
	// the default help spec always yields valid option strings
	_ = p.init()
	return p
}

func newParser() *Parser {
	p := &Parser{
		Prog:                filepath.Base(os.Args[0]),
		prefixChars:         "-",
		fromFilePrefixChars: "@",
		addHelp:             "h,help",
		allowAbbrev:         true,
		exitOnError:         true,
		stdout:              os.Stdout,
		stderr:              os.Stderr,
		exitFunc:            os.Exit,
		logger:              slog.New(slog.DiscardHandler),
		types:               convert.NewRegistry(),
		lineSplitter:        func(line string) ([]string, error) { return []string{line}, nil },
		color:               !color.NoColor,
		optionStrings:       map[string]*Argument{},
		namespaces:          orderedmap.NewOrderedMap[string, *Group](),
	}
	p.positionalGroup = p.newGroup(i18n.Default().T(messages.MsgPositionalArgumentsKey), groupPlain)
	p.optionalGroup = p.newGroup(i18n.Default().T(messages.MsgOptionsKey), groupPlain)
	p.groups = append(p.groups, p.positionalGroup, p.optionalGroup)
	return p
}

// init adds the help option and the "required arguments" section once all
// parser options are known, then the arguments queued by WithArgument
func (p *Parser) init() error {
	if p.addHelp != "" {
		if err := p.addHelpArgument(); err != nil {
			return err
		}
	}
	p.requiredGroup = p.newGroup(i18n.Default().T(messages.MsgRequiredArgumentsKey), groupPlain)
	p.requiredGroup.Order = -1
	p.groups = append(p.groups, p.requiredGroup)

	p.initialized = true
	for _, add := range p.pending {
		if err := add(); err != nil {
			return err
		}
	}
	p.pending = nil
	return nil
}

// addHelpArgument turns a spec such as "h,help+" into help option strings.
// Names longer than one character (ignoring a trailing '+') get a double
// prefix. A '+' variant prints hidden arguments and sections as well.
func (p *Parser) addHelpArgument() error {
	prefix := p.prefixChars[:1]
	if strings.Contains(p.prefixChars, "-") {
		prefix = "-"
	}

	plus := false
	var flags []string
	for _, name := range strings.Split(p.addHelp, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.HasSuffix(name, "+") {
			plus = true
		}
		if len(strings.TrimRight(name, "+")) > 1 {
			flags = append(flags, prefix+prefix+name)
		} else {
			flags = append(flags, prefix+name)
		}
	}
	if len(flags) == 0 {
		return nil
	}

	help := i18n.Default().T(messages.MsgHelpKey)
	if plus {
		help = i18n.Default().T(messages.MsgHelpPlusKey)
	}
	arg := NewArg(WithActionKind(ActionHelp), WithDest("help"), WithHelp(help))
	if err := p.addArgument(arg, flags, nil); err != nil {
		return err
	}
	p.helpFlags = flags
	return nil
}

// helpPlus decides whether the help option string asks for hidden items.
// Without any '+' variant help always shows everything.
func (p *Parser) helpPlus(option string) bool {
	if strings.HasSuffix(option, "+") {
		return true
	}
	for _, f := range p.helpFlags {
		if strings.HasSuffix(f, "+") {
			return false
		}
	}
	return true
}

func (p *Parser) newChild(name string, configs []ConfigureParserFunc) (*Parser, error) {
	child := newParser()
	child.Prog = p.Prog + " " + name
	child.prefixChars = p.prefixChars
	child.fromFilePrefixChars = p.fromFilePrefixChars
	child.addHelp = p.addHelp
	child.allowAbbrev = p.allowAbbrev
	child.exitOnError = p.exitOnError
	child.stdout = p.stdout
	child.stderr = p.stderr
	child.exitFunc = p.exitFunc
	child.logger = p.logger
	child.types = p.types
	child.lineSplitter = p.lineSplitter
	child.width = p.width
	child.color = p.color
	child.level = p.level + 1
	child.parent = p

	var err error
	for _, config := range configs {
		config(child, &err)
		if err != nil {
			return nil, err
		}
	}
	if err := child.init(); err != nil {
		return nil, err
	}
	return child, nil
}

// AddArgument declares an argument. A single name without a prefix
// character declares a positional; otherwise names are option strings.
// When names is empty arg.Flags is used.
//
// Dotted destinations, and every ns action, are placed into the namespace
// group of their longest declared prefix, or into a new namespace group
// named after their first segment.
func (p *Parser) AddArgument(arg *Argument, names ...string) error {
	return p.addArgument(arg, names, nil)
}

func (p *Parser) addArgument(arg *Argument, names []string, group *Group) error {
	if arg == nil {
		arg = NewArg()
	}
	if arg.configErr != nil {
		return arg.configErr
	}
	if len(names) == 0 {
		names = arg.Flags
	}
	if len(names) == 0 {
		return errs.ErrInvalidArgument.WithArgs(arg.Dest, "no name or option strings given")
	}

	positional := len(names) == 1 && !p.isPrefixChar(names[0])
	dest := arg.Dest
	var flags []string
	if positional {
		if dest != "" && dest != names[0] {
			return errs.ErrInvalidArgument.WithArgs(names[0], "dest supplied twice for positional argument")
		}
		dest = names[0]
	} else {
		for _, name := range names {
			if !p.isPrefixChar(name) {
				return errs.ErrInvalidArgument.WithArgs(name, "option strings must start with one of '"+p.prefixChars+"'")
			}
		}
		flags = append(flags, names...)
		if dest == "" {
			dest = p.deriveDest(arg.Action, flags)
		}
		if dest == "" {
			return errs.ErrInvalidArgument.WithArgs(names[0], "dest is required for options like "+names[0])
		}
	}

	for _, f := range flags {
		if _, exists := p.optionStrings[f]; exists {
			return errs.ErrFlagAlreadyExists.WithArgs(f)
		}
	}
	if int(arg.Action) < 0 || int(arg.Action) >= len(actionNames) {
		return errs.ErrUnknownAction.WithArgs(arg.Action.String())
	}
	if err := p.resolveType(arg); err != nil {
		return err
	}
	if err := validateNargs(arg, names[0]); err != nil {
		return err
	}
	arg.applyActionDefaults()

	if positional {
		switch arg.Nargs.kind {
		case nargsOptional, nargsZeroOrMore, nargsRemainder:
		default:
			arg.Required = true
		}
	}

	return p.register(arg, dest, flags, group)
}

// deriveDest strips prefixes from the first long option string, or the
// first one when there is none, and turns '-' into '_'. Dotted option
// strings and ns actions keep the first option string verbatim.
func (p *Parser) deriveDest(kind ActionKind, flags []string) string {
	chosen := flags[0]
	for _, f := range flags {
		if len(f) > 1 && p.isPrefixChar(f[1:]) {
			chosen = f
			break
		}
	}
	dest := strings.ReplaceAll(strings.TrimLeft(chosen, p.prefixChars), "-", "_")
	if kind == ActionNamespace || strings.Contains(dest, ".") {
		dest = strings.TrimLeft(flags[0], p.prefixChars)
	}
	return dest
}

func (p *Parser) resolveType(arg *Argument) error {
	if arg.Type != nil {
		return nil
	}
	if arg.TypeName != "" {
		fn, err := p.types.Lookup(arg.TypeName)
		if err != nil {
			return err
		}
		arg.Type = fn
		return nil
	}
	if arg.Action == ActionNamespace {
		arg.Type = convert.JSON
		arg.TypeName = "json"
	}
	return nil
}

func validateNargs(arg *Argument, name string) error {
	if arg.Action.takesNoValue() && arg.Nargs.IsSet() {
		return errs.ErrInvalidArgument.WithArgs(name, "nargs is not allowed with action "+arg.Action.String())
	}
	if n, ok := arg.Nargs.Count(); ok && n == 0 {
		return errs.ErrInvalidArgument.WithArgs(name, "nargs for "+arg.Action.String()+" actions must be != 0")
	}
	if arg.Action == ActionParsers && arg.Nargs.IsSet() {
		return errs.ErrInvalidArgument.WithArgs(name, "nargs is not allowed with action parsers")
	}
	return nil
}

// register records a validated argument under dest and places it in
// group, or in the group routing picks when group is nil
func (p *Parser) register(arg *Argument, dest string, flags []string, group *Group) error {
	prevDest, prevFlags := arg.Dest, arg.Flags
	arg.Dest, arg.Flags = dest, flags
	if group == nil {
		var err error
		if group, err = p.route(arg); err != nil {
			arg.Dest, arg.Flags = prevDest, prevFlags
			return err
		}
	}

	p.actions = append(p.actions, arg)
	for _, f := range flags {
		p.optionStrings[f] = arg
		p.optionOrder = append(p.optionOrder, f)
		if negativeNumber.MatchString(f) {
			p.negativeNumbered = true
		}
	}
	arg.group = group
	group.members = append(group.members, arg)
	return nil
}

func (p *Parser) route(arg *Argument) (*Group, error) {
	if !arg.isDotted() && arg.Action != ActionNamespace {
		switch {
		case arg.Required:
			return p.requiredGroup, nil
		case arg.isPositional():
			return p.positionalGroup, nil
		}
		return p.optionalGroup, nil
	}

	keys := strings.Split(arg.Dest, ".")
	if arg.Action == ActionNamespace {
		if g, ok := p.namespaces.Get(arg.Dest); ok {
			return g, nil
		}
	}
	for i := len(keys) - 1; i > 0; i-- {
		if g, ok := p.namespaces.Get(strings.Join(keys[:i], ".")); ok {
			return g, nil
		}
	}
	return p.AddNamespace(keys[0])
}

func (p *Parser) isPrefixChar(s string) bool {
	return s != "" && strings.IndexByte(p.prefixChars, s[0]) >= 0
}

// Actions returns every declared argument in declaration order
func (p *Parser) Actions() []*Argument {
	return append([]*Argument(nil), p.actions...)
}

// GetArgument returns the argument declared with dest
func (p *Parser) GetArgument(dest string) (*Argument, bool) {
	for _, a := range p.actions {
		if a.Dest == dest {
			return a, true
		}
	}
	return nil, false
}

// GetOption returns the argument registered for an option string
func (p *Parser) GetOption(option string) (*Argument, bool) {
	a, ok := p.optionStrings[option]
	return a, ok
}

// Level is 0 for a top-level parser and parent level + 1 for a sub-command
func (p *Parser) Level() int {
	return p.level
}

// Parent returns the parser p is a sub-command of, or nil
func (p *Parser) Parent() *Parser {
	return p.parent
}

// SetLogger replaces the logger of p and of every sub-command parser
func (p *Parser) SetLogger(logger *slog.Logger) {
	WithLogger(logger)(p, nil)
	if p.subparsers == nil {
		return
	}
	for _, cmd := range p.subparsers.Commands() {
		cmd.Parser.SetLogger(p.logger)
	}
}

// TypeRegistry returns the converters available to WithType
func (p *Parser) TypeRegistry() *convert.Registry {
	return p.types
}

func (p *Parser) positionals() []*Argument {
	var out []*Argument
	for _, a := range p.actions {
		if a.isPositional() {
			out = append(out, a)
		}
	}
	return out
}
