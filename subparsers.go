package nestopt

import (
	"fmt"

	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/i18n"
	"github.com/napalu/nestopt/internal/messages"
	"github.com/napalu/nestopt/types/orderedmap"
)

// CommandDest is the destination of the top-level command name. Nested
// levels use CommandDest followed by level+1: COMMAND2, COMMAND3, ...
const CommandDest = "COMMAND"

// Subparsers is the registry of sub-commands of a parser. Each command owns
// a child Parser with its own declarations.
type Subparsers struct {
	Title       string
	Description string
	Dest        string
	Required    bool
	Help        string
	Metavar     string
	Order       int

	parent   *Parser
	action   *Argument
	group    *Group
	commands *orderedmap.OrderedMap[string, *Command]
	names    map[string]*Command
}

func commandDest(level int) string {
	if level == 0 {
		return CommandDest
	}
	return fmt.Sprintf("%s%d", CommandDest, level+1)
}

func WithSubparsersTitle(title string) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Title = title
	}
}

func WithSubparsersDescription(description string) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Description = description
	}
}

func WithSubparsersDest(dest string) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Dest = dest
	}
}

func WithSubparsersRequired(required bool) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Required = required
	}
}

func WithSubparsersHelp(help string) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Help = help
	}
}

func WithSubparsersMetavar(metavar string) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Metavar = metavar
	}
}

// WithSubparsersOrder positions the sub-command section in help (default 99)
func WithSubparsersOrder(order int) ConfigureSubparsersFunc {
	return func(s *Subparsers, err *error) {
		s.Order = order
	}
}

// AddSubparsers creates the sub-command registry of p. A parser has at most
// one. Without a title the commands are listed with the positional
// arguments.
func (p *Parser) AddSubparsers(configs ...ConfigureSubparsersFunc) (*Subparsers, error) {
	if p.subparsers != nil {
		return nil, errs.ErrMultipleSubparsers
	}

	s := &Subparsers{
		Dest:     commandDest(p.level),
		Order:    99,
		parent:   p,
		commands: orderedmap.NewOrderedMap[string, *Command](),
		names:    map[string]*Command{},
	}
	var err error
	for _, config := range configs {
		config(s, &err)
		if err != nil {
			return nil, err
		}
	}

	group := p.positionalGroup
	if s.Title != "" || s.Description != "" {
		group = p.newGroup(s.Title, groupPlain)
		group.Description = s.Description
		group.Order = s.Order
		p.groups = append(p.groups, group)
	}

	s.action = &Argument{
		Dest:     s.Dest,
		Action:   ActionParsers,
		Required: s.Required,
		Help:     s.Help,
		Metavar:  s.Metavar,
	}
	if err := p.register(s.action, s.Dest, nil, group); err != nil {
		return nil, err
	}
	s.group = group
	p.subparsers = s
	return s, nil
}

// Subparsers returns the sub-command registry of p, or nil
func (p *Parser) Subparsers() *Subparsers {
	return p.subparsers
}

func WithCommandHelp(help string) ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.Help = help
	}
}

func WithAliases(aliases ...string) ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.Aliases = append(c.Aliases, aliases...)
	}
}

func WithCommandHidden(hidden bool) ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.Hidden = hidden
	}
}

// WithCommandParser configures the child parser of the command. Settings
// not given here are inherited from the parent.
func WithCommandParser(configs ...ConfigureParserFunc) ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.parserConfigs = append(c.parserConfigs, configs...)
	}
}

// AddParser registers the command name and returns its child parser
func (s *Subparsers) AddParser(name string, configs ...ConfigureCommandFunc) (*Parser, error) {
	cmd := &Command{Name: name}
	var err error
	for _, config := range configs {
		config(cmd, &err)
		if err != nil {
			return nil, err
		}
	}

	for _, n := range append([]string{name}, cmd.Aliases...) {
		if _, exists := s.names[n]; exists {
			return nil, errs.ErrCommandExists.WithArgs(n)
		}
	}

	child, err := s.parent.newChild(name, cmd.parserConfigs)
	if err != nil {
		return nil, err
	}
	cmd.Parser = child

	s.commands.Set(name, cmd)
	for _, n := range append([]string{name}, cmd.Aliases...) {
		s.names[n] = cmd
	}
	return child, nil
}

// Commands returns the registered commands in declaration order
func (s *Subparsers) Commands() []*Command {
	out := make([]*Command, 0, s.commands.Count())
	for it := s.commands.Front(); it != nil; it = it.Next() {
		out = append(out, it.Value)
	}
	return out
}

func (s *Subparsers) lookup(name string) (*Command, bool) {
	cmd, ok := s.names[name]
	return cmd, ok
}

// choices lists command names and aliases in declaration order
func (s *Subparsers) choices() []any {
	var out []any
	for _, cmd := range s.Commands() {
		out = append(out, cmd.Name)
		for _, a := range cmd.Aliases {
			out = append(out, a)
		}
	}
	return out
}

// AddCommand adds a sub-command, creating the registry on first use with
// the title "subcommands", destination COMMAND (COMMAND<level+1> below the
// top level) and a required command. The help defaults to
// "The <name> command".
func (p *Parser) AddCommand(name string, configs ...ConfigureCommandFunc) (*Parser, error) {
	if p.subparsers == nil {
		_, err := p.AddSubparsers(
			WithSubparsersTitle(i18n.Default().T(messages.MsgSubcommandsKey)),
			WithSubparsersRequired(true),
		)
		if err != nil {
			return nil, err
		}
	}

	configs = append([]ConfigureCommandFunc{WithCommandHelp(i18n.Default().T(messages.MsgCommandKey, name))}, configs...)
	return p.subparsers.AddParser(name, configs...)
}

// GetCommand returns the child parser registered for name or one of its
// aliases
func (p *Parser) GetCommand(name string) (*Parser, bool) {
	if p.subparsers == nil {
		return nil, false
	}
	cmd, ok := p.subparsers.lookup(name)
	if !ok {
		return nil, false
	}
	return cmd.Parser, true
}
