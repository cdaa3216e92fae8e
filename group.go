package nestopt

import (
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/i18n"
	"github.com/napalu/nestopt/internal/messages"
)

// Group collects arguments into one help section. Namespace groups also
// scope dotted destinations; mutually exclusive groups only record their
// members, which live in the section routing chose for them.
type Group struct {
	Title       string
	Description string
	Order       int
	Hidden      bool
	// Name is the destination prefix of a namespace group
	Name string
	// Required asks a mutually exclusive group for exactly one member
	Required bool

	kind    groupKind
	parser  *Parser
	members []*Argument
}

// Arguments returns the members of the group in declaration order
func (g *Group) Arguments() []*Argument {
	return append([]*Argument(nil), g.members...)
}

// IsNamespace reports whether g scopes a destination prefix
func (g *Group) IsNamespace() bool {
	return g.kind == groupNamespace
}

// AddArgument declares an argument belonging to g. For plain and namespace
// groups the argument is placed in g as is; members of a mutually exclusive
// group are routed like any other argument of the parser.
func (g *Group) AddArgument(arg *Argument, names ...string) error {
	if g.kind != groupMutex {
		return g.parser.addArgument(arg, names, g)
	}

	if arg == nil {
		arg = NewArg()
	}
	if arg.Required {
		return errs.ErrInvalidArgument.WithArgs(firstName(arg, names), "mutually exclusive arguments must be optional")
	}
	if err := g.parser.addArgument(arg, names, nil); err != nil {
		return err
	}
	g.members = append(g.members, arg)
	arg.mutex = append(arg.mutex, g)
	return nil
}

// Set applies configs to g
func (g *Group) Set(configs ...ConfigureGroupFunc) error {
	var err error
	for _, config := range configs {
		config(g, &err)
		if err != nil {
			return err
		}
	}
	return nil
}

func WithGroupTitle(title string) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.Title = title
	}
}

func WithGroupDescription(description string) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.Description = description
	}
}

// WithGroupOrder positions the section in help; lower orders come first
// and equal orders sort by title
func WithGroupOrder(order int) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.Order = order
	}
}

// WithGroupHidden hides the section unless help is shown in plus mode
func WithGroupHidden(hidden bool) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.Hidden = hidden
	}
}

func WithGroupShow(show bool) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.Hidden = !show
	}
}

// AddArgumentGroup adds a help section
func (p *Parser) AddArgumentGroup(title string, configs ...ConfigureGroupFunc) (*Group, error) {
	g := p.newGroup(title, groupPlain)
	if err := g.Set(configs...); err != nil {
		return nil, err
	}
	p.groups = append(p.groups, g)
	return g, nil
}

// AddMutuallyExclusiveGroup adds a group of which at most one member may be
// given on the command line, and exactly one when required is set
func (p *Parser) AddMutuallyExclusiveGroup(required bool) *Group {
	g := p.newGroup("", groupMutex)
	g.Required = required
	p.mutexGroups = append(p.mutexGroups, g)
	return g
}

// AddNamespace adds the namespace group scoping destinations under name.
// The default title is "namespace <name>".
func (p *Parser) AddNamespace(name string, configs ...ConfigureGroupFunc) (*Group, error) {
	if p.namespaces.Has(name) {
		return nil, errs.ErrNamespaceExists.WithArgs(name)
	}

	g := p.newGroup(i18n.Default().T(messages.MsgNamespaceKey, name), groupNamespace)
	g.Name = name
	if err := g.Set(configs...); err != nil {
		return nil, err
	}
	p.namespaces.Set(name, g)
	p.groups = append(p.groups, g)
	p.logger.Debug("namespace added", "name", name)
	return g, nil
}

// GetNamespace returns the namespace group registered under name
func (p *Parser) GetNamespace(name string) (*Group, bool) {
	return p.namespaces.Get(name)
}

// Groups returns the help sections in declaration order
func (p *Parser) Groups() []*Group {
	return append([]*Group(nil), p.groups...)
}

func (p *Parser) newGroup(title string, kind groupKind) *Group {
	return &Group{Title: title, kind: kind, parser: p}
}

func firstName(arg *Argument, names []string) string {
	if len(names) > 0 {
		return names[0]
	}
	if len(arg.Flags) > 0 {
		return arg.Flags[0]
	}
	return arg.Dest
}
