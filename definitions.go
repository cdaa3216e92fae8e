package nestopt

import (
	"io"
	"log/slog"

	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/types/namespace"
	"github.com/napalu/nestopt/types/orderedmap"
)

// ConfigureParserFunc is used when defining Parser options
type ConfigureParserFunc func(p *Parser, err *error)

// ConfigureArgumentFunc is used when defining Argument options
type ConfigureArgumentFunc func(argument *Argument, err *error)

// ConfigureGroupFunc is used when defining Group options
type ConfigureGroupFunc func(g *Group, err *error)

// ConfigureCommandFunc is used when defining a sub-command with AddCommand
type ConfigureCommandFunc func(c *Command, err *error)

// ConfigureSubparsersFunc is used when defining the sub-command registry
type ConfigureSubparsersFunc func(s *Subparsers, err *error)

// ConfigureParseFunc is used to tune a single parse invocation
type ConfigureParseFunc func(o *parseOptions)

// PreParseFunc runs before a parse consumes any token. It may declare more
// arguments on p, write to ns, and return replacement args (nil keeps args).
type PreParseFunc func(p *Parser, args []string, ns *namespace.Namespace) ([]string, error)

// ArgumentLineFunc splits one line of an @file.txt argument file into
// arguments
type ArgumentLineFunc func(line string) ([]string, error)

// ExitFunc terminates the process with the given code
type ExitFunc func(code int)

type suppressed struct{}

func (suppressed) String() string { return "==SUPPRESS==" }

// Suppress used as a Default means "never write this destination"
var Suppress any = suppressed{}

// Parser declares arguments and turns command-line tokens into a nested
// namespace.
type Parser struct {
	Prog        string
	Usage       string
	Description string
	Epilog      string

	prefixChars         string
	fromFilePrefixChars string
	addHelp             string
	allowAbbrev         bool
	exitOnError         bool
	exitOnVoid          bool
	preParse            PreParseFunc
	stdout              io.Writer
	stderr              io.Writer
	exitFunc            ExitFunc
	logger              *slog.Logger
	types               *convert.Registry
	lineSplitter        ArgumentLineFunc
	width               int
	color               bool
	level               int
	parent              *Parser

	actions          []*Argument
	optionStrings    map[string]*Argument
	optionOrder      []string
	groups           []*Group
	namespaces       *orderedmap.OrderedMap[string, *Group]
	positionalGroup  *Group
	optionalGroup    *Group
	requiredGroup    *Group
	mutexGroups      []*Group
	subparsers       *Subparsers
	helpFlags        []string
	negativeNumbered bool
	initialized      bool
	pending          []func() error
}

// Command is one entry of a Subparsers registry
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Hidden  bool
	Parser  *Parser

	parserConfigs []ConfigureParserFunc
}

type groupKind int

const (
	groupPlain groupKind = iota
	groupMutex
	groupNamespace
)

type parseOptions struct {
	fromFileParse bool
	fromFileKeep  bool
}

func defaultParseOptions() parseOptions {
	return parseOptions{fromFileParse: true}
}
