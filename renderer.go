package nestopt

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// DefaultRenderer formats single arguments and commands for help output
type DefaultRenderer struct {
	parser *Parser
}

func NewRenderer(parser *Parser) *DefaultRenderer {
	return &DefaultRenderer{parser: parser}
}

// Metavar returns the placeholder shown for the values of an argument.
// Only the last segment of a dotted name is used; options default to the
// upper snake case form of their destination.
func (r *DefaultRenderer) Metavar(a *Argument) string {
	switch {
	case a.Metavar != "":
		return lastSegment(a.Metavar)
	case a.Action == ActionParsers && r.parser.subparsers != nil:
		return choiceList(r.parser.subparsers.choices())
	case len(a.Choices) > 0:
		return choiceList(a.Choices)
	case a.isPositional():
		return lastSegment(a.Dest)
	}
	return strcase.ToScreamingSnake(lastSegment(a.Dest))
}

// ArgumentValues formats the value placeholders following an option string
// according to nargs, e.g. "X", "[X]", "[X ...]" or "X [X ...]"
func (r *DefaultRenderer) ArgumentValues(a *Argument) string {
	m := r.Metavar(a)
	n := a.nargs()
	switch n.kind {
	case nargsDefault:
		return m
	case nargsOptional:
		return "[" + m + "]"
	case nargsZeroOrMore:
		return "[" + m + " ...]"
	case nargsOneOrMore:
		return m + " [" + m + " ...]"
	case nargsRemainder:
		return "..."
	case nargsParser:
		return m + " ..."
	case nargsExact:
		parts := make([]string, n.n)
		for i := range parts {
			parts[i] = m
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// Invocation is the left column of a help entry: "-f, --foo FOO" for an
// option and its metavar for a positional
func (r *DefaultRenderer) Invocation(a *Argument) string {
	if a.isPositional() {
		return r.ArgumentValues(a)
	}
	flags := strings.Join(a.Flags, ", ")
	if values := r.ArgumentValues(a); values != "" {
		return flags + " " + values
	}
	return flags
}

// ArgumentUsage is the usage-line form of an argument: the first option
// string with its values, bracketed unless required
func (r *DefaultRenderer) ArgumentUsage(a *Argument, inGroup bool) string {
	var part string
	if a.isPositional() {
		part = r.ArgumentValues(a)
	} else {
		part = a.Flags[0]
		if values := r.ArgumentValues(a); values != "" {
			part += " " + values
		}
		if !a.Required && !inGroup {
			part = "[" + part + "]"
		}
	}
	return part
}

// ArgumentHelp returns the help text of a with "%(default)s" and "%(prog)s"
// expanded. A "[default: X]" note is appended when a has a default and the
// text does not already mention one; a trailing "[nodefault]" marker is
// dropped.
func (r *DefaultRenderer) ArgumentHelp(a *Argument) string {
	help := a.Help
	if a.hasDefault() && !strings.Contains(help, "[default: ") && !strings.Contains(help, "[nodefault") {
		sep := ""
		switch {
		case strings.Contains(help, "\n"):
			sep = "\n"
		case help != "":
			sep = " "
		}
		help += sep + "[default: %(default)s]"
	}

	trimmed := strings.TrimRight(help, " \t\n")
	if strings.HasSuffix(trimmed, "[nodefault]") {
		help = strings.TrimRight(strings.TrimSuffix(trimmed, "[nodefault]"), " \t\n")
	}

	return strings.NewReplacer(
		"%(default)s", formatDefault(a.Default),
		"%(prog)s", r.parser.Prog,
	).Replace(help)
}

// CommandInvocation names a sub-command and its aliases
func (r *DefaultRenderer) CommandInvocation(c *Command) string {
	if len(c.Aliases) == 0 {
		return c.Name
	}
	return c.Name + " (" + strings.Join(c.Aliases, ", ") + ")"
}

func formatDefault(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
