package nestopt

import (
	"strconv"
	"strings"

	"github.com/napalu/nestopt/errs"
)

type nargsKind int

const (
	nargsDefault nargsKind = iota
	nargsExact
	nargsOptional
	nargsZeroOrMore
	nargsOneOrMore
	nargsRemainder
	nargsParser
	nargsZero
)

// Nargs tells how many command-line tokens an argument consumes. The zero
// value consumes exactly one token and stores it as a scalar.
type Nargs struct {
	kind nargsKind
	n    int
}

var (
	NargsSingle     = Nargs{}
	NargsOptional   = Nargs{kind: nargsOptional}
	NargsZeroOrMore = Nargs{kind: nargsZeroOrMore}
	NargsOneOrMore  = Nargs{kind: nargsOneOrMore}
	NargsRemainder  = Nargs{kind: nargsRemainder}
	NargsParser     = Nargs{kind: nargsParser}
	nargsNone       = Nargs{kind: nargsZero}
)

// NargsN consumes exactly n tokens and stores them as a list
func NargsN(n int) Nargs {
	return Nargs{kind: nargsExact, n: n}
}

// ParseNargs accepts an int, or one of "?", "*", "+", "...", "A..." as
// written in configuration files. A numeric string is read as NargsN.
func ParseNargs(v any) (Nargs, error) {
	switch t := v.(type) {
	case nil:
		return NargsSingle, nil
	case Nargs:
		return t, nil
	case int:
		if t < 0 {
			return NargsSingle, errs.ErrInvalidNargs.WithArgs(v)
		}
		return NargsN(t), nil
	case int64:
		return ParseNargs(int(t))
	case float64:
		if t != float64(int(t)) {
			return NargsSingle, errs.ErrInvalidNargs.WithArgs(v)
		}
		return ParseNargs(int(t))
	case string:
		switch strings.TrimSpace(t) {
		case "?":
			return NargsOptional, nil
		case "*":
			return NargsZeroOrMore, nil
		case "+":
			return NargsOneOrMore, nil
		case "...":
			return NargsRemainder, nil
		case "A...":
			return NargsParser, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return ParseNargs(n)
		}
	}
	return NargsSingle, errs.ErrInvalidNargs.WithArgs(v)
}

// IsSet reports whether nargs was given explicitly
func (n Nargs) IsSet() bool {
	return n.kind != nargsDefault
}

// Count returns the exact count of a NargsN value and false for the others
func (n Nargs) Count() (int, bool) {
	return n.n, n.kind == nargsExact
}

func (n Nargs) String() string {
	switch n.kind {
	case nargsExact:
		return strconv.Itoa(n.n)
	case nargsOptional:
		return "?"
	case nargsZeroOrMore:
		return "*"
	case nargsOneOrMore:
		return "+"
	case nargsRemainder:
		return "..."
	case nargsParser:
		return "A..."
	case nargsZero:
		return "0"
	}
	return ""
}

// pattern returns the regular expression matching the consumed part of an
// argument pattern string ('A' argument, 'O' option, '-' for "--").
// Optionals never consume across "--" or option markers.
func (n Nargs) pattern(optional bool) string {
	var p string
	switch n.kind {
	case nargsDefault:
		p = "(-*A-*)"
	case nargsOptional:
		p = "(-*A?-*)"
	case nargsZeroOrMore:
		p = "(-*[A-]*)"
	case nargsOneOrMore:
		p = "(-*A[A-]*)"
	case nargsRemainder:
		p = "([-AO]*)"
	case nargsParser:
		p = "(-*A[-AO]*)"
	case nargsZero:
		p = "(-*-*)"
	case nargsExact:
		p = "(-*" + strings.Repeat("A-*", n.n) + ")"
		if n.n == 0 {
			p = "(-*-*)"
		}
	}
	if optional {
		p = strings.ReplaceAll(p, "-*", "")
		p = strings.ReplaceAll(p, "-", "")
	}
	return p
}
