package nestopt

import (
	"bufio"
	"bytes"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/parse"
	"github.com/napalu/nestopt/types/namespace"
	"github.com/napalu/nestopt/types/queue"
)

// The grammar classifies every token as 'O' (an option string), 'A' (an
// argument) or '-' (the first "--", after which everything is 'A') and
// matches nargs patterns against that string to decide how many tokens
// each argument consumes.

// run holds the state of one parse over one parser
type run struct {
	ns             *namespace.Namespace
	fired          map[*Argument]bool
	seen           map[*Argument]bool
	seenNonDefault map[*Argument]bool
	extras         []string
}

func newRun(ns *namespace.Namespace) *run {
	return &run{
		ns:             ns,
		fired:          map[*Argument]bool{},
		seen:           map[*Argument]bool{},
		seenNonDefault: map[*Argument]bool{},
	}
}

type optionMatch struct {
	// arg is nil for an option string no argument declares
	arg         *Argument
	option      string
	sep         string
	explicit    string
	hasExplicit bool
}

type pendingAction struct {
	arg    *Argument
	args   []string
	option string
}

var patternCache sync.Map

func compilePattern(expr string) *regexp.Regexp {
	if re, ok := patternCache.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile("^" + expr)
	patternCache.Store(expr, re)
	return re
}

// consume applies args to ns and returns the tokens nothing consumed
func (p *Parser) consume(ns *namespace.Namespace, args []string) ([]string, error) {
	r := newRun(ns)

	for _, a := range p.actions {
		if a.isDotted() || a.Default == Suppress || ns.Has(a.Dest) {
			continue
		}
		ns.Set(a.Dest, a.defaultValue())
	}

	args, err := p.expandArgumentFiles(args)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	optionAt := map[int]optionMatch{}
	var optionIndices []int
	state := parse.NewState(args)
	for state.Advance() {
		if state.CurrentArg() == "--" {
			b.WriteByte('-')
			b.WriteString(strings.Repeat("A", len(state.Remaining())))
			break
		}
		m, ok, err := p.parseOptional(state.CurrentArg())
		if err != nil {
			return nil, err
		}
		if !ok {
			b.WriteByte('A')
			continue
		}
		optionAt[state.Pos()] = m
		optionIndices = append(optionIndices, state.Pos())
		b.WriteByte('O')
	}
	patterns := b.String()

	conflicts := p.mutexConflicts()
	takeAction := func(a *Argument, argStrings []string, option string) error {
		r.seen[a] = true
		value, isDefault, err := p.getValues(a, argStrings)
		if err != nil {
			return err
		}
		if !isDefault {
			r.seenNonDefault[a] = true
			for _, other := range conflicts[a] {
				if r.seenNonDefault[other] {
					return errs.ErrNotAllowedWith.WithArgs(a.displayName(), other.displayName())
				}
			}
		}
		if value == Suppress {
			return nil
		}
		return dispatch(&actionCall{p: p, run: r, arg: a, value: value, option: option})
	}

	consumeOptional := func(start int) (int, error) {
		m := optionAt[start]
		arg, option, sep, explicit, hasExplicit := m.arg, m.option, m.sep, m.explicit, m.hasExplicit
		var todo []pendingAction
		stop := start + 1

	loop:
		for {
			if arg == nil {
				r.extras = append(r.extras, args[start])
				return start + 1, nil
			}

			if !hasExplicit {
				begin := start + 1
				count, err := p.matchArgument(arg, patterns[begin:])
				if err != nil {
					return 0, err
				}
				stop = begin + count
				todo = append(todo, pendingAction{arg, args[begin:stop], option})
				break
			}

			count, err := p.matchArgument(arg, "A")
			if err != nil {
				return 0, err
			}
			switch {
			case count == 0 && len(option) > 1 && !p.isPrefixChar(option[1:]) && explicit != "":
				// stacked short options: -xyz is -x -y -z
				if sep != "" || p.isPrefixChar(explicit) {
					return 0, errs.ErrIgnoredExplicitArgument.WithArgs(arg.displayName(), explicit)
				}
				todo = append(todo, pendingAction{arg, nil, option})
				short := option[:1] + explicit[:1]
				next, ok := p.optionStrings[short]
				if !ok {
					r.extras = append(r.extras, option[:1]+explicit)
					stop = start + 1
					break loop
				}
				arg, option = next, short
				explicit = explicit[1:]
				switch {
				case explicit == "":
					sep, hasExplicit = "", false
				case explicit[0] == '=':
					sep, explicit = "=", explicit[1:]
				default:
					sep = ""
				}
			case count == 1:
				stop = start + 1
				todo = append(todo, pendingAction{arg, []string{explicit}, option})
				break loop
			default:
				return 0, errs.ErrIgnoredExplicitArgument.WithArgs(arg.displayName(), explicit)
			}
		}

		for _, t := range todo {
			if err := takeAction(t.arg, t.args, t.option); err != nil {
				return 0, err
			}
		}
		return stop, nil
	}

	positionals := p.positionals()
	consumePositionals := func(start int) (int, error) {
		counts := p.matchPartial(positionals, patterns[start:])
		for i, count := range counts {
			if err := takeAction(positionals[i], args[start:start+count], ""); err != nil {
				return 0, err
			}
			start += count
		}
		positionals = positionals[len(counts):]
		return start, nil
	}

	maxOption := -1
	if len(optionIndices) > 0 {
		maxOption = optionIndices[len(optionIndices)-1]
	}

	start := 0
	for start <= maxOption {
		next := optionIndices[sort.SearchInts(optionIndices, start)]
		if start != next {
			end, err := consumePositionals(start)
			if err != nil {
				return nil, err
			}
			if end > start {
				start = end
				continue
			}
		}
		if _, ok := optionAt[start]; !ok {
			r.extras = append(r.extras, args[start:next]...)
			start = next
		}
		if start, err = consumeOptional(start); err != nil {
			return nil, err
		}
	}

	stop, err := consumePositionals(start)
	if err != nil {
		return nil, err
	}
	r.extras = append(r.extras, args[stop:]...)

	if err := p.finish(r); err != nil {
		return nil, err
	}
	return r.extras, nil
}

// finish converts string defaults of unseen arguments and enforces
// required arguments and required mutually exclusive groups
func (p *Parser) finish(r *run) error {
	var missing []string
	for _, a := range p.actions {
		if r.seen[a] {
			continue
		}
		if a.Required {
			missing = append(missing, a.displayName())
			continue
		}
		if err := p.convertDefault(r.ns, a); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return errs.ErrRequiredArguments.WithArgs(strings.Join(missing, ", "))
	}

	for _, g := range p.mutexGroups {
		if !g.Required {
			continue
		}
		found := false
		names := make([]string, 0, len(g.members))
		for _, a := range g.members {
			if r.seenNonDefault[a] {
				found = true
				break
			}
			names = append(names, a.displayName())
		}
		if !found {
			return errs.ErrRequiredOneOf.WithArgs(strings.Join(names, " "))
		}
	}
	return nil
}

// convertDefault runs a string default still present in ns through the
// converter, so defaults and command-line values have the same types
func (p *Parser) convertDefault(ns *namespace.Namespace, a *Argument) error {
	def, ok := a.Default.(string)
	if !ok || a.Type == nil {
		return nil
	}
	cur, found := ns.Lookup(a.Dest)
	if s, isStr := cur.(string); !found || !isStr || s != def {
		return nil
	}
	v, err := p.getValue(a, def)
	if err != nil {
		return err
	}
	if m, isMap := v.(map[string]any); isMap && a.Action == ActionNamespace {
		v = namespace.FromMap(m)
	}
	return ns.SetPath(a.Dest, v)
}

func (p *Parser) mutexConflicts() map[*Argument][]*Argument {
	conflicts := map[*Argument][]*Argument{}
	for _, g := range p.mutexGroups {
		for i, a := range g.members {
			for j, other := range g.members {
				if i != j {
					conflicts[a] = append(conflicts[a], other)
				}
			}
		}
	}
	return conflicts
}

// parseOptional reports whether s is an option string and which argument
// it selects. Unknown option strings match with a nil argument.
func (p *Parser) parseOptional(s string) (optionMatch, bool, error) {
	if !p.isPrefixChar(s) {
		return optionMatch{}, false, nil
	}
	if a, ok := p.optionStrings[s]; ok {
		return optionMatch{arg: a, option: s}, true, nil
	}
	if len(s) == 1 {
		return optionMatch{}, false, nil
	}
	if opt, explicit, found := strings.Cut(s, "="); found {
		if a, ok := p.optionStrings[opt]; ok {
			return optionMatch{arg: a, option: opt, sep: "=", explicit: explicit, hasExplicit: true}, true, nil
		}
	}

	matches := p.optionPrefixMatches(s)
	if len(matches) > 1 {
		options := make([]string, len(matches))
		for i, m := range matches {
			options[i] = m.option
		}
		return optionMatch{}, false, errs.ErrAmbiguousOption.WithArgs(s, strings.Join(options, ", "))
	}
	if len(matches) == 1 {
		return matches[0], true, nil
	}

	if negativeNumber.MatchString(s) && !p.negativeNumbered {
		return optionMatch{}, false, nil
	}
	if strings.Contains(s, " ") {
		return optionMatch{}, false, nil
	}
	return optionMatch{option: s}, true, nil
}

// optionPrefixMatches finds abbreviated long options and short options
// followed by their value or further stacked short options
func (p *Parser) optionPrefixMatches(s string) []optionMatch {
	var out []optionMatch
	if p.isPrefixChar(s[1:]) {
		if !p.allowAbbrev {
			return nil
		}
		prefix, explicit, found := strings.Cut(s, "=")
		for _, o := range p.optionOrder {
			if strings.HasPrefix(o, prefix) {
				m := optionMatch{arg: p.optionStrings[o], option: o}
				if found {
					m.sep, m.explicit, m.hasExplicit = "=", explicit, true
				}
				out = append(out, m)
			}
		}
		return out
	}

	short, rest := s[:2], s[2:]
	for _, o := range p.optionOrder {
		switch {
		case o == short:
			out = append(out, optionMatch{arg: p.optionStrings[o], option: o, explicit: rest, hasExplicit: true})
		case p.allowAbbrev && strings.HasPrefix(o, s):
			out = append(out, optionMatch{arg: p.optionStrings[o], option: o})
		}
	}
	return out
}

func (p *Parser) matchArgument(a *Argument, patterns string) (int, error) {
	n := a.nargs()
	m := compilePattern(n.pattern(!a.isPositional())).FindStringSubmatch(patterns)
	if m != nil {
		return len(m[1]), nil
	}

	switch n.kind {
	case nargsDefault:
		return 0, errs.ErrExpectedOneArgument.WithArgs(a.displayName())
	case nargsExact:
		return 0, errs.ErrExpectedNArguments.WithArgs(a.displayName(), n.n)
	}
	return 0, errs.ErrExpectedAtLeastOneArgument.WithArgs(a.displayName())
}

// matchPartial matches as many leading positionals as possible and returns
// how many tokens each of them consumes
func (p *Parser) matchPartial(actions []*Argument, patterns string) []int {
	for i := len(actions); i > 0; i-- {
		var b strings.Builder
		for _, a := range actions[:i] {
			b.WriteString(a.nargs().pattern(false))
		}
		if m := compilePattern(b.String()).FindStringSubmatch(patterns); m != nil {
			counts := make([]int, 0, i)
			for _, group := range m[1:] {
				counts = append(counts, len(group))
			}
			return counts
		}
	}
	return nil
}

// getValues converts the tokens consumed by a. The second result reports
// whether the value is the declared default itself.
func (p *Parser) getValues(a *Argument, argStrings []string) (any, bool, error) {
	n := a.nargs()
	if n.kind != nargsParser && n.kind != nargsRemainder {
		argStrings = withoutFirst(argStrings, "--")
	}

	switch {
	case len(argStrings) == 0 && n.kind == nargsOptional:
		value, isDefault := a.Const, false
		if a.isPositional() {
			value, isDefault = a.Default, true
		}
		s, ok := value.(string)
		if !ok {
			return value, isDefault, nil
		}
		v, err := p.getValue(a, s)
		if err != nil {
			return nil, false, err
		}
		if err := p.checkValue(a, v); err != nil {
			return nil, false, err
		}
		return v, isDefault && a.Type == nil, nil

	case len(argStrings) == 0 && n.kind == nargsZeroOrMore && a.isPositional():
		if a.Default != nil {
			return a.Default, true, nil
		}
		return []any{}, false, nil

	case len(argStrings) == 1 && (n.kind == nargsDefault || n.kind == nargsOptional):
		v, err := p.getValue(a, argStrings[0])
		if err != nil {
			return nil, false, err
		}
		return v, false, p.checkValue(a, v)

	case n.kind == nargsParser:
		values := make([]any, len(argStrings))
		for i, s := range argStrings {
			values[i] = s
		}
		return values, false, nil

	case n.kind == nargsRemainder:
		values := make([]any, 0, len(argStrings))
		for _, s := range argStrings {
			v, err := p.getValue(a, s)
			if err != nil {
				return nil, false, err
			}
			values = append(values, v)
		}
		return values, false, nil
	}

	values := make([]any, 0, len(argStrings))
	for _, s := range argStrings {
		v, err := p.getValue(a, s)
		if err != nil {
			return nil, false, err
		}
		if err := p.checkValue(a, v); err != nil {
			return nil, false, err
		}
		values = append(values, v)
	}
	return values, false, nil
}

func (p *Parser) getValue(a *Argument, raw string) (any, error) {
	v, err := a.convert(raw)
	if err != nil {
		return nil, errs.ErrTypeConversion.WithArgs(a.displayName(), a.typeLabel(), raw)
	}
	return v, nil
}

func (p *Parser) checkValue(a *Argument, v any) error {
	if len(a.Choices) == 0 {
		return nil
	}
	for _, c := range a.Choices {
		if reflect.DeepEqual(c, v) {
			return nil
		}
	}
	return errs.ErrInvalidChoice.WithArgs(a.displayName(), v, quoteChoices(a.Choices))
}

func withoutFirst(items []string, drop string) []string {
	for i, s := range items {
		if s == drop {
			out := make([]string, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...)
		}
	}
	return items
}

// expandArgumentFiles replaces every @file token by the arguments read
// from the file, recursively
func (p *Parser) expandArgumentFiles(args []string) ([]string, error) {
	if p.fromFilePrefixChars == "" {
		return args, nil
	}

	work := queue.From(args...)
	out := make([]string, 0, len(args))
	for work.Len() > 0 {
		arg, _ := work.Dequeue()
		if !p.isFromFileRef(arg) {
			out = append(out, arg)
			continue
		}
		_, size := utf8.DecodeRuneInString(arg)
		lines, err := p.readArgumentFile(arg[size:])
		if err != nil {
			return nil, err
		}
		work.PushFront(lines...)
	}
	return out, nil
}

func (p *Parser) readArgumentFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ErrReadArgumentFile.WithArgs(path).Wrap(err)
	}

	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		args, err := p.lineSplitter(scanner.Text())
		if err != nil {
			return nil, errs.ErrReadArgumentFile.WithArgs(path).Wrap(err)
		}
		out = append(out, args...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.ErrReadArgumentFile.WithArgs(path).Wrap(err)
	}
	p.logger.Debug("argument file expanded", "path", path, "args", len(out))
	return out, nil
}
