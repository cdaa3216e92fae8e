package nestopt

import (
	"fmt"
	"strings"

	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/internal/util"
	"github.com/napalu/nestopt/types/namespace"
)

// ActionKind selects how a matched argument combines its value with the
// namespace
type ActionKind int

const (
	ActionStore ActionKind = iota
	ActionStoreConst
	ActionStoreTrue
	ActionStoreFalse
	ActionAppend
	ActionAppendConst
	ActionCount
	ActionExtend
	ActionClearAppend
	ActionClearExtend
	ActionNamespace
	ActionParsers
	ActionHelp
	ActionVersion
)

var actionNames = [...]string{
	ActionStore:       "store",
	ActionStoreConst:  "store_const",
	ActionStoreTrue:   "store_true",
	ActionStoreFalse:  "store_false",
	ActionAppend:      "append",
	ActionAppendConst: "append_const",
	ActionCount:       "count",
	ActionExtend:      "extend",
	ActionClearAppend: "clear_append",
	ActionClearExtend: "clear_extend",
	ActionNamespace:   "ns",
	ActionParsers:     "parsers",
	ActionHelp:        "help",
	ActionVersion:     "version",
}

var actionAliases = map[string]ActionKind{
	"list":      ActionClearAppend,
	"namespace": ActionNamespace,
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
	return actionNames[k]
}

// ParseActionKind maps an action name, or one of its aliases, to its kind.
// The empty name is store.
func ParseActionKind(name string) (ActionKind, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ActionStore, nil
	}
	for i, n := range actionNames {
		if n == name {
			return ActionKind(i), nil
		}
	}
	if k, ok := actionAliases[name]; ok {
		return k, nil
	}
	return ActionStore, errs.ErrUnknownAction.WithArgs(name)
}

// takesNoValue reports kinds which never consume a token
func (k ActionKind) takesNoValue() bool {
	switch k {
	case ActionStoreConst, ActionStoreTrue, ActionStoreFalse, ActionAppendConst,
		ActionCount, ActionHelp, ActionVersion:
		return true
	}
	return false
}

type actionCall struct {
	p      *Parser
	run    *run
	arg    *Argument
	value  any
	option string
}

type applyFunc func(c *actionCall) error

// actionTable is filled in init since the parsers entry re-enters the parse
var actionTable [ActionVersion + 1]applyFunc

func init() {
	actionTable = [...]applyFunc{
		ActionStore:       applyStore,
		ActionStoreConst:  applyStoreConst,
		ActionStoreTrue:   applyStoreConst,
		ActionStoreFalse:  applyStoreConst,
		ActionAppend:      applyAppend,
		ActionAppendConst: applyAppendConst,
		ActionCount:       applyCount,
		ActionExtend:      applyExtend,
		ActionClearAppend: applyAppend,
		ActionClearExtend: applyExtend,
		ActionNamespace:   applyNamespace,
		ActionParsers:     applyParsers,
		ActionHelp:        applyHelp,
		ActionVersion:     applyVersion,
	}
}

func dispatch(c *actionCall) error {
	k := c.arg.Action
	if k < 0 || int(k) >= len(actionTable) {
		return errs.ErrUnknownAction.WithArgs(k.String())
	}
	return actionTable[k](c)
}

func (c *actionCall) target() (*namespace.Namespace, string, error) {
	return c.run.ns.Resolve(c.arg.Dest)
}

func applyStore(c *actionCall) error {
	node, key, err := c.target()
	if err != nil {
		return err
	}
	node.Set(key, c.value)
	return nil
}

func applyStoreConst(c *actionCall) error {
	node, key, err := c.target()
	if err != nil {
		return err
	}
	node.Set(key, c.arg.Const)
	return nil
}

func applyAppend(c *actionCall) error {
	return appendItems(c, []any{c.value})
}

func applyAppendConst(c *actionCall) error {
	return appendItems(c, []any{c.arg.Const})
}

func applyExtend(c *actionCall) error {
	items, ok := util.CopyToAny(c.value)
	if !ok {
		items = []any{c.value}
	}
	return appendItems(c, items)
}

// appendItems never appends to the stored sequence in place: the stored
// value may be the declared default.
func appendItems(c *actionCall, items []any) error {
	node, key, err := c.target()
	if err != nil {
		return err
	}

	var seq []any
	clearFirst := c.arg.Action == ActionClearAppend || c.arg.Action == ActionClearExtend
	if clearFirst && !c.run.fired[c.arg] {
		c.run.fired[c.arg] = true
	} else {
		existing, _ := node.Get(key)
		var ok bool
		if seq, ok = util.CopyToAny(existing); !ok {
			seq = []any{existing}
		}
	}

	node.Set(key, append(seq, items...))
	return nil
}

func applyCount(c *actionCall) error {
	node, key, err := c.target()
	if err != nil {
		return err
	}
	existing, _ := node.Get(key)
	if existing == nil {
		node.Set(key, 1)
		return nil
	}
	n, ok := util.AsInt(existing)
	if !ok {
		return errs.ErrNotCountable.WithArgs(c.arg.displayName(), existing)
	}
	node.Set(key, n+1)
	return nil
}

func applyNamespace(c *actionCall) error {
	value := c.value
	if s, ok := value.(string); ok {
		decoded, err := convert.JSON(s)
		if err != nil {
			return errs.ErrTypeConversion.WithArgs(c.arg.displayName(), "json", s)
		}
		value = decoded
	}

	var m map[string]any
	switch t := value.(type) {
	case map[string]any:
		m = t
	case *namespace.Namespace:
		m = t.ToMap()
	default:
		return errs.ErrExpectedObject.WithArgs(c.arg.displayName(), jsonKind(value))
	}

	node, key, err := c.target()
	if err != nil {
		return err
	}
	node.Merge(map[string]any{key: m})
	return nil
}

func applyParsers(c *actionCall) error {
	values, _ := c.value.([]any)
	if len(values) == 0 {
		return errs.ErrExpectedAtLeastOneArgument.WithArgs(c.arg.displayName())
	}
	name := fmt.Sprint(values[0])
	rest := make([]string, 0, len(values)-1)
	for _, v := range values[1:] {
		rest = append(rest, fmt.Sprint(v))
	}

	if err := applyStore(&actionCall{p: c.p, run: c.run, arg: c.arg, value: name}); err != nil {
		return err
	}

	sp := c.p.subparsers
	cmd, ok := sp.lookup(name)
	if !ok {
		return errs.ErrInvalidChoice.WithArgs(c.arg.displayName(), name, quoteChoices(sp.choices()))
	}

	c.p.logger.Debug("dispatching command", "command", cmd.Name, "level", cmd.Parser.level, "args", rest)
	sub := namespace.New()
	extras, err := cmd.Parser.parseKnownArgs(sub, rest, defaultParseOptions())
	if err != nil {
		return asCommandError(cmd.Parser, err)
	}
	for _, k := range sub.Keys() {
		v, _ := sub.Get(k)
		c.run.ns.Set(k, v)
	}
	c.run.extras = append(c.run.extras, extras...)
	return nil
}

func applyHelp(c *actionCall) error {
	c.p.PrintHelp(c.p.stdout, c.p.helpPlus(c.option))
	c.p.exitFunc(0)
	return errs.ErrHelpShown
}

func applyVersion(c *actionCall) error {
	version := strings.ReplaceAll(c.arg.Version, "%(prog)s", c.p.Prog)
	fmt.Fprintln(c.p.stdout, version)
	c.p.exitFunc(0)
	return errs.ErrVersionShown
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int64, float64:
		return "number"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// commandError ties an error to the sub-command parser that raised it, so
// the report shows that parser's usage line.
type commandError struct {
	parser *Parser
	err    error
}

func (e *commandError) Error() string { return e.err.Error() }

func (e *commandError) Unwrap() error { return e.err }

func asCommandError(p *Parser, err error) error {
	if _, ok := err.(*commandError); ok {
		return err
	}
	return &commandError{parser: p, err: err}
}
