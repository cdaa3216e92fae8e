package nestopt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/types/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.codes = append(e.codes, code)
}

// newTestParser returns a parser writing to buffers, with a fixed help
// width, no colors, and errors returned instead of reported
func newTestParser(t *testing.T, opts ...ConfigureParserFunc) (*Parser, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []ConfigureParserFunc{
		WithProg("app"),
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithExitFunc(func(int) {}),
		WithExitOnError(false),
		WithColor(false),
		WithFormatterWidth(80),
	}
	p, err := NewParserWith(append(base, opts...)...)
	require.NoError(t, err)
	return p, &stdout, &stderr
}

func mustAdd(t *testing.T, p *Parser, arg *Argument, names ...string) *Argument {
	t.Helper()
	require.NoError(t, p.AddArgument(arg, names...))
	return arg
}

func valueAt(t *testing.T, ns *namespace.Namespace, dest string) any {
	t.Helper()
	v, ok := ns.Lookup(dest)
	require.True(t, ok, "%s missing from %s", dest, ns)
	return v
}

func TestNewParser_Defaults(t *testing.T) {
	p := NewParser()

	help, ok := p.GetOption("--help")
	require.True(t, ok)
	assert.Equal(t, []string{"-h", "--help"}, help.Flags)
	assert.Equal(t, ActionHelp, help.Action)
	assert.Equal(t, Suppress, help.Default)
	assert.Equal(t, 0, p.Level())
	assert.Nil(t, p.Parent())
	assert.NotNil(t, p.TypeRegistry())
}

func TestNewParserWith(t *testing.T) {
	p, err := NewParserWith(
		WithProg("app"),
		WithAddHelp("h,help+"),
		WithArgument(NewArg(WithType("int"), WithDefault(5432)), "--db.port"),
		WithArgument(NewArg(WithAction("count")), "-v", "--verbose"),
	)
	require.NoError(t, err)

	actions := p.Actions()
	require.Len(t, actions, 3)
	assert.Equal(t, []string{"-h", "--help+"}, actions[0].Flags, "help comes first")
	assert.Equal(t, "db.port", actions[1].Dest)
	assert.Equal(t, "verbose", actions[2].Dest)

	_, err = NewParserWith(WithArgument(NewArg(), "--x"), WithArgument(NewArg(), "--x"))
	assert.True(t, errors.Is(err, errs.ErrFlagAlreadyExists))

	_, err = NewParserWith(WithPrefixChars(""))
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
}

func TestAddArgument_DestDerivation(t *testing.T) {
	tests := []struct {
		name  string
		arg   *Argument
		names []string
		want  string
	}{
		{"long wins over short", NewArg(), []string{"-f", "--foo-bar"}, "foo_bar"},
		{"short only", NewArg(), []string{"-x"}, "x"},
		{"dotted keeps dashes", NewArg(), []string{"--db.pool-size"}, "db.pool-size"},
		{"ns uses first option", NewArg(WithAction("ns")), []string{"-c", "--config"}, "c"},
		{"explicit dest", NewArg(WithDest("target.name")), []string{"--name"}, "target.name"},
		{"positional", NewArg(), []string{"file"}, "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestParser(t)
			mustAdd(t, p, tt.arg, tt.names...)
			assert.Equal(t, tt.want, tt.arg.Dest)
		})
	}
}

func TestAddArgument_Routing(t *testing.T) {
	p, _, _ := newTestParser(t)

	host := mustAdd(t, p, NewArg(), "--db.host")
	db, ok := p.GetNamespace("db")
	require.True(t, ok, "first dotted argument creates its namespace")
	assert.Equal(t, "namespace <db>", db.Title)
	assert.Same(t, db, host.group)

	size := mustAdd(t, p, NewArg(), "--db.pool.size")
	assert.Same(t, db, size.group, "longest existing prefix is db")

	pool, err := p.AddNamespace("db.pool")
	require.NoError(t, err)
	poolMax := mustAdd(t, p, NewArg(), "--db.pool.max")
	assert.Same(t, pool, poolMax.group)

	cfg := mustAdd(t, p, NewArg(WithAction("ns")), "--cfg")
	cfgGroup, ok := p.GetNamespace("cfg")
	require.True(t, ok)
	assert.Same(t, cfgGroup, cfg.group)
	child := mustAdd(t, p, NewArg(), "--cfg.level")
	assert.Same(t, cfgGroup, child.group)

	required := mustAdd(t, p, NewArg(WithRequired(true)), "--name")
	assert.Same(t, p.requiredGroup, required.group)
	assert.Equal(t, -1, p.requiredGroup.Order)

	pos := mustAdd(t, p, NewArg(), "file")
	assert.Same(t, p.requiredGroup, pos.group, "positionals are required by default")
	opt := mustAdd(t, p, NewArg(WithNargs("?")), "extra")
	assert.False(t, opt.Required)
	assert.Same(t, p.positionalGroup, opt.group)

	plain := mustAdd(t, p, NewArg(), "--plain")
	assert.Same(t, p.optionalGroup, plain.group)
}

func TestAddArgument_Errors(t *testing.T) {
	t.Run("conflicting option string", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		mustAdd(t, p, NewArg(), "-x", "--xray")
		err := p.AddArgument(NewArg(), "--other", "-x")
		assert.True(t, errors.Is(err, errs.ErrFlagAlreadyExists))
		assert.Equal(t, "conflicting option string: -x", err.Error())
	})

	t.Run("unknown type", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg(WithType("nope")), "--x")
		assert.True(t, errors.Is(err, errs.ErrUnsupportedType))
		assert.Equal(t, "invalid type 'nope'", err.Error())
	})

	t.Run("nargs with a flag action", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg(WithAction("store_true"), WithNargs(1)), "--x")
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("zero nargs", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg(WithNargs(0)), "--x")
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("missing prefix", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg(), "--x", "y")
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("positional dest supplied twice", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg(WithDest("other")), "file")
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("no names", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg())
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("unknown action through Set", func(t *testing.T) {
		arg := &Argument{}
		err := arg.Set(WithAction("bogus"))
		assert.True(t, errors.Is(err, errs.ErrUnknownAction))
	})

	t.Run("unknown action through NewArg", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		declared := len(p.actions)
		err := p.AddArgument(NewArg(WithAction("clear_apend"), WithHelp("typo")), "--foo")
		assert.True(t, errors.Is(err, errs.ErrUnknownAction))
		_, exists := p.optionStrings["--foo"]
		assert.False(t, exists)
		assert.Len(t, p.actions, declared)
	})

	t.Run("invalid nargs through NewArg", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		err := p.AddArgument(NewArg(WithNargs(-1)), "--foo")
		assert.True(t, errors.Is(err, errs.ErrInvalidNargs))
	})

	t.Run("failed declaration leaves dest untouched", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		mustAdd(t, p, NewArg(), "-x")

		arg := NewArg(WithType("nope"))
		require.Error(t, p.AddArgument(arg, "--db.host"))
		assert.Empty(t, arg.Dest)
		assert.Empty(t, arg.Flags)

		arg = NewArg()
		require.Error(t, p.AddArgument(arg, "--other", "-x"))
		assert.Empty(t, arg.Dest)

		_, ok := p.GetNamespace("db")
		assert.False(t, ok)
		require.NoError(t, p.AddArgument(arg, "--other"))
		assert.Equal(t, "other", arg.Dest)
	})
}

func TestAddNamespace_Exists(t *testing.T) {
	p, _, _ := newTestParser(t)
	g, err := p.AddNamespace("db", WithGroupTitle("Database"))
	require.NoError(t, err)

	_, err = p.AddNamespace("db", WithGroupTitle("Other"))
	assert.True(t, errors.Is(err, errs.ErrNamespaceExists))
	assert.Equal(t, "namespace 'db' already exists", err.Error())

	got, ok := p.GetNamespace("db")
	require.True(t, ok)
	assert.Same(t, g, got)
	assert.Equal(t, "Database", got.Title)
}

func TestNewChild_Inheritance(t *testing.T) {
	p, _, _ := newTestParser(t, WithPrefixChars("-+"), WithExitOnVoid(true), WithAllowAbbrev(false))
	child, err := p.AddCommand("run")
	require.NoError(t, err)

	assert.Equal(t, 1, child.Level())
	assert.Same(t, p, child.Parent())
	assert.Equal(t, "app run", child.Prog)
	assert.Equal(t, "-+", child.prefixChars)
	assert.False(t, child.allowAbbrev)
	assert.False(t, child.exitOnError)
	assert.False(t, child.exitOnVoid, "the void policy applies to the top level only")
	assert.Same(t, p.TypeRegistry(), child.TypeRegistry())
	assert.Same(t, p.stdout, child.stdout)
}
