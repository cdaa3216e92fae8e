package nestopt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHelp(t *testing.T) {
	p, _, _ := newTestParser(t, WithDescription("Does things."))
	mustAdd(t, p, NewArg(WithAction("count"), WithHelp("more output")), "-v", "--verbose")
	mustAdd(t, p, NewArg(WithDefault("bob"), WithHelp("the name")), "--name")
	mustAdd(t, p, NewArg(WithHelp("input file")), "file")

	want := `Usage: app [-h] [-v] [--name NAME] file

Does things.

Required arguments:
  file           input file

Options:
  -h, --help     show this help message and exit
  -v, --verbose  more output
  --name NAME    the name [default: bob]
`
	assert.Equal(t, want, p.FormatHelp(false))
}

func TestFormatHelp_HiddenItems(t *testing.T) {
	build := func(t *testing.T, addHelp string) (*Parser, func(args ...string) string) {
		p, stdout, _ := newTestParser(t, WithAddHelp(addHelp))
		mustAdd(t, p, NewArg(), "--visible")
		mustAdd(t, p, NewArg(WithHidden(true)), "--secret")
		internal, err := p.AddArgumentGroup("internal", WithGroupShow(false))
		require.NoError(t, err)
		require.NoError(t, internal.AddArgument(NewArg(), "--debug"))

		return p, func(args ...string) string {
			stdout.Reset()
			_, _ = p.ParseArgs(args)
			return stdout.String()
		}
	}

	t.Run("plus variant", func(t *testing.T) {
		p, help := build(t, "h,help+")

		compact := p.FormatHelp(false)
		assert.Contains(t, compact, "--visible")
		assert.NotContains(t, compact, "--secret")
		assert.NotContains(t, compact, "--debug")
		assert.NotContains(t, compact, "Internal:")
		assert.Contains(t, compact, "-h, --help+")
		assert.Contains(t, compact, "(with + for more options)")

		full := p.FormatHelp(true)
		assert.Contains(t, full, "[--secret SECRET]")
		assert.Contains(t, full, "Internal:\n  --debug DEBUG")

		assert.Equal(t, compact, help("-h"))
		assert.Equal(t, full, help("--help+"))
	})

	t.Run("no plus variant shows everything", func(t *testing.T) {
		_, help := build(t, "true")
		out := help("--help")
		assert.Contains(t, out, "--secret")
		assert.Contains(t, out, "--debug")
	})
}

func TestFormatHelp_SectionOrder(t *testing.T) {
	p, _, _ := newTestParser(t)
	mustAdd(t, p, NewArg(), "--db.host")
	late, err := p.AddArgumentGroup("late", WithGroupOrder(5))
	require.NoError(t, err)
	require.NoError(t, late.AddArgument(NewArg(), "--late"))
	early, err := p.AddArgumentGroup("early", WithGroupOrder(-5), WithGroupDescription("Read first."))
	require.NoError(t, err)
	require.NoError(t, early.AddArgument(NewArg(), "--early"))

	out := p.FormatHelp(false)
	titles := []string{"Early:\n  Read first.\n\n", "Namespace <db>:", "Options:", "Late:"}
	last := -1
	for _, title := range titles {
		idx := strings.Index(out, title)
		require.GreaterOrEqual(t, idx, 0, "%q missing from\n%s", title, out)
		assert.Greater(t, idx, last, "%q out of order in\n%s", title, out)
		last = idx
	}
	assert.NotContains(t, out, "Positional arguments:", "empty sections are skipped")
	assert.NotContains(t, out, "Required arguments:")
}

func TestFormatHelp_Commands(t *testing.T) {
	p, _, _ := newTestParser(t)
	_, err := p.AddCommand("run", WithCommandHelp("Run it"), WithAliases("r"))
	require.NoError(t, err)
	_, err = p.AddCommand("secret", WithCommandHidden(true))
	require.NoError(t, err)

	compact := p.FormatHelp(false)
	assert.Contains(t, compact, "Subcommands:\n    run (r)   Run it\n")
	assert.NotContains(t, compact, "    secret")

	full := p.FormatHelp(true)
	assert.Contains(t, full, "    secret    The secret command\n")
}

func TestFormatUsage(t *testing.T) {
	t.Run("mutually exclusive groups", func(t *testing.T) {
		p, _, _ := newTestParser(t)
		g := p.AddMutuallyExclusiveGroup(false)
		require.NoError(t, g.AddArgument(NewArg(WithAction("store_true")), "-a"))
		require.NoError(t, g.AddArgument(NewArg(WithAction("store_true")), "-b"))
		req := p.AddMutuallyExclusiveGroup(true)
		require.NoError(t, req.AddArgument(NewArg(), "-x"))
		require.NoError(t, req.AddArgument(NewArg(), "-y"))

		assert.Equal(t, "Usage: app [-h] [-a | -b] (-x X | -y Y)\n", p.FormatUsage(false))
	})

	t.Run("wraps", func(t *testing.T) {
		p, _, _ := newTestParser(t, WithFormatterWidth(30))
		mustAdd(t, p, NewArg(), "--alpha")
		mustAdd(t, p, NewArg(), "--beta")
		mustAdd(t, p, NewArg(), "--gamma")

		want := "Usage: app [-h]\n" +
			"           [--alpha ALPHA]\n" +
			"           [--beta BETA]\n" +
			"           [--gamma GAMMA]\n"
		assert.Equal(t, want, p.FormatUsage(false))
	})

	t.Run("custom usage", func(t *testing.T) {
		p, _, _ := newTestParser(t, WithUsage("%(prog)s [options] FILE"), WithEpilog("See %(prog)s docs."))
		assert.Equal(t, "Usage: app [options] FILE\n", p.FormatUsage(false))
		assert.True(t, strings.HasSuffix(p.FormatHelp(false), "\nSee app docs.\n"))
	})

	t.Run("color", func(t *testing.T) {
		p, _, _ := newTestParser(t, WithColor(true))
		assert.True(t, strings.HasPrefix(p.FormatUsage(false), "\x1b[1;4mUsage"))

		p, _, _ = newTestParser(t)
		assert.NotContains(t, p.FormatHelp(false), "\x1b[")
	})
}

func TestRenderer(t *testing.T) {
	p, _, _ := newTestParser(t)
	r := NewRenderer(p)

	tests := []struct {
		name       string
		arg        *Argument
		names      []string
		metavar    string
		invocation string
	}{
		{"last dotted segment", NewArg(), []string{"--db.pool-size"}, "POOL_SIZE", "--db.pool-size POOL_SIZE"},
		{"explicit metavar", NewArg(WithMetavar("conn.url")), []string{"-u", "--url"}, "url", "-u, --url url"},
		{"choices", NewArg(WithChoices("x", "y")), []string{"--pick"}, "{x,y}", "--pick {x,y}"},
		{"positional", NewArg(), []string{"job.name"}, "name", "name"},
		{"one or more", NewArg(WithNargs("+")), []string{"--files"}, "FILES", "--files FILES [FILES ...]"},
		{"exact", NewArg(WithNargs(2)), []string{"--pt"}, "PT", "--pt PT PT"},
		{"optional", NewArg(WithNargs("?")), []string{"--o"}, "O", "--o [O]"},
		{"zero or more", NewArg(WithNargs("*")), []string{"--m"}, "M", "--m [M ...]"},
		{"flag", NewArg(WithAction("store_true")), []string{"-q", "--quiet"}, "QUIET", "-q, --quiet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustAdd(t, p, tt.arg, tt.names...)
			assert.Equal(t, tt.metavar, r.Metavar(tt.arg))
			assert.Equal(t, tt.invocation, r.Invocation(tt.arg))
		})
	}
}

func TestRenderer_ArgumentHelp(t *testing.T) {
	p, _, _ := newTestParser(t)
	r := NewRenderer(p)

	tests := []struct {
		name string
		arg  *Argument
		want string
	}{
		{"no default", NewArg(WithHelp("plain")), "plain"},
		{"appended", NewArg(WithHelp("port"), WithDefault(5432)), "port [default: 5432]"},
		{"only annotation", NewArg(WithDefault(3)), "[default: 3]"},
		{"multiline", NewArg(WithHelp("one\ntwo"), WithDefault(1)), "one\ntwo\n[default: 1]"},
		{"explicit default note", NewArg(WithHelp("x [default: custom]"), WithDefault(1)), "x [default: custom]"},
		{"nodefault", NewArg(WithHelp("secret [nodefault]"), WithDefault("pw")), "secret"},
		{"substitutions", NewArg(WithHelp("%(prog)s uses %(default)s"), WithDefault("z")), "app uses z [default: z]"},
		{"none default", NewArg(WithHelp("flag"), WithAction("store_true")), "flag [default: false]"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustAdd(t, p, tt.arg, "--opt"+string(rune('a'+i)))
			assert.Equal(t, tt.want, r.ArgumentHelp(tt.arg))
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "short text", 20, []string{"short text"}},
		{"wraps", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"keeps indentation", "  indented text here", 10, []string{"  indented", "  text", "  here"}},
		{"bullets hang", "- one two three", 9, []string{"- one two", "  three"}},
		{"blank lines", "a\n\nb", 10, []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width, ""))
		})
	}
}
