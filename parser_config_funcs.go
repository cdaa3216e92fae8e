package nestopt

import (
	"io"
	"log/slog"
	"strings"

	"github.com/napalu/nestopt/convert"
	"github.com/napalu/nestopt/errs"
)

// NewParserWith allows initialization of Parser using option functions. The caller should always test for error on
// return because Parser will be nil when an error occurs during initialization.
//
// Configuration example:
//
//	parser, err := NewParserWith(
//		WithProg("app"),
//		WithAddHelp("h,help+"),
//		WithArgument(NewArg(WithType("int"), WithDefault(5432)), "--db.port"),
//		WithArgument(NewArg(WithAction("count")), "-v", "--verbose"))
func NewParserWith(configs ...ConfigureParserFunc) (*Parser, error) {
	p := newParser()

	var err error
	for _, config := range configs {
		config(p, &err)
		if err != nil {
			return nil, err
		}
	}
	if err = p.init(); err != nil {
		return nil, err
	}

	return p, nil
}

// WithArgument is a wrapper for AddArgument. Inside NewParserWith the
// argument is added once the help option exists.
func WithArgument(arg *Argument, names ...string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if !p.initialized {
			p.pending = append(p.pending, func() error { return p.AddArgument(arg, names...) })
			return
		}
		*err = p.AddArgument(arg, names...)
	}
}

func WithProg(prog string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.Prog = prog
	}
}

func WithDescription(description string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.Description = description
	}
}

func WithEpilog(epilog string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.Epilog = epilog
	}
}

// WithUsage replaces the generated usage line; "%(prog)s" is expanded
func WithUsage(usage string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.Usage = usage
	}
}

// WithPrefixChars sets the characters option strings start with (default "-")
func WithPrefixChars(chars string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if chars == "" {
			*err = errs.ErrInvalidConfig.WithArgs("prefix_chars must not be empty")
			return
		}
		p.prefixChars = chars
	}
}

// WithFromFilePrefixChars sets the characters marking @file references
// (default "@"). An empty string turns file references off.
func WithFromFilePrefixChars(chars string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.fromFilePrefixChars = chars
	}
}

// WithAddHelp sets the help option names as a comma-separated list, e.g.
// "h,help+". "true" means "h,help"; "" or "false" disables the help option.
func WithAddHelp(spec string) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		switch strings.TrimSpace(strings.ToLower(spec)) {
		case "true":
			p.addHelp = "h,help"
		case "false", "":
			p.addHelp = ""
		default:
			p.addHelp = spec
		}
	}
}

// WithAllowAbbrev allows unique prefixes of long options (default true)
func WithAllowAbbrev(allow bool) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.allowAbbrev = allow
	}
}

// WithExitOnError reports parse errors on stderr and exits with status 2
// (default true). When off, parse errors are only returned.
func WithExitOnError(exit bool) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.exitOnError = exit
	}
}

// WithExitOnVoid fails a parse given no arguments at all
func WithExitOnVoid(exit bool) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.exitOnVoid = exit
	}
}

// WithPreParse sets a hook run before each parse
func WithPreParse(fn PreParseFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.preParse = fn
	}
}

func WithStdout(w io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.stdout = w
	}
}

func WithStderr(w io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.stderr = w
	}
}

// WithExitFunc replaces os.Exit, mostly for tests. When it returns, the
// parse returns the error that triggered it.
func WithExitFunc(fn ExitFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.exitFunc = fn
	}
}

// WithLogger receives debug events of the parser; nil discards them
func WithLogger(logger *slog.Logger) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		p.logger = logger
	}
}

// WithTypeRegistry replaces the converters WithType resolves against
func WithTypeRegistry(registry *convert.Registry) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		if registry == nil {
			*err = errs.ErrInvalidConfig.WithArgs("nil type registry")
			return
		}
		p.types = registry
	}
}

// WithArgumentFileSplitter sets how lines of @file.txt argument files
// become arguments. The default keeps each line as one argument;
// parse.Split gives shell-like splitting.
func WithArgumentFileSplitter(fn ArgumentLineFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.lineSplitter = fn
	}
}

// WithFormatterWidth fixes the help width instead of sizing to the terminal
func WithFormatterWidth(width int) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.width = width
	}
}

// WithColor turns bold section titles on or off
func WithColor(enabled bool) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.color = enabled
	}
}

// WithFromFileParse loads @file configuration references (default true)
func WithFromFileParse(parse bool) ConfigureParseFunc {
	return func(o *parseOptions) {
		o.fromFileParse = parse
	}
}

// WithFromFileKeep returns @file configuration references with the
// unrecognized arguments (default false)
func WithFromFileKeep(keep bool) ConfigureParseFunc {
	return func(o *parseOptions) {
		o.fromFileKeep = keep
	}
}
