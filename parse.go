package nestopt

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/napalu/nestopt/config"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/i18n"
	"github.com/napalu/nestopt/internal/messages"
	"github.com/napalu/nestopt/parse"
	"github.com/napalu/nestopt/types/namespace"
)

// Parse parses os.Args[1:]
func (p *Parser) Parse(opts ...ConfigureParseFunc) (*namespace.Namespace, error) {
	return p.ParseArgs(os.Args[1:], opts...)
}

// ParseArgs parses args and fails on any argument it does not recognize
func (p *Parser) ParseArgs(args []string, opts ...ConfigureParseFunc) (*namespace.Namespace, error) {
	ns := namespace.New()
	extras, err := p.parseKnownArgs(ns, args, collectParseOptions(opts))
	if err != nil {
		return nil, p.fail(err)
	}
	if len(extras) > 0 {
		return nil, p.fail(errs.ErrUnrecognizedArguments.WithArgs(strings.Join(extras, " ")))
	}
	return ns, nil
}

// ParseString splits s like a POSIX shell and parses the result
func (p *Parser) ParseString(s string, opts ...ConfigureParseFunc) (*namespace.Namespace, error) {
	args, err := parse.Split(s)
	if err != nil {
		return nil, p.fail(err)
	}
	return p.ParseArgs(args, opts...)
}

// ParseKnownArgs parses args and returns the arguments it did not
// recognize instead of failing on them
func (p *Parser) ParseKnownArgs(args []string, opts ...ConfigureParseFunc) (*namespace.Namespace, []string, error) {
	return p.ParseKnownArgsInto(namespace.New(), args, opts...)
}

// ParseKnownArgsInto is ParseKnownArgs writing into an existing namespace.
// Values already in ns win over declared defaults.
func (p *Parser) ParseKnownArgsInto(ns *namespace.Namespace, args []string, opts ...ConfigureParseFunc) (*namespace.Namespace, []string, error) {
	if ns == nil {
		ns = namespace.New()
	}
	extras, err := p.parseKnownArgs(ns, args, collectParseOptions(opts))
	if err != nil {
		return nil, nil, p.fail(err)
	}
	return ns, extras, nil
}

func collectParseOptions(opts []ConfigureParseFunc) parseOptions {
	o := defaultParseOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// parseKnownArgs runs one parse without reporting errors:
//
//  1. the pre-parse hook
//  2. @file configuration references seed defaults and leave the stream
//  3. dotted defaults are written, then the grammar consumes the stream
//  4. the void policy is checked
func (p *Parser) parseKnownArgs(ns *namespace.Namespace, args []string, o parseOptions) ([]string, error) {
	args = append([]string(nil), args...)

	if p.preParse != nil {
		replaced, err := p.preParse(p, args, ns)
		if err != nil {
			return nil, errs.ErrPreParse.Wrap(err)
		}
		if replaced != nil {
			args = replaced
		}
	}

	var files, stream []string
	for _, arg := range args {
		if !p.isFromFileRef(arg) || strings.HasSuffix(arg, ".txt") {
			stream = append(stream, arg)
			continue
		}
		if o.fromFileKeep {
			files = append(files, arg)
		}
		if o.fromFileParse {
			_, size := utf8.DecodeRuneInString(arg)
			if err := p.loadConfigDefaults(arg[size:]); err != nil {
				return nil, err
			}
		}
	}

	for _, a := range p.actions {
		if !a.isDotted() || a.Default == Suppress || ns.HasPath(a.Dest) {
			continue
		}
		if err := ns.SetPath(a.Dest, a.defaultValue()); err != nil {
			return nil, err
		}
	}

	extras, err := p.consume(ns, stream)
	if err != nil {
		return nil, err
	}

	leftovers := append(files, extras...)
	if len(leftovers) == 0 && len(args) == 0 && p.exitOnVoid {
		return nil, errs.ErrVoidInput
	}
	return leftovers, nil
}

func (p *Parser) isFromFileRef(arg string) bool {
	if p.fromFilePrefixChars == "" || arg == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(arg)
	return strings.ContainsRune(p.fromFilePrefixChars, r)
}

func (p *Parser) loadConfigDefaults(conf string) error {
	m, err := config.Load(conf)
	if err != nil {
		return errs.ErrConfigLoad.WithArgs(conf).Wrap(err)
	}
	p.logger.Debug("configuration loaded", "source", conf, "keys", len(m))
	p.applyDefaults(m, true)
	return nil
}

// defaultValue is the value an unseen argument starts with. A mapping
// default of an ns action becomes a namespace of its own.
func (a *Argument) defaultValue() any {
	if m, ok := a.Default.(map[string]any); ok && a.Action == ActionNamespace {
		return namespace.FromMap(m)
	}
	return a.Default
}

// fail is the single exit path of parse errors. Help and version requests
// are returned untouched; everything else is reported on stderr with the
// usage of the parser that raised it, followed by exit status 2, when
// ExitOnError is set.
func (p *Parser) fail(err error) error {
	if errors.Is(err, errs.ErrHelpShown) || errors.Is(err, errs.ErrVersionShown) {
		return err
	}

	reporter := p
	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		reporter = cmdErr.parser
		err = cmdErr.err
	}
	if !p.exitOnError {
		return err
	}

	reporter.PrintUsage(reporter.stderr)
	fmt.Fprintf(reporter.stderr, "%s: %s: %s\n", reporter.Prog, i18n.Default().T(messages.MsgErrorKey), err)
	reporter.exitFunc(2)
	return err
}
