// Command nestopt builds a parser from configuration files, parses the
// remaining arguments with it and prints the resulting namespace.
//
//	nestopt -s app.yaml -- --db.port 5432 run --workers 4
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/napalu/nestopt"
	"github.com/napalu/nestopt/errs"
	"github.com/napalu/nestopt/internal/util"
	"gopkg.in/yaml.v3"
)

func main() {
	driver, err := nestopt.NewParserWith(
		nestopt.WithProg("nestopt"),
		nestopt.WithDescription("Builds a parser from the given specs and parses ARGS with it."),
		nestopt.WithArgument(nestopt.NewArg(
			nestopt.WithAction("append"),
			nestopt.WithRequired(true),
			nestopt.WithMetavar("FILE"),
			nestopt.WithHelp("parser specification (toml, yaml, json); repeat to merge"),
		), "-s", "--spec"),
		nestopt.WithArgument(nestopt.NewArg(
			nestopt.WithChoices("json", "yaml"),
			nestopt.WithDefault("json"),
			nestopt.WithHelp("output format"),
		), "-o", "--output"),
		nestopt.WithArgument(nestopt.NewArg(
			nestopt.WithAction("store_true"),
			nestopt.WithHelp("log parser events to stderr"),
		), "-v", "--verbose"),
		nestopt.WithArgument(nestopt.NewArg(
			nestopt.WithNargs("..."),
			nestopt.WithMetavar("ARGS"),
		), "args"),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts, err := driver.Parse()
	if err != nil {
		if errors.Is(err, errs.ErrHelpShown) {
			return
		}
		os.Exit(2)
	}

	var logger *slog.Logger
	if verbose, _ := opts.Get("verbose"); verbose == true {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.DiscardHandler)
	}

	specs, _ := opts.Get("spec")
	files, _ := util.CopyToAny(specs)
	parser, err := nestopt.FromConfigs(files...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	parser.SetLogger(logger)

	var args []string
	rest, _ := opts.Get("args")
	items, _ := util.CopyToAny(rest)
	for _, a := range items {
		args = append(args, fmt.Sprint(a))
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	logger.Debug("parsing", "specs", specs, "args", args)

	ns, err := parser.ParseArgs(args)
	if err != nil {
		os.Exit(2)
	}

	var out []byte
	if format, _ := opts.Get("output"); format == "yaml" {
		out, err = yaml.Marshal(ns.ToMap())
	} else {
		out, err = json.MarshalIndent(ns, "", "  ")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
