package lzt

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// ErrNoArguments is returned by ParseCommandLine when a command is run bare.
var ErrNoArguments = errors.New("no arguments given")

// NewFlagSet returns a flag set printing its usage to out.
func NewFlagSet(name, description string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "usage: %s [options]\n", name)
		if description != "" {
			fmt.Fprintf(out, "\n%s\n", description)
		}
		fmt.Fprintf(out, "\noptions:\n")
		fs.PrintDefaults()
	}
	return fs
}

// Alias registers aliases for an already defined flag.
func Alias(fs *flag.FlagSet, name string, aliases ...string) {
	f := fs.Lookup(name)
	if f == nil {
		panic("lzt: alias for undefined flag " + name)
	}
	for _, a := range aliases {
		fs.Var(f.Value, a, "alias for -"+name)
	}
}

// ParseCommandLine prints the usage and returns ErrNoArguments for an empty
// command line, otherwise it parses args.
func ParseCommandLine(fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		fs.Usage()
		return ErrNoArguments
	}
	return fs.Parse(args)
}

// Required checks that at least one name of every group was given.
func Required(fs *flag.FlagSet, groups ...[]string) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, group := range groups {
		found := false
		for _, name := range group {
			if set[name] {
				found = true
				break
			}
		}
		if !found {
			return &ErrMissingFlag{Flag: "-" + strings.Join(group, "/--")}
		}
	}
	return nil
}

// ExitCode maps the outcome of a command onto its process exit status.
// Errors are printed to out.
func ExitCode(out io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, ErrNoArguments):
		return 1
	default:
		fmt.Fprintln(out, err)
		return 1
	}
}

// Setup loads the configuration, installs the logger for level and prints
// the configuration when verbose.
func Setup(configFile string, level LoggingLevel) (Configuration, error) {
	config, err := LoadConfiguration(configFile)
	if err != nil {
		return config, err
	}
	config.Verbosity = max(config.Verbosity, level.Verbosity())
	SetConfiguration(config)

	slogLevel := level.SlogLevel()
	if slogLevel > slog.LevelInfo {
		// framework output is streamed at info level and must stay visible
		slogLevel = slog.LevelInfo
	}
	SetLogger(NewStdLogger(slogLevel))

	if config.Verbosity > 0 {
		PrintConfiguration(config, logger)
	}
	return config, nil
}

// IntListFlag collects integers given either repeatedly or comma separated.
type IntListFlag struct {
	Values []int
}

func (f *IntListFlag) Set(valueStr string) error {
	for _, s := range strings.Split(valueStr, ",") {
		value, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		f.Values = append(f.Values, value)
	}
	return nil
}

func (f *IntListFlag) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprint(f.Values)
}

// StringListFlag collects strings given repeatedly or comma separated.
type StringListFlag struct {
	Values []string
}

func (f *StringListFlag) Set(valueStr string) error {
	for _, s := range strings.Split(valueStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Values = append(f.Values, s)
		}
	}
	return nil
}

func (f *StringListFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.Values, ",")
}
