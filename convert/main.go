package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	lzt "github.com/lorenzetti/lzt_go/pkg"
	"github.com/lorenzetti/lzt_go/pkg/h5"
)

type options struct {
	InputFiles     lzt.StringListFlag
	OutputFile     string
	NumberOfEvents int
	MonitoringFile string
	PlotsDir       string
	OutputLevel    string
	ConfigFile     string
}

func parseArgs(args []string, out io.Writer) (*options, error) {
	opts := &options{}
	fs := lzt.NewFlagSet("convert", "Convert ESD files into feature and cell arrays.", out)

	fs.Var(&opts.InputFiles, "inputFile", "The input ESD files.")
	lzt.Alias(fs, "inputFile", "i")
	fs.StringVar(&opts.OutputFile, "outputfile", "", "The output file (.npz, or .h5 for HDF5).")
	lzt.Alias(fs, "outputfile", "o")
	fs.IntVar(&opts.NumberOfEvents, "nov", -1, "The number of events to convert (default is all).")
	lzt.Alias(fs, "nov", "n")
	fs.StringVar(&opts.MonitoringFile, "monitoring", "", "ROOT file for the control histograms.")
	fs.StringVar(&opts.PlotsDir, "plots", "", "Directory for PNG plots of the control histograms.")
	fs.StringVar(&opts.OutputLevel, "outputLevel", "INFO", "The output level messenger.")
	fs.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")

	if err := lzt.ParseCommandLine(fs, args); err != nil {
		return nil, err
	}
	// positional arguments are input files too, "-i a.root b.root -o out.npz"
	// keeps parsing the flags that follow them
	for rest := fs.Args(); len(rest) > 0; rest = fs.Args() {
		opts.InputFiles.Values = append(opts.InputFiles.Values, rest[0])
		if err := fs.Parse(rest[1:]); err != nil {
			return nil, err
		}
	}
	if len(opts.InputFiles.Values) == 0 {
		return nil, &lzt.ErrMissingFlag{Flag: "-i/--inputFile"}
	}
	if err := lzt.Required(fs, []string{"o", "outputfile"}); err != nil {
		return nil, err
	}
	return opts, nil
}

func newArrayWriter(filename string, compression int) (lzt.ArrayWriter, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".h5", ".hdf5":
		return h5.NewWriter(filename, compression)
	default:
		return lzt.NewNpzWriter(filename, compression)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseArgs(args, out)
	if err != nil {
		return err
	}
	level, err := lzt.ParseLoggingLevel(opts.OutputLevel)
	if err != nil {
		return err
	}
	config, err := lzt.Setup(opts.ConfigFile, level)
	if err != nil {
		return fmt.Errorf("error reading configuration: %w", err)
	}

	converter := lzt.NewConverter("Converter")
	var monitor *lzt.Monitor
	if opts.MonitoringFile != "" || opts.PlotsDir != "" {
		monitor = lzt.NewMonitor()
		converter.WithMonitor(monitor)
	}
	if err := converter.Initialize(); err != nil {
		return err
	}

	loop := lzt.NewEventLoop(opts.InputFiles.Values, opts.NumberOfEvents)
	if _, err := loop.Run(converter); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w, err := newArrayWriter(opts.OutputFile, config.CompressionLevel)
	if err != nil {
		return err
	}
	if err := converter.Finalize(w); err != nil {
		return err
	}

	if monitor != nil && opts.MonitoringFile != "" {
		if err := monitor.WriteROOT(opts.MonitoringFile); err != nil {
			return err
		}
	}
	if monitor != nil && opts.PlotsDir != "" {
		if err := monitor.SavePlots(opts.PlotsDir); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(lzt.ExitCode(os.Stdout, err))
}
