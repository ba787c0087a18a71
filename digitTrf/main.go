package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

var newRunner = func(config lzt.Configuration) lzt.Runner {
	return lzt.NewExecRunner(config)
}

type options struct {
	InputFile      string
	OutputFile     string
	Debug          bool
	NumberOfEvents int
	OutputLevel    int
	ConfigFile     string
}

func parseArgs(args []string, out io.Writer) (*options, error) {
	opts := &options{}
	fs := lzt.NewFlagSet("digitTrf", "Digitize simulated hits into calorimeter cells.", out)

	fs.StringVar(&opts.InputFile, "inputFile", "", "The hit input file generated by the simulation.")
	lzt.Alias(fs, "inputFile", "i")
	fs.StringVar(&opts.OutputFile, "outputFile", "", "The ESD file with the digitized cells.")
	lzt.Alias(fs, "outputFile", "o")
	fs.BoolVar(&opts.Debug, "debug", false, "In debug mode.")
	lzt.Alias(fs, "debug", "d")
	fs.IntVar(&opts.NumberOfEvents, "numberOfEvents", -1, "The number of events to apply the reconstruction.")
	lzt.Alias(fs, "numberOfEvents", "evt")
	fs.IntVar(&opts.OutputLevel, "outputLevel", int(lzt.WARNING), "The output level messenger.")
	fs.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")

	if err := lzt.ParseCommandLine(fs, args); err != nil {
		return nil, err
	}
	if err := lzt.Required(fs, []string{"i", "inputFile"}, []string{"o", "outputFile"}); err != nil {
		return nil, err
	}
	return opts, nil
}

func buildAccumulator(opts *options, level lzt.LoggingLevel, runner lzt.Runner) *lzt.ComponentAccumulator {
	acc := lzt.NewComponentAccumulator("ComponentAccumulator", opts.OutputFile, runner)

	reader := lzt.RootStreamHITReader{
		Name:       "HITReader",
		InputFile:  opts.InputFile,
		HitsKey:    lzt.Recordable(lzt.KeyHits),
		EventKey:   lzt.Recordable(lzt.KeyEventInfo),
		TruthKey:   lzt.Recordable(lzt.KeyParticles),
		NtupleName: lzt.NtupleName,
	}
	calorimeter := lzt.CaloCellBuilder{
		Name:          "CaloCellBuilder",
		HistogramPath: "Expert/Cells",
		OutputLevel:   level,
		HitsKey:       lzt.Recordable(lzt.KeyHits),
	}
	acc.Merge(reader, calorimeter)

	esd := lzt.RootStreamESDMaker("RootStreamESDMaker",
		lzt.StreamKeys{
			InputCellsKey:  lzt.Recordable(lzt.KeyCells),
			InputEventKey:  lzt.Recordable(lzt.KeyEventInfo),
			InputTruthKey:  lzt.Recordable(lzt.KeyParticles),
			OutputCellsKey: lzt.Recordable(lzt.KeyCells),
			OutputEventKey: lzt.Recordable(lzt.KeyEventInfo),
			OutputTruthKey: lzt.Recordable(lzt.KeyParticles),
		},
		lzt.NtupleName, level)
	acc.Add(esd)
	return acc
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseArgs(args, out)
	if err != nil {
		return err
	}
	level, err := lzt.ParseLoggingLevel(strconv.Itoa(opts.OutputLevel))
	if err != nil {
		return err
	}
	if opts.Debug {
		level = lzt.VERBOSE
	}
	config, err := lzt.Setup(opts.ConfigFile, level)
	if err != nil {
		return err
	}

	return buildAccumulator(opts, level, newRunner(config)).Run(ctx, opts.NumberOfEvents)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(lzt.ExitCode(os.Stdout, err))
}
