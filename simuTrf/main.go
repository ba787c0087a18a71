package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

var (
	newRunner = func(config lzt.Configuration) lzt.Runner {
		return lzt.NewExecRunner(config)
	}
	stdin io.Reader = os.Stdin
)

// The random numbers come from the generation step, the simulation seed is fixed.
const simulationSeed = 512

type options struct {
	InputFile           string
	OutputFile          string
	Debug               bool
	NumberOfThreads     int
	NumberOfEvents      int
	Visualization       bool
	EnableMagneticField bool
	OutputLevel         int
	Merge               bool
	SaveAllHits         bool
	Timeout             int
	ConfigFile          string
}

func parseArgs(args []string, out io.Writer) (*options, error) {
	opts := &options{}
	fs := lzt.NewFlagSet("simuTrf", "Run the Geant4 ATLAS detector simulation over generated events.", out)

	fs.StringVar(&opts.InputFile, "inputFile", "", "The event input file generated by the Pythia event generator.")
	lzt.Alias(fs, "inputFile", "i")
	fs.StringVar(&opts.OutputFile, "outputFile", "", "The reconstructed event file generated by lzt/geant4 framework.")
	lzt.Alias(fs, "outputFile", "o")
	fs.BoolVar(&opts.Debug, "debug", false, "In debug mode.")
	lzt.Alias(fs, "debug", "d")
	fs.IntVar(&opts.NumberOfThreads, "numberOfThreads", 1, "The number of threads")
	lzt.Alias(fs, "numberOfThreads", "nt")
	fs.IntVar(&opts.NumberOfEvents, "numberOfEvents", -1, "The number of events to apply the reconstruction (default is all).")
	lzt.Alias(fs, "numberOfEvents", "evt")
	fs.BoolVar(&opts.Visualization, "visualization", false, "Run with Qt interface.")
	fs.BoolVar(&opts.EnableMagneticField, "enableMagneticField", false, "Enable the magnetic field.")
	fs.IntVar(&opts.OutputLevel, "outputLevel", int(lzt.WARNING), "The output level messenger.")
	fs.BoolVar(&opts.Merge, "merge", false, "Merge all output files.")
	lzt.Alias(fs, "merge", "m")
	fs.BoolVar(&opts.SaveAllHits, "saveAllHits", false, "Save all detector hits.")
	fs.IntVar(&opts.Timeout, "timeout", 5, "Event timeout in minutes")
	lzt.Alias(fs, "timeout", "t")
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
	atlas := lzt.FullATLASOptions()
	atlas.UseMagneticField = opts.EnableMagneticField
	detector := lzt.ATLASDetector("GenericATLASDetector", atlas)

	acc := lzt.NewComponentAccumulator("ComponentAccumulator", opts.OutputFile, runner,
		lzt.WithDetector(detector),
		lzt.WithProperty("RunVis", opts.Visualization),
		lzt.WithProperty("NumberOfThreads", opts.NumberOfThreads),
		lzt.WithProperty("MergeOutputFiles", opts.Merge),
		lzt.WithProperty("Seed", simulationSeed),
		lzt.WithProperty("Timeout", opts.Timeout*lzt.Minutes),
	)

	gun := lzt.EventReader{
		Name:          "PythiaGenerator",
		EventKey:      lzt.Recordable(lzt.KeyEventInfo),
		TruthKey:      lzt.Recordable(lzt.KeyParticles),
		FileName:      opts.InputFile,
		BunchDuration: lzt.DefaultBunchDurationNs,
	}
	calorimeterHits := lzt.CaloHitBuilder{
		Name:          "CaloHitBuilder",
		HistogramPath: "Expert/Hits",
		OutputLevel:   level,
	}
	acc.Merge(gun, calorimeterHits)

	hits := lzt.RootStreamHITMaker("RootStreamHITMaker",
		lzt.StreamKeys{
			InputHitsKey:   lzt.Recordable(lzt.KeyHits),
			InputEventKey:  lzt.Recordable(lzt.KeyEventInfo),
			InputTruthKey:  lzt.Recordable(lzt.KeyParticles),
			OutputHitsKey:  lzt.Recordable(lzt.KeyHits),
			OutputEventKey: lzt.Recordable(lzt.KeyEventInfo),
			OutputTruthKey: lzt.Recordable(lzt.KeyParticles),
		},
		0.6, 0.6, !opts.SaveAllHits, level)
	acc.Add(hits)
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

	acc := buildAccumulator(opts, level, newRunner(config))
	if err := acc.Run(ctx, opts.NumberOfEvents); err != nil {
		return err
	}

	if opts.Visualization {
		fmt.Fprint(out, "Press Enter to quit...")
		bufio.NewReader(stdin).ReadString('\n')
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(lzt.ExitCode(os.Stdout, err))
}
