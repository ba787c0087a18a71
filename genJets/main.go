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
	OutputFile     string
	NumberOfEvents int
	EventNumbers   lzt.IntListFlag
	PileupAvg      int
	BcIdStart      int
	BcIdEnd        int
	BcDuration     int
	OutputLevel    int
	Seed           int
	MaxEta         float64
	EnergyMin      float64
	ConfigFile     string
}

func parseArgs(args []string, out io.Writer) (*options, error) {
	opts := &options{}
	fs := lzt.NewFlagSet("genJets", "Generate JF17 jet events with Pythia8.", out)

	fs.StringVar(&opts.OutputFile, "outputFile", "", "The event file generated by pythia.")
	lzt.Alias(fs, "outputFile", "o")
	fs.IntVar(&opts.NumberOfEvents, "numberOfEvents", 1, "The number of events to be generated.")
	lzt.Alias(fs, "numberOfEvents", "nov")
	fs.Var(&opts.EventNumbers, "event_number", "The list of numbers per event.")
	fs.IntVar(&opts.PileupAvg, "pileupAvg", 40, "The pileup average (default is zero).")
	fs.IntVar(&opts.BcIdStart, "bc_id_start", lzt.DefaultBunchIdStart, "The bunch crossing id start.")
	fs.IntVar(&opts.BcIdEnd, "bc_id_end", lzt.DefaultBunchIdEnd, "The bunch crossing id end.")
	fs.IntVar(&opts.BcDuration, "bc_duration", lzt.DefaultBunchDurationNs, "The bunch crossing duration (in nanoseconds).")
	fs.IntVar(&opts.OutputLevel, "outputLevel", 0, "The output level messenger.")
	fs.IntVar(&opts.Seed, "seed", 0, "The pythia seed (zero is the clock system)")
	lzt.Alias(fs, "seed", "s")
	fs.Float64Var(&opts.MaxEta, "maxEta", 3.2, "Maximum eta coordinate")
	fs.Float64Var(&opts.EnergyMin, "energy_min", 17, "Minimum jet transverse energy in GeV")
	fs.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")

	if err := lzt.ParseCommandLine(fs, args); err != nil {
		return nil, err
	}
	if err := lzt.Required(fs, []string{"o", "outputFile"}); err != nil {
		return nil, err
	}
	return opts, nil
}

func buildTape(opts *options, config lzt.Configuration, level lzt.LoggingLevel, runner lzt.Runner) (*lzt.EventTape, error) {
	mainFile, err := config.DataFile(lzt.JetConfigFile)
	if err != nil {
		return nil, err
	}

	tape := lzt.NewEventTape("EventTape", opts.OutputFile, 0, runner)

	jets := lzt.JF17("JF17",
		lzt.Pythia8("MainGenerator", mainFile, opts.Seed, opts.EventNumbers.Values),
		lzt.JF17Options{
			EtaMax:      opts.MaxEta,
			MinPt:       opts.EnergyMin * lzt.GeV,
			Select:      2,
			EtaWindow:   0.4,
			PhiWindow:   0.4,
			OutputLevel: level,
		})
	tape.Add(jets)

	if opts.PileupAvg > 0 {
		minbiasFile, err := config.DataFile(lzt.GunsMinBiasConfigFile)
		if err != nil {
			return nil, err
		}
		pileupOpts := lzt.DefaultPileupOptions()
		pileupOpts.EtaMax = opts.MaxEta
		pileupOpts.PileupAvg = float64(opts.PileupAvg)
		pileupOpts.BunchIdStart = opts.BcIdStart
		pileupOpts.BunchIdEnd = opts.BcIdEnd
		pileupOpts.BunchDuration = opts.BcDuration
		pileupOpts.OutputLevel = level
		tape.Add(lzt.Pileup("MinimumBias", lzt.Pythia8("MBGenerator", minbiasFile, opts.Seed, nil), pileupOpts))
	}
	return tape, nil
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
	config, err := lzt.Setup(opts.ConfigFile, level)
	if err != nil {
		return err
	}

	tape, err := buildTape(opts, config, level, newRunner(config))
	if err != nil {
		return err
	}
	return tape.Run(ctx, lzt.EventCount(opts.NumberOfEvents))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(lzt.ExitCode(os.Stdout, err))
}
