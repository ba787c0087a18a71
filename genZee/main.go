package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

var newRunner = func(config lzt.Configuration) lzt.Runner {
	return lzt.NewExecRunner(config)
}

type options struct {
	EventNumbers         string
	OutputFile           string
	NumberOfEvents       int
	RunNumber            int
	Seed                 int
	OutputLevel          string
	EtaMax               float64
	ForceForwardElectron bool
	ZeroVertexParticles  bool
	PileupAvg            float64
	PileupSigma          float64
	BcIdStart            int
	BcIdEnd              int
	BcDuration           int
	NumberOfThreads      int
	EventsPerJob         int
	ConfigFile           string
}

func parseArgs(args []string, out io.Writer) (*options, error) {
	opts := &options{}
	fs := lzt.NewFlagSet("genZee", "Generate Z→ee events with Pythia8, one job per event chunk.", out)

	fs.StringVar(&opts.EventNumbers, "event-numbers", "", "The event number list separated by ','. e.g. --event-numbers '0,1,2,3'")
	lzt.Alias(fs, "event-numbers", "e")
	fs.StringVar(&opts.OutputFile, "output-file", "", "The event file generated by pythia.")
	lzt.Alias(fs, "output-file", "o")
	fs.IntVar(&opts.NumberOfEvents, "number-of-events", 1, "The number of events to be generated.")
	lzt.Alias(fs, "number-of-events", "nov")
	fs.IntVar(&opts.RunNumber, "run-number", 0, "The run number.")
	fs.IntVar(&opts.Seed, "seed", 0, "The pythia seed (zero is the clock system)")
	lzt.Alias(fs, "seed", "s")
	fs.StringVar(&opts.OutputLevel, "output-level", "INFO", "The output level messenger.")
	fs.Float64Var(&opts.EtaMax, "eta-max", 3.2, "The eta max used in generator.")
	fs.BoolVar(&opts.ForceForwardElectron, "force-forward-electron", false, "Force at least one electron into forward region.")
	fs.BoolVar(&opts.ZeroVertexParticles, "zero-vertex-particles", false,
		"Fix the z vertex position in simulation to zero for all selected particles. It is applied only at G4 step, not in generation.")
	fs.Float64Var(&opts.PileupAvg, "pileup-avg", 0, "The pileup average (default is zero).")
	fs.Float64Var(&opts.PileupSigma, "pileup-sigma", 0, "The pileup sigma (default is zero).")
	fs.IntVar(&opts.BcIdStart, "bc-id-start", lzt.DefaultBunchIdStart, "The bunch crossing id start.")
	fs.IntVar(&opts.BcIdEnd, "bc-id-end", lzt.DefaultBunchIdEnd, "The bunch crossing id end.")
	fs.IntVar(&opts.BcDuration, "bc-duration", lzt.DefaultBunchDurationNs, "The bunch crossing duration (in nanoseconds).")
	fs.IntVar(&opts.NumberOfThreads, "number-of-threads", 1, "The number of threads")
	lzt.Alias(fs, "number-of-threads", "nt")
	fs.IntVar(&opts.EventsPerJob, "events-per-job", 0, "The number of events per job (default is events/threads)")
	fs.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")

	if err := lzt.ParseCommandLine(fs, args); err != nil {
		return nil, err
	}
	if err := lzt.Required(fs, []string{"o", "output-file"}); err != nil {
		return nil, err
	}
	return opts, nil
}

// buildTape configures the generation of one job.
func buildTape(opts *options, config lzt.Configuration, job lzt.GenJob, level lzt.LoggingLevel, runner lzt.Runner) (*lzt.EventTape, error) {
	zeeFile, err := config.DataFile(lzt.ZeeConfigFile)
	if err != nil {
		return nil, err
	}

	tape := lzt.NewEventTape("EventTape", job.OutputFile, opts.RunNumber, runner)

	zee := lzt.Zee("Zee",
		lzt.Pythia8("Generator", zeeFile, job.Seed, nil),
		lzt.ZeeOptions{
			EtaMax:               opts.EtaMax,
			MinPt:                15 * lzt.GeV,
			ZeroVertexParticles:  opts.ZeroVertexParticles,
			ForceForwardElectron: opts.ForceForwardElectron,
			OutputLevel:          level,
		})
	tape.Add(zee)

	if opts.PileupAvg > 0 {
		mbFile, err := config.DataFile(lzt.MinBiasConfigFile)
		if err != nil {
			return nil, err
		}
		pileupOpts := lzt.DefaultPileupOptions()
		pileupOpts.EtaMax = opts.EtaMax
		pileupOpts.PileupAvg = opts.PileupAvg
		pileupOpts.PileupSigma = opts.PileupSigma
		pileupOpts.BunchIdStart = opts.BcIdStart
		pileupOpts.BunchIdEnd = opts.BcIdEnd
		pileupOpts.BunchDuration = opts.BcDuration
		pileupOpts.OutputLevel = level
		tape.Add(lzt.Pileup("Pileup", lzt.Pythia8("MBGenerator", mbFile, job.Seed, nil), pileupOpts))
	}
	return tape, nil
}

func openCatalog(config lzt.Configuration, logger lzt.Logger) *lzt.Catalog {
	if config.NoDB {
		return nil
	}
	catalog, err := lzt.OpenCatalog(config)
	if err != nil {
		logger.Error(fmt.Errorf("job catalog disabled: %w", err).Error())
		return nil
	}
	return catalog
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
	logger := lzt.NewStdLogger(level.SlogLevel())

	eventNumbers, err := lzt.ParseEventNumbers(opts.EventNumbers)
	if err != nil {
		return err
	}
	jobs, skipped, err := lzt.PlanJobs(lzt.PlanOptions{
		OutputFile:   opts.OutputFile,
		NumberEvents: opts.NumberOfEvents,
		EventNumbers: eventNumbers,
		NumThreads:   opts.NumberOfThreads,
		EventsPerJob: opts.EventsPerJob,
		Seed:         opts.Seed,
	})
	if err != nil {
		return err
	}

	catalog := openCatalog(config, logger)
	if catalog != nil {
		defer catalog.Close()
		for _, job := range skipped {
			if err := catalog.RecordJob(ctx, lzt.NewJobRecord(opts.RunNumber, job, lzt.JobSkipped)); err != nil {
				logger.Error(err.Error())
			}
		}
		for _, job := range jobs {
			if err := catalog.RecordJob(ctx, lzt.NewJobRecord(opts.RunNumber, job, lzt.JobPlanned)); err != nil {
				logger.Error(err.Error())
			}
		}
	}

	runner := newRunner(config)
	_, err = lzt.RunJobs(ctx, opts.NumberOfThreads, jobs, func(ctx context.Context, job lzt.GenJob) error {
		tape, err := buildTape(opts, config, job, level, runner)
		if err == nil {
			err = tape.Run(ctx, lzt.EventNumbers(job.Events))
		}
		if catalog != nil {
			status, message := lzt.JobDone, ""
			if err != nil {
				status, message = lzt.JobFailed, err.Error()
			}
			if cerr := catalog.UpdateStatus(ctx, opts.RunNumber, job.OutputFile, status, message); cerr != nil {
				logger.Error(cerr.Error())
			}
		}
		return err
	})
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(lzt.ExitCode(os.Stdout, err))
}
