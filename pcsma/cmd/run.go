package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/pcsma/config"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print its metrics.",
	Long: "`run` builds a simulation from the defaults, the --config file, " +
		"the .env file, the PCSMA_* environment and the flags, in that " +
		"order, runs it and prints one metric per line.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		selectIDGenerator(cmd.Flags())

		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		return runSimulation(cmd.Flags(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd.Flags())
}

func addRunFlags(f *pflag.FlagSet) {
	def := config.Default()

	f.String("config", "", "YAML file with the parameters of the run")
	f.String("env-file", ".env", "file with PCSMA_* overrides, ignored if missing")
	f.String("log", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	f.String("trace-db", "", "record slot outcomes and sessions into this SQLite file")
	f.Bool("trace-log", false, "log every collision and every completed session")
	f.Bool("monitor", false, "serve the monitoring API during the run")
	f.Int("monitor-port", 0, "port of the monitoring server")
	f.Bool("open-browser", false, "open the monitor in the default browser")
	f.Bool("unique-ids", false,
		"give events and progress bars globally unique ids instead of sequential ones")

	f.Int("stations", def.NumStations, "number of stations")
	f.Float64("duration", def.SimDuration, "simulated time")
	f.Float64("slot", def.SlotDuration, "slot duration")
	f.Int("on-duration", def.OnDuration, "packets per burst")
	f.Float64("mean-idle", def.MeanIdleTime, "mean idle time between bursts")
	f.Float64("packet-interval", def.PacketInterval, "time between packets of a burst")
	f.Float64("persistence", 0, "attempt probability in (0, 1], 1/stations if not set")
	f.Float64("guard", def.GuardInterval, "time before the slot end when the channel answers")
	f.Int("session-length", def.SessionLength, "packets sent per successful attempt")
	f.Int("max-backoff", def.MaxBackoff, "largest back-off in slots")
	f.Bool("persist-after-collision", def.PersistAfterCollision,
		"keep contending after a collision instead of sensing again")
	f.Int64("seed", def.Seed, "random seed")
}

// selectIDGenerator must run before the first event is created.
func selectIDGenerator(flags *pflag.FlagSet) {
	if unique, _ := flags.GetBool("unique-ids"); unique {
		sim.UseParallelIDGenerator()
	}
}

func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	envFile, _ := flags.GetString("env-file")
	if err := config.ApplyEnvFile(&cfg, envFile); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	if err := config.ApplyEnv(&cfg, environ()); err != nil {
		return cfg, err
	}

	applyFlags(flags, &cfg)

	return cfg, nil
}

func environ() map[string]string {
	env := make(map[string]string)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}

	return env
}

func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	ints := map[string]*int{
		"stations":       &cfg.NumStations,
		"on-duration":    &cfg.OnDuration,
		"session-length": &cfg.SessionLength,
		"max-backoff":    &cfg.MaxBackoff,
	}
	for name, field := range ints {
		if flags.Changed(name) {
			*field, _ = flags.GetInt(name)
		}
	}

	floats := map[string]*float64{
		"duration":        &cfg.SimDuration,
		"slot":            &cfg.SlotDuration,
		"mean-idle":       &cfg.MeanIdleTime,
		"packet-interval": &cfg.PacketInterval,
		"guard":           &cfg.GuardInterval,
	}
	for name, field := range floats {
		if flags.Changed(name) {
			*field, _ = flags.GetFloat64(name)
		}
	}

	if flags.Changed("persistence") {
		p, _ := flags.GetFloat64("persistence")
		cfg.SetPersistence(p)
	}

	if flags.Changed("persist-after-collision") {
		cfg.PersistAfterCollision, _ = flags.GetBool("persist-after-collision")
	}

	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
}

func runSimulation(
	flags *pflag.FlagSet,
	cfg config.Config,
	out io.Writer,
) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	levelName, _ := flags.GetString("log")
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return err
	}

	logger.SetLevel(level)

	b := simulation.MakeBuilder().WithConfig(cfg).WithLogger(logger)

	if level >= logrus.TraceLevel {
		b = b.WithEngineHook(sim.NewEventLogger(logger))
	}

	if traceLog, _ := flags.GetBool("trace-log"); traceLog {
		b = b.WithTraceLog()
	}

	if traceDB, _ := flags.GetString("trace-db"); traceDB != "" {
		b = b.WithTraceDB(traceDB)
	}

	if monitor, _ := flags.GetBool("monitor"); monitor {
		port, _ := flags.GetInt("monitor-port")
		b = b.WithMonitor().WithMonitorPort(port)

		if open, _ := flags.GetBool("open-browser"); open {
			b = b.WithBrowser()
		}
	}

	s, err := b.Build()
	if err != nil {
		return err
	}

	report, runErr := s.Run()

	if err := s.Terminate(); err != nil {
		logger.WithError(err).Error("terminating simulation")
	}

	if runErr != nil {
		return runErr
	}

	if err := report.Print(out); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}

	return nil
}
