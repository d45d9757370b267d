// Package cli implements the skyle command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/skyle"
	"github.com/rickgao/skyle/internal/config"
)

// Main runs the command line with args.
func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	e := &env{}
	defer e.close()

	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

type flags struct {
	configPath string
	host       string
	port       int
	logLevel   string
	logFormat  string
}

// env is what subcommands share once the root has loaded configuration.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	client *skyle.Client
}

// Client creates the device client on first use.
func (e *env) Client() *skyle.Client {
	if e.client == nil {
		d := e.cfg.Device
		e.client = skyle.New(d.Host,
			skyle.WithPort(d.Port),
			skyle.WithLogger(e.logger),
			skyle.WithConnectTimeout(d.ConnectTimeout),
			skyle.WithRequestTimeout(d.RequestTimeout),
			skyle.WithBackoff(d.ReconnectBaseDelay, d.ReconnectMaxDelay),
			skyle.WithQueueSize(e.cfg.Calibration.QueueSize),
		)
	}
	return e.client
}

func (e *env) close() {
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
}

type envProvider func() *env

// newRootCmd builds the command tree. Commands share e; its client is
// closed by Main.
func newRootCmd(e *env) *cobra.Command {
	var f flags
	provider := func() *env { return e }

	root := &cobra.Command{
		Use:           "skyle",
		Short:         "Skyle eye tracker client",
		Long:          `Talks to a Skyle eye tracker: device settings, calibration, telemetry recording and relaying.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&f.host, "host", "", "device host (overrides device.host)")
	root.PersistentFlags().IntVar(&f.port, "port", 0, "device port (overrides device.port)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (overrides log.level)")
	root.PersistentFlags().StringVar(&f.logFormat, "log-format", "", "log format: text or json (overrides log.format)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(f)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		e.cfg, e.logger = cfg, logger
		return nil
	}

	root.AddCommand(
		newVersionCmd(),
		newStatusCmd(provider),
		newVersionsCmd(provider),
		newProfilesCmd(provider),
		newButtonCmd(provider),
		newOptionsCmd(provider),
		newResetCmd(provider),
		newCalibrateCmd(provider),
		newWatchCmd(provider),
		newRecordCmd(provider),
		newRelayCmd(provider),
		newSimulateCmd(provider),
	)
	return root
}

func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.LoadWithDefaults(f.configPath); err != nil {
			return nil, err
		}
	}

	if f.host != "" {
		cfg.Device.Host = f.host
	}
	if f.port != 0 {
		cfg.Device.Port = f.port
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
