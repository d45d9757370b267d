package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/skyle"
	"github.com/rickgao/skyle/internal/database"
	"github.com/rickgao/skyle/internal/poller"
	"github.com/rickgao/skyle/internal/recorder"
	"github.com/rickgao/skyle/internal/relay"
	"github.com/rickgao/skyle/internal/simulator"
)

const shutdownTimeout = 10 * time.Second

// connectInBackground starts the first connection attempt. A failed
// attempt is retried by the client's supervisor.
func connectInBackground(ctx context.Context, c *skyle.Client, logger *slog.Logger) {
	go func() {
		if err := c.Connect(ctx); err != nil {
			logger.Warn("device not reachable yet", "error", err)
		}
	}()
}

func newRecordCmd(env envProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Record telemetry into PostgreSQL until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := env()
			ctx := cmd.Context()
			if e.cfg.Database.Host == "" {
				return errors.New("database.host is required for record")
			}

			e.logger.Info("connecting to database",
				"host", e.cfg.Database.Host,
				"port", e.cfg.Database.Port,
				"database", e.cfg.Database.Name,
			)
			pool, err := database.Open(ctx, e.cfg.Database, e.cfg.Recorder)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer pool.Close()

			rc := recorder.Config{
				Streams:       e.cfg.Recorder.Streams,
				BatchSize:     e.cfg.Recorder.BatchSize,
				FlushInterval: e.cfg.Recorder.FlushInterval,
				BufferSize:    e.cfg.Recorder.BufferSize,
			}
			if len(rc.Streams) == 0 {
				rc.Streams = recorder.DefaultConfig().Streams
			}
			device := net.JoinHostPort(e.cfg.Device.Host, fmt.Sprint(e.cfg.Device.Port))
			rec := recorder.New(rc, e.Client(), pool, device, e.logger)

			connectInBackground(ctx, e.Client(), e.logger)
			if err := rec.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := rec.Stop(stopCtx); err != nil {
				return err
			}
			st := rec.Stats()
			e.logger.Info("recording finished",
				"session", st.Session,
				"inserts", st.Inserts,
				"dropped", st.Dropped,
			)
			return nil
		},
	}
}

func newRelayCmd(env envProvider) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay telemetry and device status to websocket clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := env()
			ctx := cmd.Context()
			if listen == "" {
				listen = e.cfg.Relay.Listen
			}

			r := relay.New(relay.Config{
				SendBuffer:   e.cfg.Relay.SendBuffer,
				WriteTimeout: e.cfg.Relay.WriteTimeout,
				PingInterval: e.cfg.Relay.PingInterval,
			}, e.logger)
			detach := r.Attach(e.Client())
			defer detach()

			p := poller.New(poller.Config{Interval: e.cfg.Poller.Interval, Timeout: e.cfg.Device.RequestTimeout},
				e.Client(),
				poller.SnapshotHandlerFunc(func(s poller.Snapshot) error {
					r.Publish(relay.FrameStatus, s)
					return nil
				}),
				e.logger,
			)

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			srv := &http.Server{Handler: r.Handler(), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				e.logger.Info("relay listening", "addr", lis.Addr().String())
				if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					e.logger.Error("relay server error", "error", err)
				}
			}()

			connectInBackground(ctx, e.Client(), e.logger)
			if err := p.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			p.Stop(stopCtx)
			err = srv.Shutdown(stopCtx)
			r.Close()
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides relay.listen)")
	return cmd
}

func newSimulateCmd(env envProvider) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Serve a simulated device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := env()
			if listen == "" {
				listen = e.cfg.Simulator.Listen
			}

			sc := simulator.DefaultConfig()
			sc.GazeInterval = e.cfg.Simulator.GazeInterval
			sc.PositioningInterval = e.cfg.Simulator.PositioningInterval
			sc.TriggerInterval = e.cfg.Simulator.TriggerInterval
			sc.CalibrationStep = e.cfg.Simulator.CalibrationStep

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			return simulator.New(sc, e.logger).Serve(cmd.Context(), lis)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides simulator.listen)")
	return cmd
}
