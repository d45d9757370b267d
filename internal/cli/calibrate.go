package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/skyle"
)

func newCalibrateCmd(env envProvider) *cobra.Command {
	var (
		fivePoint bool
		width     int
		height    int
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Run a calibration and print its quality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := env().Client()
			out := cmd.OutOrStdout()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			points := c.OnCalibrationPoint(func(p skyle.Point) {
				fmt.Fprintf(out, "point %d at (%.0f, %.0f)\n", c.CurrentPoint(), p.X, p.Y)
			})
			defer c.Unsubscribe(points)

			finished := make(chan skyle.Quality, 1)
			done := c.OnCalibrationFinished(func(q skyle.Quality) {
				select {
				case finished <- q:
				default:
				}
			})
			defer c.Unsubscribe(done)

			if err := c.Calibrate(ctx, width, height, fivePoint); err != nil {
				return err
			}

			select {
			case q := <-finished:
				return printJSON(cmd, q)
			case <-ctx.Done():
				// The command context may be gone already.
				abortCtx, abortCancel := context.WithTimeout(context.Background(), time.Second)
				defer abortCancel()
				c.Abort(abortCtx)
				return fmt.Errorf("calibration aborted: %w", ctx.Err())
			}
		},
	}
	cmd.Flags().BoolVar(&fivePoint, "five-point", false, "use five targets instead of nine")
	cmd.Flags().IntVar(&width, "width", 1920, "screen width in pixels")
	cmd.Flags().IntVar(&height, "height", 1080, "screen height in pixels")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up after this long")
	return cmd
}
