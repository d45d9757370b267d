package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rickgao/skyle"
	"github.com/rickgao/skyle/internal/stream"
)

func newWatchCmd(env envProvider) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:       "watch [gaze|positioning|trigger]...",
		Short:     "Print telemetry as JSON lines",
		Long:      `Prints gaze points when no stream is named. Stops on interrupt or after --count samples.`,
		ValidArgs: []string{string(stream.KindGaze), string(stream.KindPositioning), string(stream.KindTrigger)},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{string(stream.KindGaze)}
			}
			c := env().Client()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var (
				mu      sync.Mutex
				seen    int
				stopped bool
				enc  = json.NewEncoder(cmd.OutOrStdout())
			)
			emit := func(kind string, v any) {
				mu.Lock()
				defer mu.Unlock()
				if stopped || (count > 0 && seen >= count) {
					return
				}
				enc.Encode(struct {
					Kind string `json:"kind"`
					Data any    `json:"data"`
				}{kind, v})
				seen++
				if count > 0 && seen >= count {
					cancel()
				}
			}

			var ids []uuid.UUID
			for _, kind := range args {
				switch stream.Kind(kind) {
				case stream.KindGaze:
					ids = append(ids, c.SubscribeGaze(func(p skyle.Point) { emit(kind, p) }))
				case stream.KindPositioning:
					ids = append(ids, c.SubscribePositioning(func(p skyle.Positioning) { emit(kind, p) }))
				case stream.KindTrigger:
					ids = append(ids, c.SubscribeTrigger(func(t skyle.Trigger) { emit(kind, t) }))
				default:
					return fmt.Errorf("unknown stream %q", kind)
				}
			}
			defer func() {
				mu.Lock()
				stopped = true
				mu.Unlock()
				for _, id := range ids {
					c.Unsubscribe(id)
				}
			}()

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many samples (0 = until interrupted)")
	return cmd
}
