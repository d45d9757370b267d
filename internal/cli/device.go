package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rickgao/skyle"
	"github.com/rickgao/skyle/internal/version"
)

// ErrNoAnswer is returned when a device request yields no result.
var ErrNoAnswer = errors.New("device did not answer")

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func rejected(op string) error {
	return fmt.Errorf("%s: device rejected the request", op)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}

func newStatusCmd(env envProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the device option state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := env().Client().Status(cmd.Context())
			if st == nil {
				return ErrNoAnswer
			}
			return printJSON(cmd, st)
		},
	}
}

func newVersionsCmd(env envProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Show firmware and device information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := env().Client().Versions(cmd.Context())
			if v == nil {
				return ErrNoAnswer
			}
			return printJSON(cmd, struct {
				*skyle.DeviceVersions
				Type string
			}{v, v.Type.String()})
		},
	}
}

func newProfilesCmd(env envProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage user profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := env().Client()
			if !c.Available(cmd.Context()) {
				return ErrNoAnswer
			}
			return printJSON(cmd, profileViews(c.Profiles(cmd.Context())))
		},
	}

	current := &cobra.Command{
		Use:   "current",
		Short: "Show the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := env().Client().CurrentProfile(cmd.Context())
			if p == nil {
				return ErrNoAnswer
			}
			return printJSON(cmd, viewOf(*p))
		},
	}

	var (
		id    int32
		name  string
		skill string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Create or update a profile and make it active",
		Long:  `Without --id a new profile is created.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := skyle.ParseSkill(skill)
			if !ok {
				return fmt.Errorf("unknown skill %q", skill)
			}
			p := skyle.NewProfile(name, s)
			if cmd.Flags().Changed("id") {
				p.ID = id
			}
			if !env().Client().SetProfile(cmd.Context(), p) {
				return rejected("set profile")
			}
			return nil
		},
	}
	set.Flags().Int32Var(&id, "id", skyle.NewProfileID, "profile id to update")
	set.Flags().StringVar(&name, "name", "", "profile name")
	set.Flags().StringVar(&skill, "skill", skyle.SkillMedium.String(), "skill: low, medium or high")
	set.MarkFlagRequired("name")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid profile id %q: %w", args[0], err)
			}
			if !env().Client().DeleteProfile(cmd.Context(), skyle.Profile{ID: int32(n)}) {
				return rejected("delete profile")
			}
			return nil
		},
	}

	cmd.AddCommand(list, current, set, del)
	return cmd
}

type profileView struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Skill string `json:"skill"`
}

func viewOf(p skyle.Profile) profileView {
	return profileView{ID: p.ID, Name: p.Name, Skill: p.Skill.String()}
}

func profileViews(ps []skyle.Profile) []profileView {
	out := make([]profileView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewOf(p))
	}
	return out
}

func newButtonCmd(env envProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "button",
		Short: "Show or change the button actions",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the button setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := env().Client().Button(cmd.Context())
			if b == nil {
				return ErrNoAnswer
			}
			return printJSON(cmd, map[string]any{
				"present": b.Present,
				"single":  b.SingleClick.String(),
				"double":  b.DoubleClick.String(),
				"hold":    b.HoldClick.String(),
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <single> <double> <hold>",
		Short: "Bind actions to the button gestures",
		Long:  `Actions: none, leftClick, rightClick, scroll, calibrate, pause.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var actions [3]skyle.ButtonAction
			for i, a := range args {
				actions[i] = skyle.ParseButtonAction(a)
				if actions[i] == skyle.ActionUnknown {
					return fmt.Errorf("unknown button action %q", a)
				}
			}
			if !env().Client().SetButton(cmd.Context(), actions[0], actions[1], actions[2]) {
				return rejected("set button")
			}
			return nil
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

func newOptionsCmd(env envProvider) *cobra.Command {
	var (
		stream  bool
		pause   bool
		hid     bool
		width   int
		height  int
		widthMM int
		heightMM int
	)
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Change device options",
		Long:  `Only flags given on the command line are changed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := env().Client()
			ctx := cmd.Context()
			fl := cmd.Flags()

			if fl.Changed("stream") && c.ChangeStream(ctx, stream) != stream {
				return rejected("stream")
			}
			if fl.Changed("pause") && c.ChangePause(ctx, pause) != pause {
				return rejected("pause")
			}
			if fl.Changed("disable-hid") && c.ChangeHID(ctx, hid) != hid {
				return rejected("disable-hid")
			}
			if fl.Changed("width") || fl.Changed("height") {
				res := skyle.Resolution{Width: width, Height: height, WidthInMM: widthMM, HeightInMM: heightMM}
				if !c.SetScreenResolution(ctx, res) {
					return rejected("resolution")
				}
			}

			st := c.Status(ctx)
			if st == nil {
				return ErrNoAnswer
			}
			return printJSON(cmd, st)
		},
	}
	cmd.Flags().BoolVar(&stream, "stream", false, "enable the video stream")
	cmd.Flags().BoolVar(&pause, "pause", false, "enable pausing by looking into the camera")
	cmd.Flags().BoolVar(&hid, "disable-hid", false, "disable mouse control by the device")
	cmd.Flags().IntVar(&width, "width", 0, "screen width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "screen height in pixels")
	cmd.Flags().IntVar(&widthMM, "width-mm", 0, "screen width in millimetres")
	cmd.Flags().IntVar(&heightMM, "height-mm", 0, "screen height in millimetres")
	return cmd
}

func newResetCmd(env envProvider) *cobra.Command {
	var data, services, device bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset stored data, services or the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !data && !services && !device {
				return errors.New("nothing to reset: pass --data, --services or --device")
			}
			if !env().Client().ResetDevice(cmd.Context(), data, services, device) {
				return rejected("reset")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&data, "data", false, "reset stored data")
	cmd.Flags().BoolVar(&services, "services", false, "restart services")
	cmd.Flags().BoolVar(&device, "device", false, "reboot the device")
	return cmd
}
