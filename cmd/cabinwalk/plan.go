package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/easing"
	"github.com/teslashibe/go-cabinwalk/pkg/movement"
	"github.com/teslashibe/go-cabinwalk/pkg/sequences"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

func newPlanCmd(g *globalFlags) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "plan <from> <to>",
		Short: "Show the legs a move would take",
		Long: `Plan a move offline with the current settings file and print each leg
with its duration and landing pose. --samples prints intermediate poses.`,
		Example: "  cabinwalk plan passenger sofa_lie --samples 4",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := cabin.ParsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := cabin.ParsePosition(args[1])
			if err != nil {
				return err
			}
			store, err := settings.Load(g.config)
			if err != nil {
				return err
			}
			return describePlan(cmd.OutOrStdout(), store, from, to, samples)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 0, "intermediate poses to print per leg")
	return cmd
}

// describePlan prints the route from one position to another. The driver
// seat pose is taken to be the origin.
func describePlan(w io.Writer, p settings.Provider, from, to cabin.Position, samples int) error {
	builder := sequences.NewBuilder(p)
	ctrl := movement.New(movement.Options{Settings: p})
	ctrl.RegisterDefaultSequences(builder)

	path := ctrl.Plan(from, to)
	if len(path) == 0 {
		fmt.Fprintf(w, "%s -> %s: nothing to do\n", from, to)
		return nil
	}

	edges := make(map[[2]cabin.Position]sequences.Edge)
	for _, e := range builder.Edges() {
		edges[[2]cabin.Position{e.From, e.To}] = e
	}
	pose := func(pos cabin.Position) camera.Pose {
		if pose, ok := p.Current().PoseFor(pos); ok {
			return pose
		}
		return camera.NewPose(0, 0, 0, 0, 0)
	}

	fmt.Fprintf(w, "%s -> %s: %s\n", from, to, joinPath(from, path))
	prev := from
	for i, leg := range path {
		e, ok := edges[[2]cabin.Position{prev, leg}]
		if !ok {
			return fmt.Errorf("no transition %s -> %s", prev, leg)
		}
		// Every leg but the last is followed by another.
		last := i == len(path)-1
		builder.Chained = func() bool { return !last }

		seq := e.Build(pose(prev), pose(leg))
		seq.Start(pose(prev))
		fmt.Fprintf(w, "  %d. %-20s %6s  lands %s\n", i+1, e.Name, seq.Duration(), seq.Final())
		for s := 1; s <= samples; s++ {
			t := float64(s) / float64(samples+1)
			fmt.Fprintf(w, "       %3.0f%%  %s\n", t*100, seq.Sample(t))
		}
		prev = leg
	}
	return nil
}

func joinPath(from cabin.Position, path []cabin.Position) string {
	parts := []string{from.String()}
	for _, p := range path {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " > ")
}

func newCurvesCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "curves [name]",
		Short: "List easing curves or plot one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range easing.Names() {
					fmt.Fprintln(w, name)
				}
				return nil
			}
			fn, err := easing.ByName(args[0])
			if err != nil {
				return err
			}
			plotCurve(w, fn, steps)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 10, "number of intervals to sample")
	return cmd
}

func plotCurve(w io.Writer, fn easing.Func, steps int) {
	if steps < 1 {
		steps = 1
	}
	const width = 40
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		v := fn(t)
		bar := int(v*width + 0.5)
		if bar < 0 {
			bar = 0
		}
		fmt.Fprintf(w, "%4.2f %6.3f |%s\n", t, v, strings.Repeat("#", bar))
	}
}
