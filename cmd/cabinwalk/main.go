// Command cabinwalk runs and drives the truck-cabin first-person camera.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cabinwalk/internal/config"
	"github.com/teslashibe/go-cabinwalk/internal/log"
)

// Version information (set at build time)
var version = "dev"

type globalFlags struct {
	addr     string
	config   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "cabinwalk",
		Short: "Walk around a truck cabin in first person",
		Long: `cabinwalk animates a first-person camera between the seats, the
standing spot and the sofa of a truck cabin, and lets the player walk,
crouch and rise on tiptoe while standing.

Run 'cabinwalk serve' to start the camera with its HTTP and websocket
control surface, then drive it with 'move', 'status' and 'watch'.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(g.logLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.addr, "addr", config.Addr(config.DefaultAddr), "server address (env CABINWALK_ADDR)")
	flags.StringVar(&g.config, "config", config.ConfigPath(config.DefaultConfigFile), "settings file (env CABINWALK_CONFIG)")
	flags.StringVar(&g.logLevel, "log-level", config.LogLevel(), "debug, info, warn or error (env LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(g),
		newPlanCmd(g),
		newCurvesCmd(),
		newSettingsCmd(g),
		newStatusCmd(g),
		newMoveCmd(g),
		newWatchCmd(g),
	)
	return root
}
