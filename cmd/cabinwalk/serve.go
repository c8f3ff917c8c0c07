package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cabinwalk/internal/config"
	"github.com/teslashibe/go-cabinwalk/internal/log"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
	"github.com/teslashibe/go-cabinwalk/pkg/web"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		tick    time.Duration
		watch   bool
		driving bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the camera with its HTTP and websocket API",
		Long: `Run a simulated cabin camera driven by the animation core.

The settings file is watched and changes apply on the next tick. The truck
starts parked unless --driving is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, g, tick, watch, driving)
		},
	}

	cmd.Flags().DurationVar(&tick, "tick", config.TickRate(config.DefaultTickRate), "tick interval (env CABINWALK_TICK)")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the settings file when it changes")
	cmd.Flags().BoolVar(&driving, "driving", false, "start with the truck moving and the parking brake off")
	return cmd
}

func serve(ctx context.Context, g *globalFlags, tick time.Duration, watch, driving bool) error {
	logger := log.L()

	store, err := settings.Load(g.config, settings.WithLogger(logger.With("component", "settings")))
	if err != nil {
		return err
	}
	if watch {
		store.Watch()
	}

	telemetry := camera.NewParkedTelemetry()
	if driving {
		telemetry.Set(20, false)
	}

	sess := session.New(session.Options{
		Device:    camera.NewSimDevice(camera.NewPose(0, 0, 0, 0, 0)),
		Clock:     camera.NewWallClock(),
		Telemetry: telemetry,
		Settings:  store,
		Logger:    logger,
	})
	store.OnChange(sess.SettingsChanged)

	srv := web.NewServer(g.addr, sess, store,
		web.WithPlanner(sess.Controller()),
		web.WithLogger(logger),
	)
	sess.OnStatus(srv.PublishStatus)

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx, tick) }()

	log.Info("cabinwalk started", "addr", g.addr, "settings", g.config, "tick", tick)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("cabinwalk stopped")
	return nil
}
