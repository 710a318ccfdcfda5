package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/widget"
)

func newWidgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Interactive prayer-times card with a live countdown",
		Long:  "Open a terminal card showing today's schedule and a per-second countdown.\nPress r to refresh and q to quit.",
		Args:  cobra.NoArgs,
		RunE:  runWidget,
	}
	cmd.Flags().StringVar(&flagMQTTBroker, "mqtt-broker", "", "Announce the next prayer to this MQTT broker (overrides config)")
	return cmd
}

func runWidget(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("mqtt-broker") {
		cfg.MQTTBroker = flagMQTTBroker
	}

	ctx := cmd.Context()
	announcer, closeMQTT := connectAnnouncer(ctx, cfg)
	defer closeMQTT()

	svc := newService(cmd, cfg)

	opts := []widget.Option{
		widget.WithNames(displayNames(cfg, prayer.DefaultDisplayNames)),
		widget.WithTwelveHour(twelveHour(cfg)),
	}
	if announcer != nil {
		opts = append(opts,
			widget.WithNextFunc(func(next prayer.Next, snap schedule.Snapshot) {
				announce(ctx, announcer, snap, next)
			}),
			// A manual refresh republishes the current next prayer.
			widget.WithManualRefreshFunc(announcer.Reset),
		)
	}
	return widget.Run(ctx, svc.Refresh, opts...)
}
