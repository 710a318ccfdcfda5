package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/config"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/notify"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

var (
	flagFormat     string
	flagWatch      bool
	flagMQTTBroker string
	flagMQTTTopic  string
)

var mqttConnectTimeout = 10 * time.Second

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Display the next prayer and the time left until it.\n" +
			"Suitable for status bars; --watch keeps the countdown running until interrupted.",
		Args: cobra.NoArgs,
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Redraw the countdown every second")
	cmd.Flags().StringVar(&flagMQTTBroker, "mqtt-broker", "", "Announce the next prayer to this MQTT broker (overrides config)")
	cmd.Flags().StringVar(&flagMQTTTopic, "mqtt-topic", "", "MQTT topic (default: "+config.DefaultMQTTTopic+")")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("mqtt-broker") {
		cfg.MQTTBroker = flagMQTTBroker
	}
	if cmd.Flags().Changed("mqtt-topic") {
		cfg.MQTTTopic = flagMQTTTopic
	}

	ctx := cmd.Context()
	announcer, closeMQTT := connectAnnouncer(ctx, cfg)
	defer closeMQTT()

	svc := newService(cmd, cfg)
	snap := svc.Refresh(ctx, time.Now())
	out := cmd.OutOrStdout()

	if !flagWatch {
		next := snap.Next(time.Now())
		announce(ctx, announcer, snap, next)
		fmt.Fprint(out, prayer.FormatOutput(next, flagFormat, twelveHour(cfg)))
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	return watchNext(ctx, out, svc.Refresh, snap, time.Now(), ticker.C, announcer, twelveHour(cfg))
}

// watchNext redraws the countdown on every tick. When the day changes in the
// schedule's zone a refresh runs in the background and the countdown keeps
// going on the old snapshot until the new one arrives.
func watchNext(ctx context.Context, w io.Writer, refresh func(context.Context, time.Time) schedule.Snapshot,
	snap schedule.Snapshot, start time.Time, ticks <-chan time.Time, announcer *notify.Announcer, twelve bool) error {
	day := snap.Result.Set.Date.Format(dayLayout)
	render := func(now time.Time) {
		next := snap.Next(now)
		announce(ctx, announcer, snap, next)
		fmt.Fprintf(w, "\r\033[K%s", prayer.FormatOutput(next, flagFormat, twelve))
	}

	// nil while no refresh is in flight.
	var pending chan schedule.Snapshot

	render(start)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return nil
		case fresh := <-pending:
			snap, pending = fresh, nil
			day = snap.Result.Set.Date.Format(dayLayout)
		case now := <-ticks:
			if pending == nil && now.In(snap.Location()).Format(dayLayout) != day {
				pending = make(chan schedule.Snapshot, 1)
				go func(ch chan<- schedule.Snapshot, now time.Time) {
					ch <- refresh(ctx, now)
				}(pending, now)
			}
			render(now)
		}
	}
}

// connectAnnouncer returns nil when no broker is configured or it is unreachable;
// announcing is optional and never fails the command.
func connectAnnouncer(ctx context.Context, cfg *config.Config) (*notify.Announcer, func()) {
	if cfg.MQTTBroker == "" {
		return nil, func() {}
	}
	log := zerolog.Ctx(ctx)

	client := notify.NewMQTTClient(cfg.MQTTBroker, "jadwal-sholat-"+uuid.NewString()[:8], *log)
	cctx, cancel := context.WithTimeout(ctx, mqttConnectTimeout)
	defer cancel()
	if err := client.Connect(cctx); err != nil {
		log.Warn().Err(err).Str("broker", cfg.MQTTBroker).Msg("mqtt unavailable, not announcing")
		client.Disconnect()
		return nil, func() {}
	}
	return notify.NewAnnouncer(client, cfg.TopicOrDefault()), client.Disconnect
}

func announce(ctx context.Context, a *notify.Announcer, snap schedule.Snapshot, next prayer.Next) {
	if a == nil {
		return
	}
	if _, err := a.Announce(ctx, notify.NewMessage(snap, next)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("announce failed")
	}
}
