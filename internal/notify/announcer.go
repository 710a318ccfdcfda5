// Package notify announces the upcoming prayer over MQTT so other devices
// (a wall display, a home automation hub) can follow along.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

// Publisher delivers one payload. *MQTTClient satisfies it.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

var _ Publisher = (*MQTTClient)(nil)

// Message is the retained payload describing the next prayer.
type Message struct {
	Name          prayer.Name       `json:"name"`
	LocalizedName string            `json:"localized_name"`
	Time          string            `json:"time"`
	Tomorrow      bool              `json:"tomorrow"`
	Date          string            `json:"date"`
	Label         string            `json:"label"`
	Provenance    prayer.Provenance `json:"provenance"`
	Disclaimer    string            `json:"disclaimer,omitempty"`
}

// NewMessage describes next within snap. The countdown is left out so the
// payload only changes when the next prayer does.
func NewMessage(snap schedule.Snapshot, next prayer.Next) Message {
	return Message{
		Name:          next.Name,
		LocalizedName: next.LocalizedName,
		Time:          next.Time,
		Tomorrow:      next.Tomorrow,
		Date:          snap.Result.Set.Date.Format("2006-01-02"),
		Label:         snap.Resolution.Label,
		Provenance:    snap.Result.Set.Provenance,
		Disclaimer:    snap.Result.Disclaimer,
	}
}

// Announcer publishes a Message whenever it differs from the last one sent.
// It is safe for concurrent use.
type Announcer struct {
	Publisher Publisher
	Topic     string

	mu   sync.Mutex
	last []byte
}

// NewAnnouncer returns an announcer for topic.
func NewAnnouncer(p Publisher, topic string) *Announcer {
	return &Announcer{Publisher: p, Topic: topic}
}

// Announce publishes msg unless it repeats the previous announcement.
// It reports whether anything was sent. A failed publish is retried on the
// next call.
func (a *Announcer) Announce(ctx context.Context, msg Message) (bool, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return false, fmt.Errorf("marshal announcement: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if bytes.Equal(payload, a.last) {
		return false, nil
	}
	if err := a.Publisher.Publish(a.Topic, payload); err != nil {
		return false, err
	}
	a.last = payload

	zerolog.Ctx(ctx).Info().
		Str("topic", a.Topic).
		Str("prayer", string(msg.Name)).
		Str("time", msg.Time).
		Msg("announced next prayer")
	return true, nil
}

// Reset forgets the last announcement so the next call always publishes.
func (a *Announcer) Reset() {
	a.mu.Lock()
	a.last = nil
	a.mu.Unlock()
}
