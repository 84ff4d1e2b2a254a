package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/queue"
	"github.com/iliyamo/talent-hub/internal/repository"
)

// CandidateSource returns (athlete, event name) pairs for a category.
type CandidateSource interface {
	CandidatesByCategory(ctx context.Context, category string) ([]repository.EventCandidate, error)
}

// NotificationWriter stores one notification per user.
type NotificationWriter interface {
	CreateMany(ctx context.Context, userIDs []uint64, title, message string) error
}

// EventNotifier is told about every newly created event.  Implementations
// never fail the caller; problems are logged.
type EventNotifier interface {
	EventCreated(ctx context.Context, e model.Event)
}

// Publisher sends an event.created message to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev queue.EventCreated) error
}

// MatchAthletes returns the athletes to notify about an event, in first-seen
// order and without duplicates.  A candidate matches when its event name,
// compared case-insensitively, occurs in "title description".  Category
// filtering happens in the candidate query.
func MatchAthletes(title, description string, candidates []repository.EventCandidate) []uint64 {
	text := strings.ToLower(title + " " + description)
	seen := make(map[uint64]bool)
	var out []uint64
	for _, c := range candidates {
		if seen[c.AthleteID] {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(c.EventName))
		if name == "" || !strings.Contains(text, name) {
			continue
		}
		seen[c.AthleteID] = true
		out = append(out, c.AthleteID)
	}
	return out
}

// EventMessage converts an event into its broker payload.
func EventMessage(e model.Event) queue.EventCreated {
	return queue.EventCreated{
		EventID:     e.ID,
		Title:       e.Title,
		Description: deref(e.Description),
		Category:    deref(e.Category),
		EventDate:   e.EventDate,
		Venue:       deref(e.Venue),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// DirectNotifier matches and writes notifications in-process.
type DirectNotifier struct {
	Candidates CandidateSource
	Writer     NotificationWriter
	Log        logrus.FieldLogger
}

// Notify runs the matcher for ev and stores the notifications.  It is also
// the handler of the event.created consumer.
func (n *DirectNotifier) Notify(ctx context.Context, ev queue.EventCreated) error {
	if strings.TrimSpace(ev.Category) == "" {
		return nil
	}
	candidates, err := n.Candidates.CandidatesByCategory(ctx, ev.Category)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	ids := MatchAthletes(ev.Title, ev.Description, candidates)
	if len(ids) == 0 {
		return nil
	}
	title := "New event: " + ev.Title
	msg := fmt.Sprintf("%s on %s matches your events.", ev.Title, ev.EventDate)
	if ev.Venue != "" {
		msg = fmt.Sprintf("%s on %s at %s matches your events.", ev.Title, ev.EventDate, ev.Venue)
	}
	if err := n.Writer.CreateMany(ctx, ids, title, msg); err != nil {
		return fmt.Errorf("store notifications: %w", err)
	}
	n.Log.WithFields(logrus.Fields{"event_id": ev.EventID, "notified": len(ids)}).Info("event notifications stored")
	return nil
}

func (n *DirectNotifier) EventCreated(ctx context.Context, e model.Event) {
	if err := n.Notify(ctx, EventMessage(e)); err != nil {
		n.Log.WithError(err).WithField("event_id", e.ID).Error("event notification failed")
	}
}

// BrokerNotifier hands events to RabbitMQ and falls back to Direct when
// publishing fails.
type BrokerNotifier struct {
	Publisher Publisher
	Direct    *DirectNotifier
	Log       logrus.FieldLogger
}

func (n *BrokerNotifier) EventCreated(ctx context.Context, e model.Event) {
	if err := n.Publisher.Publish(ctx, EventMessage(e)); err != nil {
		n.Log.WithError(err).WithField("event_id", e.ID).Warn("publish event.created failed, notifying directly")
		n.Direct.EventCreated(ctx, e)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
