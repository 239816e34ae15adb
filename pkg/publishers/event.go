package publishers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/tmdb-people/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	ID          string              `json:"id"`
	FeedID      string              `json:"feed_id"`
	FeedName    string              `json:"feed_name"`
	Fingerprint string              `json:"fingerprint"`
	Person      domain.PersonRecord `json:"person"`
	CollectedAt time.Time           `json:"collected_at"`
}

// NewEvent constructs an Event for the given feed + person record.
func NewEvent(feedID, feedName string, person domain.PersonRecord) Event {
	return Event{
		ID:          uuid.NewString(),
		FeedID:      feedID,
		FeedName:    feedName,
		Fingerprint: person.Fingerprint(),
		Person:      person,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to queue/topic messages for subscriber filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"feed_id":   e.FeedID,
		"person_id": formatPersonID(e.Person.ID),
	}
}

// encode renders the event as a JSON message body.
func (e Event) encode() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.ID, err)
	}
	return payload, nil
}

// logDelivery records the outcome of one publish attempt.
func logDelivery(log Logger, p Publisher, evt Event, messageID string, err error) {
	fields := map[string]any{
		"publisher_id": p.ID(),
		"event_id":     evt.ID,
		"feed_id":      evt.FeedID,
		"person_id":    evt.Person.ID,
	}
	key := "publisher_" + p.Type()
	if err != nil {
		fields["error"] = err.Error()
		log.ErrorObj(p.Type()+" publisher send failed", key+"_error", fields)
		return
	}
	if messageID != "" {
		fields["message_id"] = messageID
	}
	log.DebugObj(p.Type()+" publisher delivered event", key+"_delivery", fields)
}
