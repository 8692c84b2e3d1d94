package messaging

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	EventPersonCreated = "person.created"
	EventPersonUpdated = "person.updated"
	EventPersonDeleted = "person.deleted"
	EventPersonRenamed = "person.renamed"
)

// ChangeEvent tells connected viewers the roster changed and they should
// re-fetch. It carries identifiers only, never record contents.
type ChangeEvent struct {
	Kind       string `mapstructure:"kind"`
	PersonId   string `mapstructure:"personId"`
	PreviousId string `mapstructure:"previousId,omitempty"`
	Actor      string `mapstructure:"actor,omitempty"`
}

// NewChangeMessage flattens the event into message attributes so consumers
// can filter without decoding a payload.
func NewChangeMessage(event ChangeEvent) Message {
	attributes := map[string]string{
		"kind":     event.Kind,
		"personId": event.PersonId,
	}
	if event.PreviousId != "" {
		attributes["previousId"] = event.PreviousId
	}
	if event.Actor != "" {
		attributes["actor"] = event.Actor
	}
	return Message{Attributes: attributes}
}

// ParseChangeEvent is the consumer-side counterpart of NewChangeMessage.
func ParseChangeEvent(msg Message) (ChangeEvent, error) {
	event := ChangeEvent{}
	if err := mapstructure.Decode(msg.Attributes, &event); err != nil {
		return ChangeEvent{}, errors.Wrap(err, "failed to decode change event")
	}
	if event.Kind == "" {
		return ChangeEvent{}, errors.New("change event has no kind attribute")
	}
	return event, nil
}
