// Package events turns connector lifecycle events into student record
// updates and relationship calls.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yigit/schoolconnector/internal/pkg/connector"
)

// Kind names an event variant
type Kind string

const (
	KindRequestAutoCompleted Kind = "requestAutoCompleted"
	KindRelationshipChanged  Kind = "relationshipChanged"
)

// Connector webhook triggers
const (
	TriggerRequestAutoCompleted = "consumption.outgoingRequestFromRelationshipCreationCreatedAndCompleted"
	TriggerRelationshipChanged  = "transport.relationshipChanged"
)

var (
	// ErrUnsupportedEvent is returned for triggers the reconciler does not handle.
	ErrUnsupportedEvent = errors.New("unsupported event")
	// ErrMalformedEvent is returned when a payload lacks the referenced ids.
	ErrMalformedEvent = errors.New("malformed event")
)

// Event is one of the event variants below
type Event interface {
	Kind() Kind
}

// RequestAutoCompletedEvent is emitted when a student accepted an onboarding
// template and the connector completed the attached request.
type RequestAutoCompletedEvent struct {
	TemplateID     string
	RelationshipID string
}

func (RequestAutoCompletedEvent) Kind() Kind { return KindRequestAutoCompleted }

// RelationshipChangedEvent is emitted on every relationship status change
type RelationshipChangedEvent struct {
	RelationshipID string
	Status         connector.RelationshipStatus
}

func (RelationshipChangedEvent) Kind() Kind { return KindRelationshipChanged }

// Envelope is the connector's webhook and message broker payload
type Envelope struct {
	Trigger string          `json:"trigger"`
	Data    json.RawMessage `json:"data"`
}

// Decode parses a connector event payload
func Decode(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return env.Event()
}

// Event converts the envelope into its typed variant
func (e Envelope) Event() (Event, error) {
	switch e.Trigger {
	case TriggerRequestAutoCompleted:
		var req connector.LocalRequest
		if err := json.Unmarshal(e.Data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if req.Source == nil || req.Source.Reference == "" {
			return nil, fmt.Errorf("%w: request %s has no source", ErrMalformedEvent, req.ID)
		}
		if req.Response == nil || req.Response.Source == nil || req.Response.Source.Reference == "" {
			return nil, fmt.Errorf("%w: request %s has no response source", ErrMalformedEvent, req.ID)
		}
		return RequestAutoCompletedEvent{
			TemplateID:     req.Source.Reference,
			RelationshipID: req.Response.Source.Reference,
		}, nil

	case TriggerRelationshipChanged:
		var rel connector.Relationship
		if err := json.Unmarshal(e.Data, &rel); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if rel.ID == "" {
			return nil, fmt.Errorf("%w: relationship without id", ErrMalformedEvent)
		}
		return RelationshipChangedEvent{RelationshipID: rel.ID, Status: rel.Status}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, e.Trigger)
	}
}
