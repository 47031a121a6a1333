package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisputeEventKind represents the type of a dispute lifecycle event.
type DisputeEventKind string

const (
	EventDisputeOpened   DisputeEventKind = "dispute_opened"
	EventDisputeResolved DisputeEventKind = "dispute_resolved"
	EventChargeback      DisputeEventKind = "chargeback"
)

// DisputeEvent is emitted whenever a retained transaction changes dispute
// state. Ignored records emit nothing.
type DisputeEvent struct {
	ID         uuid.UUID        `json:"event_id"`
	Kind       DisputeEventKind `json:"kind"`
	Client     ClientID         `json:"client"`
	Tx         TxID             `json:"tx"`
	Amount     decimal.Decimal  `json:"amount"`
	OccurredAt time.Time        `json:"occurred_at"`
}
