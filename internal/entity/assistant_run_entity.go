package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReplyOutcome string

const (
	ReplyOutcomeCompleted ReplyOutcome = "completed"
	ReplyOutcomeEmpty     ReplyOutcome = "empty"
	ReplyOutcomeFallback  ReplyOutcome = "fallback"
)

// AssistantRun records one completion attempt for auditing.
type AssistantRun struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	MessageId      uuid.UUID
	Provider       string
	Model          string
	Outcome        ReplyOutcome
	ErrorDetail    *string
	Options        map[string]interface{}
	LatencyMs      int64
	CreatedAt      time.Time
}
