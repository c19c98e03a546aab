package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssistantRun struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID         `gorm:"type:uuid;not null;index"`
	MessageId      uuid.UUID         `gorm:"type:uuid;not null"`
	Provider       string            `gorm:"type:varchar(50);not null"`
	Model          string            `gorm:"type:varchar(100)"`
	Outcome        string            `gorm:"type:varchar(20);not null"`
	ErrorDetail    *string           `gorm:"type:text"`
	Options        datatypes.JSONMap
	LatencyMs      int64             `gorm:"not null;default:0"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
}

func (AssistantRun) TableName() string {
	return "assistant_runs"
}

func (r *AssistantRun) BeforeCreate(tx *gorm.DB) error {
	if r.Id == uuid.Nil {
		r.Id = uuid.New()
	}
	return nil
}
