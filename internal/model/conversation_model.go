package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_user_id"`
	Title     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	User *User `gorm:"foreignKey:UserId;references:Id;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	return nil
}

type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_timestamp,priority:1"`
	Content        string    `gorm:"type:text;not null"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Timestamp      int64     `gorm:"not null;index:idx_messages_conversation_timestamp,priority:2"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Conversation *Conversation `gorm:"foreignKey:ConversationId;references:Id;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	return nil
}
