package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringField(t *testing.T) {
	e := BaseEvent{
		Type:       TypeUserDeleted,
		Data:       map[string]interface{}{"email": "a@example.com", "count": 3},
		OccurredAt: time.Now(),
	}

	assert.Equal(t, "a@example.com", StringField(e, "email"))
	assert.Equal(t, "", StringField(e, "count"))
	assert.Equal(t, "", StringField(e, "missing"))
	assert.Equal(t, "", StringField(BaseEvent{}, "email"))
	assert.Equal(t, "", StringField(nil, "email"))
}
