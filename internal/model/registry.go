package model

// All returns every table the application owns, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserRefreshToken{},
		&Conversation{},
		&Message{},
		&AssistantRun{},
	}
}
