package internal

import "time"

// CreateTestSession creates a session with a user/assistant exchange,
// for use in tests.
func CreateTestSession(id string, updatedAt time.Time) Session {
	return Session{
		SessionID: id,
		UpdatedAt: updatedAt,
		Messages: []Message{
			{
				Role:    "user",
				Content: "Is this link safe?",
				TS:      updatedAt.Add(-time.Minute).Format(time.RFC3339),
			},
			{
				Role:    "assistant",
				Content: "Let me check it for you.",
				TS:      updatedAt.Format(time.RFC3339),
			},
		},
	}
}

// CreateTestSessionWithMessages creates a session with custom messages.
func CreateTestSessionWithMessages(id string, updatedAt time.Time, messages []Message) Session {
	return Session{
		SessionID: id,
		UpdatedAt: updatedAt,
		Messages:  messages,
	}
}
