package internal

// testEpoch is 2023-11-14T22:13:20Z in Unix milliseconds
const testEpoch Timestamp = 1700000000000

// CreateTestTranscript creates a test transcript with a short exchange
func CreateTestTranscript(id string) *Transcript {
	return CreateTestTranscriptWithMessages(id, []Message{
		{
			Text:      "Hello, how are you?",
			IsUser:    true,
			Timestamp: testEpoch,
		},
		{
			Text:      "I'm doing well, thank you!",
			IsUser:    false,
			Timestamp: testEpoch + 1000,
		},
	})
}

// CreateTestTranscriptWithMessages creates a test transcript with custom messages
func CreateTestTranscriptWithMessages(id string, messages []Message) *Transcript {
	title := DefaultTitle
	if len(messages) > 0 && messages[0].IsUser {
		title = deriveTitle(messages[0].Text, DefaultTitleLength)
	}
	return &Transcript{
		Session: Session{
			ID:          id,
			Title:       title,
			Timestamp:   testEpoch,
			MessagesKey: MessagesKey("chat", id),
		},
		Messages: messages,
	}
}
