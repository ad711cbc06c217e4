package internal

// Session identifies one conversation thread in the session index
type Session struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Timestamp   Timestamp `json:"timestamp" yaml:"timestamp"` // created or last touched
	MessagesKey string    `json:"messagesKey" yaml:"messagesKey"`
}

// Message is one turn in a conversation
type Message struct {
	Text      string    `json:"text" yaml:"text"`
	IsUser    bool      `json:"isUser" yaml:"isUser"`
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`
}

// Actor returns "user" or "assistant"
func (m Message) Actor() string {
	if m.IsUser {
		return "user"
	}
	return "assistant"
}

// Transcript is a session together with its message log, in read order
type Transcript struct {
	Session  Session   `json:"session" yaml:"session"`
	Messages []Message `json:"messages" yaml:"messages"`
}
