package internal

import (
	"encoding/json"
	"fmt"
	"slices"
)

// AppendMessage appends message to the current session, creating a session
// first if none can be resolved. A missing timestamp is set to now. The log
// keeps only the most recent messages up to the configured cap. A user
// message that opens an empty log also retitles the session.
func (s *Store) AppendMessage(message Message) error {
	if _, ok := s.transient[message.Text]; ok {
		s.logger.Debug().Str("text", message.Text).Msg("Skipping transient message")
		return nil
	}

	if message.Timestamp.IsZero() {
		message.Timestamp = s.stamp()
	}

	session, sessions, err := s.resolveCurrent()
	if err != nil {
		s.logger.Error().Err(err).Msg("No current session to append to")
		return err
	}

	messages := s.loadMessages(session.MessagesKey)
	first := len(messages) == 0

	messages = append(messages, message)
	if len(messages) > s.maxMessages {
		messages = messages[len(messages)-s.maxMessages:]
	}

	if err := s.storage.SaveMessages(session.MessagesKey, messages); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to persist message log")
		return err
	}

	if first && message.IsUser {
		if title := deriveTitle(message.Text, s.titleLength); title != "" {
			session.Title = title
		}
	}
	session.Timestamp = s.stamp()

	i := indexOf(sessions, session.ID)
	if i < 0 {
		// Resolution always returns a session from the index it loaded.
		sessions = append([]Session{session}, sessions...)
	} else {
		sessions = moveToFront(sessions, i, session)
	}
	return s.saveIndex(sessions)
}

// AppendRawMessage validates a JSON encoded message and appends it. Messages
// missing text or isUser are rejected with a *ValidationError.
func (s *Store) AppendRawMessage(raw []byte) error {
	if err := ValidateRawMessage(raw); err != nil {
		s.logger.Warn().Err(err).Msg("Rejected malformed message")
		return err
	}

	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		s.logger.Warn().Err(err).Msg("Rejected malformed message")
		return &ValidationError{Field: "message", Reason: err.Error()}
	}
	return s.AppendMessage(message)
}

// ReadHistory returns the current session's messages in ascending timestamp
// order. Messages with equal timestamps keep their append order. It never
// fails; when no session can be resolved the history is empty.
func (s *Store) ReadHistory() []Message {
	session, _, err := s.resolveCurrent()
	if err != nil {
		s.logger.Warn().Err(err).Msg("No current session, history is empty")
		return []Message{}
	}
	return sortedMessages(s.loadMessages(session.MessagesKey))
}

// History returns the messages of any session in ascending timestamp order
// without changing the current session
func (s *Store) History(id string) ([]Message, error) {
	sessions := s.loadIndex()
	i := indexOf(sessions, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sortedMessages(s.loadMessages(sessions[i].MessagesKey)), nil
}

// Transcript returns a session together with its sorted messages
func (s *Store) Transcript(id string) (*Transcript, error) {
	sessions := s.loadIndex()
	i := indexOf(sessions, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return &Transcript{
		Session:  sessions[i],
		Messages: sortedMessages(s.loadMessages(sessions[i].MessagesKey)),
	}, nil
}

// ClearHistory empties the current session's message log. The session and
// its title are kept.
func (s *Store) ClearHistory() error {
	session, ok := s.CurrentSession()
	if !ok {
		s.logger.Warn().Msg("Cannot clear history without a current session")
		return ErrNoCurrentSession
	}

	if err := s.storage.SaveMessages(session.MessagesKey, []Message{}); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to clear message log")
		return err
	}

	s.logger.Debug().Str("session_id", session.ID).Msg("History cleared")
	return nil
}

func sortedMessages(messages []Message) []Message {
	slices.SortStableFunc(messages, func(a, b Message) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
	return messages
}

// deriveTitle returns the first n characters of text, with an ellipsis when
// text was longer
func deriveTitle(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + titleEllipsis
}
