package internal

// Legacy single-log history keys written before sessions existed
const (
	LegacyChatHistoryKey       = "chatHistory"
	LegacyCalculatorHistoryKey = "calculatorHistory"
)

// MigrateLegacyHistory moves a pre-session history stored under legacyKey
// into a new session, which becomes current. The session is titled from the
// first user message. The legacy key is removed once the new session is
// persisted. It reports the new session id and whether anything was
// migrated. Missing or unreadable legacy data migrates nothing and is left
// in place.
func (s *Store) MigrateLegacyHistory(legacyKey string) (string, bool, error) {
	raw, found, err := s.storage.Raw(legacyKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", legacyKey).Msg("Failed to read legacy history")
		return "", false, err
	}
	if !found || raw == "" {
		return "", false, nil
	}

	messages, err := s.storage.LoadMessages(legacyKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", legacyKey).Msg("Legacy history is unreadable, skipping migration")
		return "", false, nil
	}

	if len(messages) == 0 {
		if err := s.storage.Remove(legacyKey); err != nil {
			s.logger.Warn().Err(err).Str("key", legacyKey).Msg("Failed to remove empty legacy history")
		}
		return "", false, nil
	}

	if len(messages) > s.maxMessages {
		messages = messages[len(messages)-s.maxMessages:]
	}
	for i := range messages {
		if messages[i].Timestamp.IsZero() {
			messages[i].Timestamp = s.stamp()
		}
	}

	title := s.defaultTitle
	for _, message := range messages {
		if message.IsUser {
			if derived := deriveTitle(message.Text, s.titleLength); derived != "" {
				title = derived
			}
			break
		}
	}

	session, err := s.createSession(title)
	if err != nil {
		return "", false, err
	}

	if err := s.storage.SaveMessages(session.MessagesKey, messages); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to persist migrated history")
		return session.ID, false, err
	}

	if err := s.storage.Remove(legacyKey); err != nil {
		s.logger.Warn().Err(err).Str("key", legacyKey).Msg("Failed to remove legacy history")
	}

	s.logger.Info().Str("session_id", session.ID).Int("messages", len(messages)).Str("key", legacyKey).Msg("Migrated legacy history")
	return session.ID, true, nil
}
