package internal

import (
	"cmp"
	"errors"
	"slices"
	"strings"
)

// Report describes the integrity of a store's persisted state
type Report struct {
	Sessions       int      `json:"sessions"`
	Messages       int      `json:"messages"`
	Duplicates     []string `json:"duplicates,omitempty"`
	Corrupt        []string `json:"corrupt,omitempty"`
	Oversized      []string `json:"oversized,omitempty"`
	Orphans        []string `json:"orphans,omitempty"`
	OrphansChecked bool     `json:"orphansChecked"`
	Overflow       int      `json:"overflow,omitempty"`
	StalePointer   string   `json:"stalePointer,omitempty"`
	MissingPointer bool     `json:"missingPointer,omitempty"`
}

// Healthy reports whether no problems were found
func (r *Report) Healthy() bool {
	return len(r.Duplicates) == 0 &&
		len(r.Corrupt) == 0 &&
		len(r.Oversized) == 0 &&
		len(r.Orphans) == 0 &&
		r.Overflow == 0 &&
		r.StalePointer == "" &&
		!r.MissingPointer
}

// Check inspects the persisted state without modifying it. Orphaned message
// logs are only detected when the backend can list keys.
func (s *Store) Check() (*Report, error) {
	report := &Report{}

	sessions, err := s.storage.LoadIndex()
	if err != nil {
		var corrupt *CorruptDataError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		report.Corrupt = append(report.Corrupt, corrupt.Key)
	}

	seen := make(map[string]bool, len(sessions))
	referenced := map[string]bool{
		SessionsKey(s.prefix):       true,
		CurrentSessionKey(s.prefix): true,
	}
	for _, session := range sessions {
		if session.ID == "" || seen[session.ID] {
			report.Duplicates = append(report.Duplicates, session.ID)
			continue
		}
		seen[session.ID] = true
		report.Sessions++

		key := session.MessagesKey
		if key == "" {
			key = MessagesKey(s.prefix, session.ID)
		}
		referenced[key] = true

		messages, err := s.storage.LoadMessages(key)
		if err != nil {
			var corrupt *CorruptDataError
			if !errors.As(err, &corrupt) {
				return nil, err
			}
			report.Corrupt = append(report.Corrupt, key)
			continue
		}
		report.Messages += len(messages)
		if len(messages) > s.maxMessages {
			report.Oversized = append(report.Oversized, key)
		}
	}
	if report.Sessions > s.maxSessions {
		report.Overflow = report.Sessions - s.maxSessions
	}

	pointer, found, err := s.storage.LoadPointer()
	if err != nil {
		return nil, err
	}
	switch {
	case found && !seen[pointer]:
		report.StalePointer = pointer
	case !found && report.Sessions > 0:
		report.MissingPointer = true
	}

	keys, err := s.storage.Keys()
	switch {
	case errors.Is(err, ErrListingUnsupported):
		s.logger.Debug().Msg("Backend cannot list keys, skipping orphan detection")
	case err != nil:
		return nil, err
	default:
		report.OrphansChecked = true
		for _, key := range keys {
			if !referenced[key] {
				report.Orphans = append(report.Orphans, key)
			}
		}
		slices.Sort(report.Orphans)
	}

	return report, nil
}

// Repair fixes everything Check reports: orphaned logs are removed, the
// index is deduplicated and trimmed to the session cap, corrupt values are
// reset to empty, oversized logs are truncated and the current session
// pointer is re-resolved. When the index itself is corrupt, readable message
// logs under the prefix are re-indexed instead of removed. It returns the
// report of the state before repair.
func (s *Store) Repair() (*Report, error) {
	report, err := s.Check()
	if err != nil {
		return nil, err
	}
	if report.Healthy() {
		return report, nil
	}

	sessions := s.loadIndex()
	if slices.Contains(report.Corrupt, SessionsKey(s.prefix)) {
		sessions = append(sessions, s.adoptLogs(report.Orphans)...)
	}
	if len(sessions) > s.maxSessions {
		for _, old := range sessions[s.maxSessions:] {
			if err := s.storage.RemoveMessages(old.MessagesKey); err != nil {
				return report, err
			}
		}
		sessions = sessions[:s.maxSessions]
	}
	if err := s.saveIndex(sessions); err != nil {
		return report, err
	}

	live := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		live[session.MessagesKey] = true
	}

	for _, key := range report.Corrupt {
		if !live[key] {
			continue
		}
		if err := s.storage.SaveMessages(key, []Message{}); err != nil {
			return report, err
		}
	}

	for _, key := range report.Oversized {
		messages, err := s.storage.LoadMessages(key)
		if err != nil {
			return report, err
		}
		if !live[key] || len(messages) <= s.maxMessages {
			continue
		}
		if err := s.storage.SaveMessages(key, messages[len(messages)-s.maxMessages:]); err != nil {
			return report, err
		}
	}

	for _, key := range report.Orphans {
		if live[key] {
			continue
		}
		if err := s.storage.Remove(key); err != nil {
			return report, err
		}
	}

	s.current = ""
	if _, _, err := s.resolveCurrent(); err != nil {
		return report, err
	}

	s.logger.Info().
		Int("orphans", len(report.Orphans)).
		Int("corrupt", len(report.Corrupt)).
		Int("duplicates", len(report.Duplicates)).
		Msg("Repaired session store")
	return report, nil
}

// adoptLogs rebuilds index entries for the readable message logs among keys,
// most recently active first. Each log is trimmed to the message cap and
// titled from its first user message.
func (s *Store) adoptLogs(keys []string) []Session {
	var adopted []Session
	for _, key := range keys {
		id := strings.TrimPrefix(key, s.prefix+"_")
		if id == "" || id == key || isReservedID(id) {
			continue
		}
		messages, err := s.storage.LoadMessages(key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Orphaned value is not a message log, dropping it")
			continue
		}
		if len(messages) > s.maxMessages {
			messages = sortedMessages(messages)[len(messages)-s.maxMessages:]
			if err := s.storage.SaveMessages(key, messages); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("Failed to trim adopted message log")
			}
		}

		session := Session{ID: id, Title: s.defaultTitle, MessagesKey: key}
		titled := false
		for _, msg := range sortedMessages(messages) {
			if !titled && msg.IsUser {
				titled = true
				if title := deriveTitle(msg.Text, s.titleLength); title != "" {
					session.Title = title
				}
			}
			session.Timestamp = max(session.Timestamp, msg.Timestamp)
		}
		if session.Timestamp.IsZero() {
			session.Timestamp = s.stamp()
		}
		adopted = append(adopted, session)
		s.logger.Info().Str("session_id", id).Str("key", key).Msg("Re-indexed orphaned message log")
	}

	slices.SortStableFunc(adopted, func(a, b Session) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return adopted
}
