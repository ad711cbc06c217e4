package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/chat-session/internal/kv"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxSessions bounds the session index
	DefaultMaxSessions = 10
	// DefaultMaxMessages bounds each message log
	DefaultMaxMessages = 100
	// DefaultTitleLength is how many characters of the first user message
	// become the session title
	DefaultTitleLength = 10
	// DefaultTitle names sessions created without a title
	DefaultTitle = "default session"

	titleEllipsis = "…"
)

// Store is a multi-session conversation store on top of a key/value store.
//
// It owns the session index (most recently touched first), one message log
// per session, and the current session pointer, which is kept in memory and
// mirrored to storage. A Store is not safe for concurrent use. Two Stores
// sharing the same backend and prefix (two processes on one database, say)
// can lose each other's read-modify-write updates.
type Store struct {
	storage *Storage
	prefix  string
	logger  zerolog.Logger

	maxSessions  int
	maxMessages  int
	titleLength  int
	defaultTitle string
	transient    map[string]struct{}

	now   func() time.Time
	newID func() string

	current string
	resync  []func(Session)
}

// Option configures a Store
type Option func(*Store)

// WithMaxSessions sets the session index cap
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithMaxMessages sets the per-session message cap
func WithMaxMessages(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxMessages = n
		}
	}
}

// WithTitleLength sets how many characters of the first user message are
// used as the session title
func WithTitleLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.titleLength = n
		}
	}
}

// WithDefaultTitle sets the title of sessions created without one
func WithDefaultTitle(title string) Option {
	return func(s *Store) {
		if strings.TrimSpace(title) != "" {
			s.defaultTitle = title
		}
	}
}

// WithTransientTexts lists message texts that are accepted but never
// persisted, such as a "thinking..." placeholder
func WithTransientTexts(texts ...string) Option {
	return func(s *Store) {
		for _, text := range texts {
			s.transient[text] = struct{}{}
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the time source used for session and message timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the session id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New creates a Store over store with every key namespaced by prefix.
// Call Initialize before use.
func New(store kv.Store, prefix string, opts ...Option) *Store {
	s := &Store{
		storage:      NewStorage(store, prefix),
		prefix:       prefix,
		logger:       Logger(),
		maxSessions:  DefaultMaxSessions,
		maxMessages:  DefaultMaxMessages,
		titleLength:  DefaultTitleLength,
		defaultTitle: DefaultTitle,
		transient:    make(map[string]struct{}),
		now:          time.Now,
		newID:        newSessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("prefix", prefix).Logger()
	return s
}

func newSessionID() string {
	return "session_" + uuid.NewString()
}

// Prefix returns the key prefix of this store
func (s *Store) Prefix() string {
	return s.prefix
}

// Storage exposes the underlying persisted-state accessor
func (s *Store) Storage() *Storage {
	return s.storage
}

// OnResync registers fn to be called with the new current session whenever
// the current session changes underneath the caller (switch, or deletion of
// the current session). Displayed state should be rebuilt from it.
func (s *Store) OnResync(fn func(Session)) {
	if fn != nil {
		s.resync = append(s.resync, fn)
	}
}

// Initialize resolves the current session: the persisted pointer if it
// names a session in the index, else the most recently touched session
// (rewriting the stale pointer), else a newly created default session.
// Calling it again without intervening mutations is a no-op.
func (s *Store) Initialize() error {
	_, _, err := s.resolveCurrent()
	return err
}

// CreateSession creates a session, puts it at the head of the index and
// makes it current. An empty title selects the default title. When the index
// grows past the cap, the least recently touched session and its message log
// are removed.
func (s *Store) CreateSession(title string) (string, error) {
	session, err := s.createSession(title)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

func (s *Store) createSession(title string) (Session, error) {
	if strings.TrimSpace(title) == "" {
		title = s.defaultTitle
	}

	sessions := s.loadIndex()

	id := s.newID()
	for attempt := 0; indexOf(sessions, id) >= 0 || isReservedID(id); attempt++ {
		if attempt == 3 {
			return Session{}, fmt.Errorf("failed to generate a unique session id (last: %s)", id)
		}
		id = s.newID()
	}

	session := Session{
		ID:          id,
		Title:       title,
		Timestamp:   s.stamp(),
		MessagesKey: MessagesKey(s.prefix, id),
	}

	sessions = append([]Session{session}, sessions...)
	var evicted []Session
	if len(sessions) > s.maxSessions {
		evicted = append(evicted, sessions[s.maxSessions:]...)
		sessions = sessions[:s.maxSessions]
	}

	if err := s.saveIndex(sessions); err != nil {
		return Session{}, err
	}

	for _, old := range evicted {
		if err := s.storage.RemoveMessages(old.MessagesKey); err != nil {
			s.logger.Warn().Err(err).Str("session_id", old.ID).Msg("Failed to remove message log of evicted session")
			continue
		}
		s.logger.Debug().Str("session_id", old.ID).Msg("Evicted least recently used session")
	}

	if err := s.storage.SaveMessages(session.MessagesKey, []Message{}); err != nil {
		// An absent log reads as empty, so the session is still usable.
		s.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to initialize message log")
	}

	s.setCurrent(id)

	s.logger.Info().Str("session_id", id).Str("title", title).Msg("Session created")
	return session, nil
}

// SwitchSession makes id the current session, moves it to the head of the
// index and touches it. Unknown ids fail with ErrSessionNotFound and leave
// the current session unchanged. Resync listeners are notified on success.
func (s *Store) SwitchSession(id string) error {
	sessions := s.loadIndex()
	i := indexOf(sessions, id)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		s.logger.Warn().Str("session_id", id).Msg("Cannot switch to unknown session")
		return err
	}

	if err := s.storage.SavePointer(id); err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("Failed to persist current session")
		return err
	}
	s.current = id

	session := sessions[i]
	session.Timestamp = s.stamp()
	sessions = moveToFront(sessions, i, session)
	if err := s.saveIndex(sessions); err != nil {
		// The pointer already moved; only the recency order is stale.
		return err
	}

	s.logger.Debug().Str("session_id", id).Msg("Switched session")
	s.emitResync(session)
	return nil
}

// RenameSession overwrites the title of id. Blank titles are rejected.
// Recency order is not affected.
func (s *Store) RenameSession(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		err := &ValidationError{Field: "title", Reason: "cannot be empty"}
		s.logger.Warn().Str("session_id", id).Msg("Rejected empty session title")
		return err
	}

	sessions := s.loadIndex()
	i := indexOf(sessions, id)
	if i < 0 {
		s.logger.Warn().Str("session_id", id).Msg("Cannot rename unknown session")
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sessions[i].Title = title
	if err := s.saveIndex(sessions); err != nil {
		return err
	}

	s.logger.Debug().Str("session_id", id).Str("title", title).Msg("Session renamed")
	return nil
}

// DeleteSession removes id and its message log. If it was the current
// session, the most recently touched remaining session becomes current, or
// a new default session when none remain.
func (s *Store) DeleteSession(id string) error {
	sessions := s.loadIndex()
	i := indexOf(sessions, id)
	if i < 0 {
		s.logger.Warn().Str("session_id", id).Msg("Cannot delete unknown session")
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	victim := sessions[i]
	wasCurrent := id == s.currentID()

	if err := s.storage.RemoveMessages(victim.MessagesKey); err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("Failed to remove message log")
		return err
	}

	sessions = append(sessions[:i:i], sessions[i+1:]...)
	if err := s.saveIndex(sessions); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", id).Msg("Session deleted")

	if len(sessions) > 0 && !wasCurrent {
		return nil
	}

	if len(sessions) > 0 {
		s.setCurrent(sessions[0].ID)
		s.emitResync(sessions[0])
		return nil
	}

	session, err := s.createSession(s.defaultTitle)
	if err != nil {
		s.current = ""
		return err
	}
	s.emitResync(session)
	return nil
}

// Sessions returns the session index, most recently touched first. It never
// fails; unreadable data reads as an empty index.
func (s *Store) Sessions() []Session {
	return s.loadIndex()
}

// CurrentSession returns the current session, if one is set and still in
// the index
func (s *Store) CurrentSession() (Session, bool) {
	if s.current == "" {
		return Session{}, false
	}
	sessions := s.loadIndex()
	if i := indexOf(sessions, s.current); i >= 0 {
		return sessions[i], true
	}
	return Session{}, false
}

// resolveCurrent returns the current session and the index it was found in,
// self-healing a missing or stale pointer on the way.
func (s *Store) resolveCurrent() (Session, []Session, error) {
	sessions := s.loadIndex()

	if len(sessions) == 0 {
		s.logger.Debug().Msg("Session index empty, creating default session")
		session, err := s.createSession(s.defaultTitle)
		if err != nil {
			return Session{}, nil, err
		}
		return session, []Session{session}, nil
	}

	if s.current != "" {
		if i := indexOf(sessions, s.current); i >= 0 {
			return sessions[i], sessions, nil
		}
	}

	persisted, found, err := s.storage.LoadPointer()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read current session pointer")
	}
	if found {
		if i := indexOf(sessions, persisted); i >= 0 {
			s.current = persisted
			return sessions[i], sessions, nil
		}
	}

	head := sessions[0]
	if found {
		s.logger.Info().Str("stale_id", persisted).Str("session_id", head.ID).Msg("Current session pointer is stale, falling back to most recent session")
	}
	s.setCurrent(head.ID)
	return head, sessions, nil
}

// currentID returns the in-memory pointer, or the persisted one when this
// Store has not resolved it yet
func (s *Store) currentID() string {
	if s.current != "" {
		return s.current
	}
	persisted, found, err := s.storage.LoadPointer()
	if err != nil || !found {
		return ""
	}
	return persisted
}

// setCurrent updates the in-memory pointer and mirrors it to storage. A
// failed mirror is logged; the in-memory pointer stays authoritative.
func (s *Store) setCurrent(id string) {
	s.current = id
	if err := s.storage.SavePointer(id); err != nil {
		s.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to persist current session pointer")
	}
}

func (s *Store) emitResync(session Session) {
	for _, fn := range s.resync {
		fn(session)
	}
}

// loadIndex reads the index, recovering from unreadable data by treating it
// as empty and dropping entries that violate the index invariants.
func (s *Store) loadIndex() []Session {
	sessions, err := s.storage.LoadIndex()
	if err != nil {
		var corrupt *CorruptDataError
		if errors.As(err, &corrupt) {
			s.logger.Warn().Err(err).Str("key", corrupt.Key).Msg("Session index is corrupt, treating as empty")
		} else {
			s.logger.Warn().Err(err).Msg("Failed to read session index, treating as empty")
		}
		return []Session{}
	}

	seen := make(map[string]bool, len(sessions))
	valid := sessions[:0]
	for _, session := range sessions {
		if session.ID == "" || seen[session.ID] {
			s.logger.Warn().Str("session_id", session.ID).Msg("Skipping invalid or duplicate index entry")
			continue
		}
		seen[session.ID] = true
		if session.MessagesKey == "" {
			session.MessagesKey = MessagesKey(s.prefix, session.ID)
		}
		valid = append(valid, session)
	}
	return valid
}

func (s *Store) saveIndex(sessions []Session) error {
	if err := s.storage.SaveIndex(sessions); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist session index")
		return err
	}
	return nil
}

// loadMessages reads a message log, treating unreadable data as empty
func (s *Store) loadMessages(key string) []Message {
	messages, err := s.storage.LoadMessages(key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Message log unreadable, treating as empty")
		return []Message{}
	}
	return messages
}

func (s *Store) stamp() Timestamp {
	return TimestampOf(s.now())
}

func indexOf(sessions []Session, id string) int {
	for i, session := range sessions {
		if session.ID == id {
			return i
		}
	}
	return -1
}

// moveToFront returns sessions with the entry at i replaced by session and
// moved to index 0
func moveToFront(sessions []Session, i int, session Session) []Session {
	copy(sessions[1:i+1], sessions[:i])
	sessions[0] = session
	return sessions
}
