package internal

// Key derives a storage key from a store-wide prefix and a name
func Key(prefix, name string) string {
	return prefix + "_" + name
}

// SessionsKey is the key the session index is stored under
func SessionsKey(prefix string) string {
	return Key(prefix, "sessions")
}

// reservedIDs are names whose message key would collide with a store key
var reservedIDs = map[string]bool{
	"sessions":           true,
	"current_session_id": true,
}

func isReservedID(id string) bool {
	return reservedIDs[id]
}

// CurrentSessionKey is the key the current session pointer is stored under
func CurrentSessionKey(prefix string) string {
	return Key(prefix, "current_session_id")
}

// MessagesKey is the key a session's message log is stored under
func MessagesKey(prefix, sessionID string) string {
	return Key(prefix, sessionID)
}
