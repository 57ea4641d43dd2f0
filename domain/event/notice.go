package event

import "strings"

type PresenceAction string

const (
	JOINED PresenceAction = "JOINED"
	LEFT   PresenceAction = "LEFT"
)

// PresenceChange is what ParseNotice extracts from a system notice.
type PresenceChange struct {
	Action   PresenceAction
	Username string
}

// ParseNotice guesses a join or leave from the notice text.
// "joined" wins over "left" and the actor is the first whitespace-delimited token,
// so usernames with spaces or differently phrased notices are misread.
// The server does not send a structured event for this yet.
func ParseNotice(text string) (PresenceChange, bool) {
	var action PresenceAction
	switch {
	case strings.Contains(text, "joined"):
		action = JOINED
	case strings.Contains(text, "left"):
		action = LEFT
	default:
		return PresenceChange{}, false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return PresenceChange{}, false
	}
	return PresenceChange{Action: action, Username: fields[0]}, true
}
