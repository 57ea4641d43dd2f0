package event

// Type tags every envelope crossing the socket.
type Type string

const (
	PresenceSnapshotType Type = "presence_snapshot"
	SystemNoticeType     Type = "system_notice"
	ChatType             Type = "chat"
)

// Envelope is the closed set of inbound frames the engine understands.
// Anything else is rejected by the codec before it reaches the engine.
type Envelope interface {
	Type() Type
}

// PresenceSnapshot replaces the whole presence set.
type PresenceSnapshot struct {
	Names []string
}

func (PresenceSnapshot) Type() Type { return PresenceSnapshotType }

// SystemNotice is free text announced by the server (joins, leaves, anything else).
type SystemNotice struct {
	Text string
}

func (SystemNotice) Type() Type { return SystemNoticeType }

// ChatReceived is a chat line relayed by the server, our own echoes included.
type ChatReceived struct {
	Username string
	Content  string
}

func (ChatReceived) Type() Type { return ChatType }

// Outbound is what the client writes on the socket.
// An empty Content is a join or a leave, depending on when it is sent.
type Outbound struct {
	Username string
	Channel  string
	Content  string
}

func (o Outbound) IsSignal() bool {
	return o.Content == ""
}
