// Package codec translates socket frames to and from domain envelopes.
// Frames are decoded once here; the engine never probes raw fields.
package codec

import (
	"chat-client/domain/event"
	"chat-client/errors"
	"encoding/json"
	"fmt"
)

const (
	userListType = "user_list"
	systemType   = "system"
)

// inboundFrame is the server's frame: {"message_type"?, "message", "username"?, "channel"?}.
type inboundFrame struct {
	MessageType *string `json:"message_type"`
	Message     string  `json:"message"`
	Username    string  `json:"username"`
	Channel     string  `json:"channel"`
}

type outboundFrame struct {
	Username string `json:"username"`
	Channel  string `json:"channel"`
	Message  string `json:"message"`
}

// Decode maps one inbound frame to its envelope.
// It returns ErrMalformedEnvelope, ErrMalformedSnapshot, ErrUnknownEnvelope or
// ErrEmptyEnvelope when the frame must be discarded.
func Decode(raw []byte) (event.Envelope, error) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedEnvelope, err)
	}

	messageType := ""
	if frame.MessageType != nil {
		messageType = *frame.MessageType
	}

	switch messageType {
	case userListType:
		var names []string
		if err := json.Unmarshal([]byte(frame.Message), &names); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrMalformedSnapshot, err)
		}
		return event.PresenceSnapshot{Names: names}, nil
	case systemType:
		return event.SystemNotice{Text: frame.Message}, nil
	case "":
		if frame.Message == "" {
			return nil, errors.ErrEmptyEnvelope
		}
		return event.ChatReceived{Username: frame.Username, Content: frame.Message}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEnvelope, messageType)
	}
}

// Encode serializes an outbound envelope.
func Encode(out event.Outbound) ([]byte, error) {
	return json.Marshal(outboundFrame{
		Username: out.Username,
		Channel:  out.Channel,
		Message:  out.Content,
	})
}
