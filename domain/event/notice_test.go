package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNotice(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   PresenceChange
		wantOk bool
	}{
		{"Join notice", "carol joined general", PresenceChange{JOINED, "carol"}, true},
		{"Leave notice", "carol left general", PresenceChange{LEFT, "carol"}, true},
		{"Leading spaces", "  dave joined general", PresenceChange{JOINED, "dave"}, true},
		{"Joined wins over left", "erin left and joined again", PresenceChange{JOINED, "erin"}, true},
		{"Other announcement", "server restarting soon", PresenceChange{}, false},
		{"Username with space is cut", "mary ann joined general", PresenceChange{JOINED, "mary"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, ok := ParseNotice(tt.text)
			req.Equal(tt.wantOk, ok)
			req.Equal(tt.want, got)
		})
	}
}
