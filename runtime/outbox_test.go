package runtime

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOutbox_DrainsInOrderAfterClose(t *testing.T) {
	req := require.New(t)
	box := newOutbox()

	for i := 1; i <= 100; i++ {
		req.Equal(i, box.push([]byte(fmt.Sprint(i))))
	}
	box.close()
	req.Equal(-1, box.push([]byte("late")))

	for i := 1; i <= 100; i++ {
		payload, ok := box.next()
		req.True(ok)
		req.Equal(fmt.Sprint(i), string(payload))
	}
	_, ok := box.next()
	req.False(ok)
}

func TestOutbox_NextWaitsForPush(t *testing.T) {
	req := require.New(t)
	box := newOutbox()

	got := make(chan string, 1)
	go func() {
		payload, _ := box.next()
		got <- string(payload)
	}()

	req.Never(func() bool { return len(got) > 0 }, 30*time.Millisecond, 5*time.Millisecond)
	box.push([]byte("hello"))

	select {
	case payload := <-got:
		req.Equal("hello", payload)
	case <-time.After(waitFor):
		req.Fail("next should return once a payload is pushed")
	}
}

func TestOutbox_CloseWakesAnIdleWriter(t *testing.T) {
	req := require.New(t)
	box := newOutbox()

	done := make(chan bool, 1)
	go func() {
		_, ok := box.next()
		done <- ok
	}()
	box.close()

	select {
	case ok := <-done:
		req.False(ok)
	case <-time.After(waitFor):
		req.Fail("close should release a waiting writer")
	}
}
