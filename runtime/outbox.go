package runtime

import "sync"

// outbox is the unbounded FIFO between the loop and one writer goroutine.
// push never blocks, so the loop never waits on a slow socket and nothing queued while
// open is dropped. After close the writer drains what is left, then stops.
type outbox struct {
	mu     sync.Mutex
	queue  [][]byte
	closed bool
	signal chan struct{}
	done   chan struct{} // closed by the writer once it returned
}

func newOutbox() *outbox {
	return &outbox{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// push queues payload and returns the backlog size, or -1 once the outbox is closed.
func (o *outbox) push(payload []byte) int {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return -1
	}
	o.queue = append(o.queue, payload)
	backlog := len(o.queue)
	o.mu.Unlock()
	o.wake()
	return backlog
}

func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.wake()
}

// next blocks until a payload is available. It returns false once closed and drained.
func (o *outbox) next() ([]byte, bool) {
	for {
		o.mu.Lock()
		if len(o.queue) > 0 {
			payload := o.queue[0]
			o.queue[0] = nil
			o.queue = o.queue[1:]
			o.mu.Unlock()
			return payload, true
		}
		if o.closed {
			o.mu.Unlock()
			return nil, false
		}
		o.mu.Unlock()
		<-o.signal
	}
}

func (o *outbox) wake() {
	select {
	case o.signal <- struct{}{}:
	default:
	}
}
