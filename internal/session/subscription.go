package session

import "sync"

// Subscription receives applied moves for one session. Events are buffered;
// when the buffer is full the oldest event is dropped so the mover never
// blocks on a slow reader.
type Subscription struct {
	events    chan MoveResult
	done      chan struct{}
	closeOnce sync.Once
	cancel    func()
}

func newSubscription(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 16
	}
	return &Subscription{
		events: make(chan MoveResult, buffer),
		done:   make(chan struct{}),
	}
}

// Events returns the channel applied moves arrive on.
func (s *Subscription) Events() <-chan MoveResult {
	return s.events
}

// Done closes when the session ends or the subscription is cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Cancel detaches from the session. Safe to call multiple times.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
		return
	}
	s.close()
}

func (s *Subscription) send(r MoveResult) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- r:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- r:
		default:
		}
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
