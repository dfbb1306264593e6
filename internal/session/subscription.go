package session

import (
	"sync"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// subscriptionBuffer bounds how many transitions a slow reader can lag behind.
// Past that the oldest pending value is dropped: every value supersedes the
// previous one, so the newest state is the one that matters.
const subscriptionBuffer = 8

// Subscription is a stream of session values. It cannot be restarted once
// cancelled; C is closed on cancellation.
type Subscription struct {
	ch     chan domain.Session
	done   chan struct{}
	mu     sync.Mutex
	closed bool
	once   sync.Once
	unsub  func(*Subscription)
}

func newSubscription(unsub func(*Subscription)) *Subscription {
	return &Subscription{
		ch:    make(chan domain.Session, subscriptionBuffer),
		done:  make(chan struct{}),
		unsub: unsub,
	}
}

// C delivers one value per transition, oldest first.
func (s *Subscription) C() <-chan domain.Session {
	return s.ch
}

// Done is closed once the subscription is cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Cancel ends the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.unsub != nil {
			s.unsub(s)
		}
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		close(s.done)
		s.mu.Unlock()
	})
}

func (s *Subscription) deliver(v domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- v:
			return
		default:
			// Full: drop the oldest pending value.
			select {
			case <-s.ch:
			default:
			}
		}
	}
}
