package docstore

import "sync"

// Subscription is a cancellable snapshot stream. Cancel is idempotent
// and guarantees no further delivery once it returns.
type Subscription struct {
	C <-chan Snapshot

	once   sync.Once
	cancel func()
}

// NewSubscription wraps a snapshot channel and a cancel hook. Backend
// implementations (and test fakes) use it to hand out watches.
func NewSubscription(ch <-chan Snapshot, cancel func()) *Subscription {
	return &Subscription{C: ch, cancel: cancel}
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
