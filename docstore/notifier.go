package docstore

import "sync"

// notifier fans change signals out to the watchers of one
// (collection, owner) pair. Signals are edge-triggered and coalesce:
// a watcher that has not consumed the previous signal gets one wakeup
// for any number of writes.
type notifier struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[chan struct{}]struct{})}
}

func key(collection, ownerID string) string {
	return collection + "/" + ownerID
}

func (n *notifier) subscribe(collection, ownerID string) (chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	k := key(collection, ownerID)

	n.mu.Lock()
	if n.subs[k] == nil {
		n.subs[k] = make(map[chan struct{}]struct{})
	}
	n.subs[k][ch] = struct{}{}
	n.mu.Unlock()

	return ch, func() {
		n.mu.Lock()
		if set := n.subs[k]; set != nil {
			delete(set, ch)
			if len(set) == 0 {
				delete(n.subs, k)
			}
		}
		n.mu.Unlock()
	}
}

func (n *notifier) notify(collection, ownerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs[key(collection, ownerID)] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
