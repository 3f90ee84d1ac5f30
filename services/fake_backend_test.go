package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/christian6134/byte-buddy/docstore"
)

// fakeBackend is an in-memory docstore.Backend. Watches do not fire on
// their own: tests call push to deliver a snapshot, which keeps the
// optimistic-mirror-vs-subscription-order behaviour observable.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int
	docs   map[string]map[string]fakeDoc // collection -> id -> doc
	subs   []*fakeSub

	failPut    bool
	failMerge  bool
	failDelete bool
	failWatch  bool
	failGet    bool
}

type fakeDoc struct {
	ownerID string
	sortKey time.Time
	data    []byte
}

type fakeSub struct {
	collection string
	ownerID    string
	ch         chan docstore.Snapshot
	closed     bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{docs: make(map[string]map[string]fakeDoc)}
}

func (b *fakeBackend) NewID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return fmt.Sprintf("doc-%d", b.nextID)
}

func (b *fakeBackend) Get(collection, id, ownerID string) (docstore.RawDoc, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failGet {
		return docstore.RawDoc{}, errors.New("backend unavailable")
	}
	doc, ok := b.docs[collection][id]
	if !ok || doc.ownerID != ownerID {
		return docstore.RawDoc{}, docstore.ErrNotFound
	}
	return docstore.RawDoc{ID: id, Data: doc.data}, nil
}

func (b *fakeBackend) Put(collection, id, ownerID string, sortKey time.Time, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut {
		return errors.New("backend unavailable")
	}
	if b.docs[collection] == nil {
		b.docs[collection] = make(map[string]fakeDoc)
	}
	b.docs[collection][id] = fakeDoc{ownerID: ownerID, sortKey: sortKey, data: data}
	return nil
}

func (b *fakeBackend) Merge(collection, id, ownerID string, sortKey time.Time, fields map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failMerge {
		return errors.New("backend unavailable")
	}
	if b.docs[collection] == nil {
		b.docs[collection] = make(map[string]fakeDoc)
	}
	existing, ok := b.docs[collection][id]
	if !ok {
		existing = fakeDoc{ownerID: ownerID, sortKey: sortKey}
	}
	data, err := mergeJSON(existing.data, fields)
	if err != nil {
		return err
	}
	existing.data = data
	b.docs[collection][id] = existing
	return nil
}

func (b *fakeBackend) Delete(collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDelete {
		return errors.New("backend unavailable")
	}
	if coll := b.docs[collection]; coll != nil {
		delete(coll, id)
	}
	return nil
}

func (b *fakeBackend) Watch(collection, ownerID string) (*docstore.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWatch {
		return nil, errors.New("backend unavailable")
	}
	fs := &fakeSub{
		collection: collection,
		ownerID:    ownerID,
		ch:         make(chan docstore.Snapshot, 16),
	}
	b.subs = append(b.subs, fs)
	return docstore.NewSubscription(fs.ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !fs.closed {
			fs.closed = true
			close(fs.ch)
		}
	}), nil
}

// push delivers the current snapshot of (collection, owner) to every
// open watch, sort key descending.
func (b *fakeBackend) push(collection, ownerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var snap docstore.Snapshot
	var ids []string
	for id := range b.docs[collection] {
		if b.docs[collection][id].ownerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, c := b.docs[collection][ids[i]], b.docs[collection][ids[j]]
		if !a.sortKey.Equal(c.sortKey) {
			return a.sortKey.After(c.sortKey)
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		snap = append(snap, docstore.RawDoc{ID: id, Data: b.docs[collection][id].data})
	}
	if snap == nil {
		snap = docstore.Snapshot{}
	}

	for _, s := range b.subs {
		if !s.closed && s.collection == collection && s.ownerID == ownerID {
			s.ch <- snap
		}
	}
}

// pushRaw delivers an arbitrary snapshot, for malformed-document cases.
func (b *fakeBackend) pushRaw(collection, ownerID string, snap docstore.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if !s.closed && s.collection == collection && s.ownerID == ownerID {
			s.ch <- snap
		}
	}
}

func mustJSON(t *testing.T, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func mergeJSON(existing []byte, fields map[string]any) ([]byte, error) {
	doc := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, err
		}
	}
	for k, v := range fields {
		doc[k] = v
	}
	return json.Marshal(doc)
}
