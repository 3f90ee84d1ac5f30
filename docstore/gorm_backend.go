package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Document is one row of the documents table. The payload is opaque
// JSON; collection, owner and sort key are lifted out as columns so the
// owner-scoped ordered query stays indexable.
type Document struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	Collection string    `gorm:"index:idx_documents_coll_owner;not null"`
	OwnerID    string    `gorm:"index:idx_documents_coll_owner;not null"`
	SortKey    time.Time `gorm:"index;not null"`
	Data       []byte    `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GormBackend implements Backend on a relational documents table.
// Change notification is in-process: every write signals the watchers
// of the written (collection, owner) pair, which re-run their query and
// push a fresh snapshot.
type GormBackend struct {
	db       *gorm.DB
	notifier *notifier
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db, notifier: newNotifier()}
}

func (b *GormBackend) NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func (b *GormBackend) Get(collection, id, ownerID string) (RawDoc, error) {
	var doc Document
	err := b.db.
		Where("collection = ? AND id = ? AND owner_id = ?", collection, id, ownerID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RawDoc{}, ErrNotFound
	}
	if err != nil {
		return RawDoc{}, fmt.Errorf("docstore get %s/%s: %w", collection, id, err)
	}
	return RawDoc{ID: doc.ID, Data: doc.Data}, nil
}

func (b *GormBackend) Put(collection, id, ownerID string, sortKey time.Time, data []byte) error {
	doc := Document{
		ID:         id,
		Collection: collection,
		OwnerID:    ownerID,
		SortKey:    sortKey,
		Data:       data,
	}
	if err := b.db.Create(&doc).Error; err != nil {
		return fmt.Errorf("docstore put %s/%s: %w", collection, id, err)
	}
	b.notifier.notify(collection, ownerID)
	return nil
}

func (b *GormBackend) Merge(collection, id, ownerID string, sortKey time.Time, fields map[string]any) error {
	err := b.db.Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Where("collection = ? AND id = ?", collection, id).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			data, merr := mergePatch(nil, fields)
			if merr != nil {
				return merr
			}
			return tx.Create(&Document{
				ID:         id,
				Collection: collection,
				OwnerID:    ownerID,
				SortKey:    sortKey,
				Data:       data,
			}).Error
		}
		if err != nil {
			return err
		}
		data, merr := mergePatch(doc.Data, fields)
		if merr != nil {
			return merr
		}
		return tx.Model(&doc).Update("data", data).Error
	})
	if err != nil {
		return fmt.Errorf("docstore merge %s/%s: %w", collection, id, err)
	}
	b.notifier.notify(collection, ownerID)
	return nil
}

func (b *GormBackend) Delete(collection, id string) error {
	var doc Document
	err := b.db.Where("collection = ? AND id = ?", collection, id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("docstore delete %s/%s: %w", collection, id, err)
	}
	if err := b.db.Delete(&doc).Error; err != nil {
		return fmt.Errorf("docstore delete %s/%s: %w", collection, id, err)
	}
	b.notifier.notify(collection, doc.OwnerID)
	return nil
}

func (b *GormBackend) Watch(collection, ownerID string) (*Subscription, error) {
	// subscribe before the initial query so a write racing the query
	// still produces a refresh signal
	signal, unsubscribe := b.notifier.subscribe(collection, ownerID)
	snap, err := b.query(collection, ownerID)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("docstore watch %s: %w", collection, err)
	}
	out := make(chan Snapshot, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		// initial snapshot first, then one per change signal
		if !send(out, done, snap) {
			return
		}
		for {
			select {
			case <-done:
				return
			case <-signal:
				snap, err := b.query(collection, ownerID)
				if err != nil {
					logrus.WithFields(logrus.Fields{
						"collection": collection,
						"owner_id":   ownerID,
					}).WithError(err).Error("watch refresh query failed")
					continue
				}
				if !send(out, done, snap) {
					return
				}
			}
		}
	}()

	return NewSubscription(out, func() {
		unsubscribe()
		close(done)
	}), nil
}

func (b *GormBackend) query(collection, ownerID string) (Snapshot, error) {
	var docs []Document
	err := b.db.
		Where("collection = ? AND owner_id = ?", collection, ownerID).
		Order("sort_key DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, 0, len(docs))
	for _, d := range docs {
		snap = append(snap, RawDoc{ID: d.ID, Data: d.Data})
	}
	return snap, nil
}

// send delivers a snapshot unless the watch was cancelled. A consumer
// that has not drained the previous snapshot gets it replaced: only the
// latest snapshot matters.
func send(out chan Snapshot, done chan struct{}, snap Snapshot) bool {
	for {
		select {
		case <-done:
			return false
		case out <- snap:
			return true
		default:
			select {
			case <-out: // drop the stale queued snapshot
			default:
			}
		}
	}
}

// mergePatch applies a partial update to a stored JSON document,
// leaving fields that are not in the patch untouched.
func mergePatch(existing []byte, fields map[string]any) ([]byte, error) {
	doc := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("merge: corrupt stored document: %w", err)
		}
	}
	for k, v := range fields {
		doc[k] = v
	}
	return json.Marshal(doc)
}
