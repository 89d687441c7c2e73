package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/izawa-yuka/uruoi/pkg/common"
)

const subscriptionBufferSize = 256

// MemoryStore is an in-process Store. It keeps every collection as a map of
// JSON documents and fans change batches out to subscribers, mirroring the
// listener semantics of a cloud document store: a new subscriber first
// receives the full collection as one added-batch, batch commits arrive as
// one batch per touched collection.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]json.RawMessage
	subscribers map[string][]*memorySubscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]json.RawMessage),
		subscribers: make(map[string][]*memorySubscription),
	}
}

type memorySubscription struct {
	store      *MemoryStore
	collection string

	mu     sync.Mutex
	closed bool
	ch     chan []DocumentChange
	errs   chan error
}

func (s *memorySubscription) Changes() <-chan []DocumentChange { return s.ch }

func (s *memorySubscription) Errs() <-chan error { return s.errs }

func (s *memorySubscription) Unsubscribe() {
	s.store.removeSubscriber(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// deliver drops the batch when the subscriber's buffer is full; a slow
// consumer misses intermediate batches the same way a coalescing snapshot
// listener would.
func (s *memorySubscription) deliver(batch []DocumentChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(batch) == 0 {
		return
	}
	select {
	case s.ch <- batch:
	default:
		common.GetLogger().Warn("memory store subscriber buffer full, dropping change batch",
			zap.String("collection", s.collection), zap.Int("changes", len(batch)))
	}
}

func (m *MemoryStore) Subscribe(collection string) (Subscription, error) {
	sub := &memorySubscription{
		store:      m,
		collection: collection,
		ch:         make(chan []DocumentChange, subscriptionBufferSize),
		errs:       make(chan error, 1),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// initial snapshot as one added-batch
	var initial []DocumentChange
	for id, data := range m.collections[collection] {
		initial = append(initial, DocumentChange{Kind: ChangeAdded, ID: id, Data: data})
	}
	sort.Slice(initial, func(i, j int) bool { return initial[i].ID < initial[j].ID })

	m.subscribers[collection] = append(m.subscribers[collection], sub)
	sub.deliver(initial)

	return sub, nil
}

func (m *MemoryStore) removeSubscriber(sub *memorySubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subscribers[sub.collection]
	for i, s := range subs {
		if s == sub {
			m.subscribers[sub.collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

func (m *MemoryStore) Put(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	m.mu.Lock()
	kind := ChangeAdded
	col := m.collections[collection]
	if col == nil {
		col = make(map[string]json.RawMessage)
		m.collections[collection] = col
	}
	if _, exists := col[id]; exists {
		kind = ChangeModified
	}
	col[id] = data
	subs := append([]*memorySubscription(nil), m.subscribers[collection]...)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.deliver([]DocumentChange{{Kind: kind, ID: id, Data: data}})
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	col := m.collections[collection]
	_, exists := col[id]
	if exists {
		delete(col, id)
	}
	subs := append([]*memorySubscription(nil), m.subscribers[collection]...)
	m.mu.Unlock()

	// deleting a missing document is not an error
	if !exists {
		return nil
	}

	for _, sub := range subs {
		sub.deliver([]DocumentChange{{Kind: ChangeRemoved, ID: id}})
	}
	return nil
}

func (m *MemoryStore) Commit(ctx context.Context, writes []Write) error {
	// encode everything up front so a bad document fails the whole batch
	encoded := make([]json.RawMessage, len(writes))
	for i, w := range writes {
		data, err := json.Marshal(w.Doc)
		if err != nil {
			return fmt.Errorf("failed to encode document %s/%s: %w", w.Collection, w.ID, err)
		}
		encoded[i] = data
	}

	m.mu.Lock()
	batches := make(map[string][]DocumentChange)
	for i, w := range writes {
		col := m.collections[w.Collection]
		if col == nil {
			col = make(map[string]json.RawMessage)
			m.collections[w.Collection] = col
		}
		kind := ChangeAdded
		if _, exists := col[w.ID]; exists {
			kind = ChangeModified
		}
		col[w.ID] = encoded[i]
		batches[w.Collection] = append(batches[w.Collection], DocumentChange{Kind: kind, ID: w.ID, Data: encoded[i]})
	}
	subsByCollection := make(map[string][]*memorySubscription, len(batches))
	for collection := range batches {
		subsByCollection[collection] = append([]*memorySubscription(nil), m.subscribers[collection]...)
	}
	m.mu.Unlock()

	for collection, batch := range batches {
		for _, sub := range subsByCollection[collection] {
			sub.deliver(batch)
		}
	}
	return nil
}

func (m *MemoryStore) QueryLatest(ctx context.Context, collection, orderField string, limit int) ([]Document, error) {
	m.mu.Lock()
	docs := make([]Document, 0, len(m.collections[collection]))
	for id, data := range m.collections[collection] {
		docs = append(docs, Document{ID: id, Data: data})
	}
	m.mu.Unlock()

	orderKeys := make(map[string]time.Time, len(docs))
	for _, doc := range docs {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(doc.Data, &fields); err != nil {
			continue
		}
		var ts time.Time
		if raw, ok := fields[orderField]; ok {
			_ = json.Unmarshal(raw, &ts)
		}
		orderKeys[doc.ID] = ts
	}

	sort.Slice(docs, func(i, j int) bool {
		return orderKeys[docs[i].ID].After(orderKeys[docs[j].ID])
	})

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}
