package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryClient is an in-process Client used by tests and by the "memory"
// backend in development mode. It implements the same contract as the
// Firestore and Mongo backends, including transactional isolation.
type MemoryClient struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
	watchers    map[int]*memoryWatcher
	nextWatcher int
}

type memoryWatcher struct {
	collection string
	query      Query
	fn         func([]Snapshot)
}

// NewMemoryClient creates an empty in-memory document store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		collections: make(map[string]map[string]Document),
		watchers:    make(map[int]*memoryWatcher),
	}
}

func (m *MemoryClient) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (m *MemoryClient) Set(ctx context.Context, collection, id string, doc Document) error {
	m.mu.Lock()
	m.setLocked(collection, id, copyDoc(doc))
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *MemoryClient) Merge(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	existing, ok := m.collections[collection][id]
	if !ok {
		existing = Document{}
	} else {
		existing = copyDoc(existing)
	}
	for k, v := range copyDoc(fields) {
		existing[k] = v
	}
	m.setLocked(collection, id, existing)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *MemoryClient) Update(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	existing, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	existing = copyDoc(existing)
	for k, v := range copyDoc(fields) {
		existing[k] = v
	}
	m.setLocked(collection, id, existing)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *MemoryClient) ArrayUnion(ctx context.Context, collection, id, field string, values ...string) error {
	m.mu.Lock()
	existing, ok := m.collections[collection][id]
	if !ok {
		existing = Document{}
	} else {
		existing = copyDoc(existing)
	}
	current := Strings(existing, field)
	for _, v := range values {
		if !contains(current, v) {
			current = append(current, v)
		}
	}
	existing[field] = current
	m.setLocked(collection, id, existing)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *MemoryClient) ArrayRemove(ctx context.Context, collection, id, field string, values ...string) error {
	m.mu.Lock()
	existing, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	existing = copyDoc(existing)
	current := Strings(existing, field)
	filtered := current[:0]
	for _, v := range current {
		if !contains(values, v) {
			filtered = append(filtered, v)
		}
	}
	existing[field] = append([]string(nil), filtered...)
	m.setLocked(collection, id, existing)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *MemoryClient) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *MemoryClient) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	delete(m.collections[collection], id)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *MemoryClient) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryLocked(collection, q), nil
}

func (m *MemoryClient) queryLocked(collection string, q Query) []Snapshot {
	var out []Snapshot
	for id, doc := range m.collections[collection] {
		if matches(doc, q.Filters) {
			out = append(out, Snapshot{ID: id, Data: copyDoc(doc)})
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.Desc {
				return lessValue(out[j].Data[q.OrderBy], out[i].Data[q.OrderBy])
			}
			return lessValue(out[i].Data[q.OrderBy], out[j].Data[q.OrderBy])
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// memoryTx stages writes until the transaction function returns nil.
type memoryTx struct {
	client  *MemoryClient
	staged  map[string]map[string]Document // collection -> id -> doc; nil doc marks delete
	touched map[string]bool
}

func (t *memoryTx) Get(collection, id string) (Document, error) {
	if staged, ok := t.staged[collection]; ok {
		if doc, ok := staged[id]; ok {
			if doc == nil {
				return nil, ErrNotFound
			}
			return copyDoc(doc), nil
		}
	}
	doc, ok := t.client.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (t *memoryTx) Set(collection, id string, doc Document) error {
	if t.staged[collection] == nil {
		t.staged[collection] = make(map[string]Document)
	}
	t.staged[collection][id] = copyDoc(doc)
	t.touched[collection] = true
	return nil
}

func (t *memoryTx) Delete(collection, id string) error {
	if t.staged[collection] == nil {
		t.staged[collection] = make(map[string]Document)
	}
	t.staged[collection][id] = nil
	t.touched[collection] = true
	return nil
}

func (m *MemoryClient) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	tx := &memoryTx{
		client:  m,
		staged:  make(map[string]map[string]Document),
		touched: make(map[string]bool),
	}
	if err := fn(tx); err != nil {
		m.mu.Unlock()
		return err
	}
	for collection, docs := range tx.staged {
		for id, doc := range docs {
			if doc == nil {
				delete(m.collections[collection], id)
			} else {
				m.setLocked(collection, id, doc)
			}
		}
	}
	m.mu.Unlock()
	for collection := range tx.touched {
		m.notify(collection)
	}
	return nil
}

func (m *MemoryClient) Watch(ctx context.Context, collection string, q Query, fn func([]Snapshot)) (func(), error) {
	m.mu.Lock()
	id := m.nextWatcher
	m.nextWatcher++
	w := &memoryWatcher{collection: collection, query: q, fn: fn}
	m.watchers[id] = w
	initial := m.queryLocked(collection, q)
	m.mu.Unlock()

	fn(initial)

	stop := func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
	go func() {
		<-ctx.Done()
		stop()
	}()
	return stop, nil
}

func (m *MemoryClient) Close() error { return nil }

func (m *MemoryClient) setLocked(collection, id string, doc Document) {
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	m.collections[collection][id] = doc
}

// notify re-runs every watcher query on the mutated collection and delivers
// the full current result, mirroring the re-fetch-after-mutation contract.
func (m *MemoryClient) notify(collection string) {
	m.mu.Lock()
	type delivery struct {
		fn    func([]Snapshot)
		snaps []Snapshot
	}
	var deliveries []delivery
	for _, w := range m.watchers {
		if w.collection == collection {
			deliveries = append(deliveries, delivery{fn: w.fn, snaps: m.queryLocked(collection, w.query)})
		}
	}
	m.mu.Unlock()
	for _, d := range deliveries {
		d.fn(d.snaps)
	}
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		if !equalValue(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
		return false
	}
	return a == b
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		switch tv := v.(type) {
		case []string:
			out[k] = append([]string(nil), tv...)
		case []any:
			out[k] = append([]any(nil), tv...)
		case Document:
			out[k] = copyDoc(tv)
		case map[string]any:
			out[k] = map[string]any(copyDoc(Document(tv)))
		default:
			out[k] = v
		}
	}
	return out
}
