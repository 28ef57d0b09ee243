package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// memoryStore keeps collections in process memory. It backs tests and dev
// seeding; the production path is the Firestore store.
type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

var _ Store = (*memoryStore)(nil)

// NewMemory returns an empty in-process Store.
func NewMemory() Store {
	return &memoryStore{collections: make(map[string]map[string]Document)}
}

func (s *memoryStore) GetByID(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

func (s *memoryStore) GetAll(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		results = append(results, clone(doc))
	}
	return results, nil
}

func (s *memoryStore) Query(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]Document, 0)
	for _, doc := range s.collections[collection] {
		matched := true
		for _, f := range filters {
			ok, err := matches(doc, f)
			if err != nil {
				return nil, err
			}
			if !ok {
				matched = false
				break
			}
		}
		if matched {
			results = append(results, clone(doc))
		}
	}
	return results, nil
}

func (s *memoryStore) Set(_ context.Context, collection, id string, data Document, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collection(collection)
	if merge {
		existing, ok := col[id]
		if !ok {
			existing = Document{}
		}
		for k, v := range data {
			existing[k] = v
		}
		col[id] = clone(existing)
		return nil
	}
	col[id] = clone(data)
	return nil
}

func (s *memoryStore) Update(_ context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collection(collection)
	existing, ok := col[id]
	if !ok {
		return fmt.Errorf("failed to update %s/%s: document missing", collection, id)
	}
	for k, v := range fields {
		existing[k] = v
	}
	col[id] = clone(existing)
	return nil
}

func (s *memoryStore) Create(_ context.Context, collection, id string, data Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collection(collection)
	if _, ok := col[id]; ok {
		return ErrExists
	}
	col[id] = clone(data)
	return nil
}

func (s *memoryStore) Add(_ context.Context, collection string, data Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.collection(collection)[id] = clone(data)
	return id, nil
}

func (s *memoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *memoryStore) collection(name string) map[string]Document {
	col, ok := s.collections[name]
	if !ok {
		col = make(map[string]Document)
		s.collections[name] = col
	}
	return col
}

// clone round-trips through JSON so callers never share nested state with
// the store. Payloads are JSON-like by contract.
func clone(doc Document) Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		// Non-JSON-able payloads violate the Document contract; fall back
		// to a shallow copy rather than losing the write.
		out := make(Document, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	out := Document{}
	_ = json.Unmarshal(raw, &out)
	return out
}

func matches(doc Document, f Filter) (bool, error) {
	val, ok := doc[f.Path]
	switch f.Op {
	case "==":
		return ok && equal(val, f.Value), nil
	case "!=":
		return ok && !equal(val, f.Value), nil
	case "<", "<=", ">", ">=":
		if !ok {
			return false, nil
		}
		c, err := compare(val, f.Value)
		if err != nil {
			return false, err
		}
		switch f.Op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "in":
		values, valid := f.Value.([]any)
		if !valid {
			return false, fmt.Errorf("in filter on %s requires a slice value", f.Path)
		}
		for _, candidate := range values {
			if ok && equal(val, candidate) {
				return true, nil
			}
		}
		return false, nil
	case "array-contains":
		items, valid := val.([]any)
		if !valid {
			return false, nil
		}
		for _, item := range items {
			if equal(item, f.Value) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported filter operator %q", f.Op)
	}
}

func equal(a, b any) bool {
	if fa, oka := asFloat(a); oka {
		fb, okb := asFloat(b)
		return okb && fa == fb
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Slices and maps are valid document values but not comparable with ==.
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func compare(a, b any) (int, error) {
	if fa, ok := asFloat(a); ok {
		fb, okb := asFloat(b)
		if !okb {
			return 0, fmt.Errorf("cannot compare %T with %T", a, b)
		}
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	}
	sa, oka := a.(string)
	sb, okb := b.(string)
	if !oka || !okb {
		return 0, fmt.Errorf("cannot compare %T with %T", a, b)
	}
	switch {
	case sa < sb:
		return -1, nil
	case sa > sb:
		return 1, nil
	default:
		return 0, nil
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
