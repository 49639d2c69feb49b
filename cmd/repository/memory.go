package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"
)

type memoryCollection[T any] struct {
	mu     sync.RWMutex
	order  []string
	docs   map[string]map[string]any
	unique []string
}

// NewMemoryCollection returns a process-local collection. Documents are kept
// in their JSON form so filters see the same field names as the other
// backends.
func NewMemoryCollection[T any](name string) Collection[T] {
	return &memoryCollection[T]{
		docs:   make(map[string]map[string]any),
		unique: uniqueFields[name],
	}
}

func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument[T any](doc map[string]any) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func matches(doc map[string]any, f Filter) (bool, error) {
	for field, want := range f.Equal {
		got, ok := doc[field]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false, nil
		}
	}
	for field, pattern := range f.Match {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return false, fmt.Errorf("invalid pattern for %s: %w", field, err)
		}
		got, ok := doc[field].(string)
		if !ok || !re.MatchString(got) {
			return false, nil
		}
	}
	return true, nil
}

// conflicts must be called with the lock held.
func (c *memoryCollection[T]) conflicts(id string, doc map[string]any) bool {
	for _, field := range c.unique {
		v, ok := doc[field]
		if !ok || v == "" {
			continue
		}
		for otherID, other := range c.docs {
			if otherID != id && fmt.Sprint(other[field]) == fmt.Sprint(v) {
				return true
			}
		}
	}
	return false
}

func (c *memoryCollection[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range c.order {
		ok, err := matches(c.docs[id], f)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, err := fromDocument[T](c.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (c *memoryCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	found, err := c.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNoDocument
	}
	return &found[0], nil
}

func (c *memoryCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNoDocument
	}
	return fromDocument[T](doc)
}

func (c *memoryCollection[T]) Insert(ctx context.Context, id string, v *T) error {
	doc, err := toDocument(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; exists {
		return fmt.Errorf("%w: id %s", ErrDuplicateKey, id)
	}
	if c.conflicts(id, doc) {
		return ErrDuplicateKey
	}
	c.docs[id] = doc
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection[T]) UpdateByID(ctx context.Context, id string, set Fields) (bool, error) {
	return c.UpdateWhere(ctx, id, All(), set)
}

func (c *memoryCollection[T]) UpdateWhere(ctx context.Context, id string, where Filter, set Fields) (bool, error) {
	patch, err := toDocument(set)
	if err != nil {
		return false, err
	}
	patch["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return false, nil
	}
	if ok, err := matches(doc, where); err != nil || !ok {
		return false, err
	}
	next := make(map[string]any, len(doc)+len(patch))
	for k, v := range doc {
		next[k] = v
	}
	for k, v := range patch {
		next[k] = v
	}
	if c.conflicts(id, next) {
		return true, ErrDuplicateKey
	}
	c.docs[id] = next
	return true, nil
}

func (c *memoryCollection[T]) Append(ctx context.Context, id, field string, value any) (*T, error) {
	wrapped, err := toDocument(map[string]any{"v": value})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNoDocument
	}
	current, _ := doc[field].([]any)
	next := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		next[k] = v
	}
	next[field] = append(append([]any{}, current...), wrapped["v"])
	next["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	c.docs[id] = next
	return fromDocument[T](next)
}

func (c *memoryCollection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	for i, other := range c.order {
		if other == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}
