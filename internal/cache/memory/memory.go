// Package memory implements an in-process cache
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/DMarby/image-pipeline/internal/cache"
)

type entry struct {
	key  string
	data []byte
}

// Provider implements an in-memory cache holding at most maxBytes of data.
// The least recently used entries are evicted first.
type Provider struct {
	maxBytes int64
	size     int64
	entries  map[string]*list.Element
	order    *list.List
	mutex    sync.Mutex
}

// New returns a new Provider instance, a maxBytes of 0 means no limit
func New(maxBytes int64) *Provider {
	return &Provider{
		maxBytes: maxBytes,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	element, exists := p.entries[key]
	if !exists {
		return nil, cache.ErrNotFound
	}

	p.order.MoveToFront(element)
	return element.Value.(*entry).data, nil
}

// Set adds an object to the cache.
// Objects larger than the whole cache are not stored.
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	size := int64(len(data))
	if p.maxBytes > 0 && size > p.maxBytes {
		return nil
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if element, exists := p.entries[key]; exists {
		p.remove(element)
	}

	p.entries[key] = p.order.PushFront(&entry{key: key, data: data})
	p.size += size

	for p.maxBytes > 0 && p.size > p.maxBytes {
		p.remove(p.order.Back())
	}

	return nil
}

func (p *Provider) remove(element *list.Element) {
	e := p.order.Remove(element).(*entry)
	delete(p.entries, e.key)
	p.size -= int64(len(e.data))
}

// Size returns the number of bytes held
func (p *Provider) Size() int64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.size
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
