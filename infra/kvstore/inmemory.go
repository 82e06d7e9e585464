package kvstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/dwlog"
)

const (
	defaultRetention time.Duration = 24 * time.Hour
	gcInterval       time.Duration = 5 * time.Minute
)

// InMemoryProvider is the in-process implementation of the Provider interface
type InMemoryProvider struct {
	cache     *cache.Cache
	keysMutex sync.Mutex
	storeName string
}

// NewInMemoryProvider creates a new InMemoryProvider
func NewInMemoryProvider(storeName string) *InMemoryProvider {
	return &InMemoryProvider{
		cache:     cache.New(defaultRetention, gcInterval),
		storeName: storeName,
	}
}

// Get returns the value stored under key, or nil if the key is absent
func (p *InMemoryProvider) Get(ctx context.Context, key Key) (*string, error) {
	if key == "" {
		return nil, dwerr.New("Expected a non-empty key passed to Get")
	}

	p.keysMutex.Lock()
	defer p.keysMutex.Unlock()

	x, found := p.cache.Get(string(key))
	if !found {
		dwlog.Verbosef(ctx, "Store[%v] miss key %v", p.storeName, key)
		return nil, nil
	}
	value, ok := x.(string)
	if !ok {
		return nil, dwerr.Errorf("Store[%v] key %v holds unexpected type", p.storeName, key)
	}
	dwlog.Verbosef(ctx, "Store[%v] hit key %v", p.storeName, key)
	return &value, nil
}

// Set stores value under key with the given retention
func (p *InMemoryProvider) Set(ctx context.Context, key Key, value string, retention time.Duration) error {
	if key == "" {
		return dwerr.New("Expected a non-empty key passed to Set")
	}

	p.keysMutex.Lock()
	defer p.keysMutex.Unlock()

	if retention == NoExpiration {
		retention = cache.NoExpiration
	}
	p.cache.Set(string(key), value, retention)
	dwlog.Verbosef(ctx, "Store[%v] set key %v", p.storeName, key)
	return nil
}

// Delete removes the value stored under key
func (p *InMemoryProvider) Delete(ctx context.Context, key Key) error {
	if key == "" {
		return dwerr.New("Expected a non-empty key passed to Delete")
	}

	p.keysMutex.Lock()
	defer p.keysMutex.Unlock()

	p.cache.Delete(string(key))
	dwlog.Verbosef(ctx, "Store[%v] deleted key %v", p.storeName, key)
	return nil
}

// Flush removes every key starting with prefix
func (p *InMemoryProvider) Flush(ctx context.Context, prefix string) error {
	p.keysMutex.Lock()
	defer p.keysMutex.Unlock()

	for k := range p.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			p.cache.Delete(k)
		}
	}
	return nil
}

// GetName returns the name of the store
func (p *InMemoryProvider) GetName() string {
	return p.storeName
}
