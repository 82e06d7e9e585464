package kvstore_test

import (
	"context"
	"testing"

	"deskwise.io/infra/assert"
	"deskwise.io/infra/kvstore"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := kvstore.NewInMemoryProvider("test")

	assert.NoErr(t, p.Set(ctx, "k1", "v1", kvstore.NoExpiration))

	got, err := p.Get(ctx, "k1")
	assert.NoErr(t, err)
	assert.NotNil(t, got, assert.Must())
	assert.Equal(t, *got, "v1")
}

func TestInMemoryMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	p := kvstore.NewInMemoryProvider("test")

	got, err := p.Get(ctx, "absent")
	assert.NoErr(t, err)
	assert.True(t, got == nil)
}

func TestInMemoryDelete(t *testing.T) {
	ctx := context.Background()
	p := kvstore.NewInMemoryProvider("test")

	assert.NoErr(t, p.Set(ctx, "k1", "v1", kvstore.NoExpiration))
	assert.NoErr(t, p.Delete(ctx, "k1"))

	got, err := p.Get(ctx, "k1")
	assert.NoErr(t, err)
	assert.True(t, got == nil)

	// deleting a missing key is not an error
	assert.NoErr(t, p.Delete(ctx, "k1"))
}

func TestInMemoryFlushByPrefix(t *testing.T) {
	ctx := context.Background()
	p := kvstore.NewInMemoryProvider("test")

	assert.NoErr(t, p.Set(ctx, "resolution:a", "1", kvstore.NoExpiration))
	assert.NoErr(t, p.Set(ctx, "resolution:b", "2", kvstore.NoExpiration))
	assert.NoErr(t, p.Set(ctx, "other:c", "3", kvstore.NoExpiration))

	assert.NoErr(t, p.Flush(ctx, "resolution:"))

	got, err := p.Get(ctx, "resolution:a")
	assert.NoErr(t, err)
	assert.True(t, got == nil)

	got, err = p.Get(ctx, "other:c")
	assert.NoErr(t, err)
	assert.NotNil(t, got)
}

func TestInMemoryRejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	p := kvstore.NewInMemoryProvider("test")

	assert.NotNil(t, p.Set(ctx, "", "v", kvstore.NoExpiration))
	_, err := p.Get(ctx, "")
	assert.NotNil(t, err)
	assert.NotNil(t, p.Delete(ctx, ""))
}
