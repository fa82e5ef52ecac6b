package memory_test

import (
	"context"
	"testing"

	"github.com/DMarby/image-pipeline/internal/cache"
	"github.com/DMarby/image-pipeline/internal/cache/memory"
)

func TestMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := memory.New(0)

	t.Run("get item", func(t *testing.T) {
		provider.Set(ctx, "foo", []byte("bar"))

		data, err := provider.Get(ctx, "foo")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bar" {
			t.Fatal("wrong data")
		}
	})

	t.Run("get nonexistant item", func(t *testing.T) {
		_, err := provider.Get(ctx, "notfound")
		if err == nil {
			t.Fatal("no error")
		}

		if err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("replace item", func(t *testing.T) {
		provider.Set(ctx, "foo", []byte("bazqux"))

		data, err := provider.Get(ctx, "foo")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bazqux" || provider.Size() != 6 {
			t.Fatalf("wrong data %q or size %d", data, provider.Size())
		}
	})
}

func TestEviction(t *testing.T) {
	ctx := context.Background()
	provider := memory.New(10)

	provider.Set(ctx, "a", []byte("aaaa"))
	provider.Set(ctx, "b", []byte("bbbb"))

	// Touch a so that b is the least recently used
	if _, err := provider.Get(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	provider.Set(ctx, "c", []byte("cccc"))

	if _, err := provider.Get(ctx, "b"); err != cache.ErrNotFound {
		t.Fatalf("expected b to be evicted, got %v", err)
	}

	for _, key := range []string{"a", "c"} {
		if _, err := provider.Get(ctx, key); err != nil {
			t.Fatalf("%s: %s", key, err)
		}
	}

	if provider.Size() != 8 {
		t.Fatalf("wrong size %d", provider.Size())
	}

	provider.Set(ctx, "huge", make([]byte, 11))
	if _, err := provider.Get(ctx, "huge"); err != cache.ErrNotFound {
		t.Fatal("objects larger than the cache must not be stored")
	}
}
