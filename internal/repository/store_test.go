package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("Get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "progress:streak")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		if err := store.Set(ctx, "progress:streak", "5"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, err := store.Get(ctx, "progress:streak")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if value != "5" {
			t.Errorf("Get() = %v, want 5", value)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		if err := store.Set(ctx, "progress:streak", "6"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, _ := store.Get(ctx, "progress:streak")
		if value != "6" {
			t.Errorf("Get() = %v, want 6", value)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "progress:streak"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		_, err := store.Get(ctx, "progress:streak")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Delete missing key is not an error", func(t *testing.T) {
		if err := store.Delete(ctx, "never-set"); err != nil {
			t.Errorf("Delete() error = %v, want nil", err)
		}
	})
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Set(ctx, "progress:dailyProgress", "100")
				store.Get(ctx, "progress:dailyProgress")
			}
		}()
	}
	wg.Wait()

	value, err := store.Get(ctx, "progress:dailyProgress")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "100" {
		t.Errorf("Get() = %v, want 100", value)
	}
}
