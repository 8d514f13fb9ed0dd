package poscache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	poscache "github.com/krisalay/pos-admin-cache"
	"github.com/krisalay/pos-admin-cache/bus"
	"github.com/krisalay/pos-admin-cache/config"
	"github.com/krisalay/pos-admin-cache/registry"
)

func newBenchmarkManager() *poscache.Manager {
	cfg := config.Default().Cache
	cfg.GenericTTL = time.Minute // keep entries hot for the whole run

	reg := registry.New(cfg, nil)
	return poscache.NewManager(reg, bus.New(), nil, zerolog.Nop())
}

func fetchStatic(ctx context.Context) (any, error) {
	return "value", nil
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkGetOrFetchHit(b *testing.B) {
	ctx := context.Background()
	m := newBenchmarkManager()

	if _, err := m.GetOrFetch(ctx, "key", fetchStatic, 0, false); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.GetOrFetch(ctx, "key", fetchStatic, 0, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetOrFetchMiss(b *testing.B) {
	ctx := context.Background()
	m := newBenchmarkManager()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("miss-%d", i)
		if _, err := m.GetOrFetch(ctx, key, fetchStatic, 0, false); err != nil {
			b.Fatal(err)
		}
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkGetOrFetchParallel(b *testing.B) {
	ctx := context.Background()
	m := newBenchmarkManager()

	for i := 0; i < 1000; i++ {
		if _, err := m.GetOrFetch(ctx, fmt.Sprintf("key-%d", i), fetchStatic, 0, false); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := m.GetOrFetch(ctx, "key-42", fetchStatic, 0, false); err != nil {
				b.Fatal(err)
			}
		}
	})
}

//
// ================= INVALIDATION BENCH =================
//

func BenchmarkInvalidateMenu(b *testing.B) {
	m := newBenchmarkManager()
	reg := m.Registry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Generic.Set(registry.KeyMenuItems, "menu")
		reg.Menu.Set("available", "yes")
		m.Invalidate(poscache.CategoryMenu)
	}
}
