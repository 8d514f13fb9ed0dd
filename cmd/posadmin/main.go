package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	poscache "github.com/krisalay/pos-admin-cache"
	"github.com/krisalay/pos-admin-cache/bus"
	"github.com/krisalay/pos-admin-cache/config"
	"github.com/krisalay/pos-admin-cache/loader"
	"github.com/krisalay/pos-admin-cache/registry"
	"github.com/krisalay/pos-admin-cache/types"
)

// ================= SIMULATED REMOTE API =================

// posAPI stands in for the remote data backend. Every call "travels"
// for a bit and counts how often it was actually hit, so the output
// shows which reads were served from cache.
type posAPI struct {
	latency time.Duration
	calls   atomic.Int64
}

func (api *posAPI) fetchMenuItems(ctx context.Context) (any, error) {
	api.calls.Add(1)
	time.Sleep(api.latency)
	return []string{"margherita", "carbonara", "tiramisu"}, nil
}

func (api *posAPI) fetchInventory(ctx context.Context) (any, error) {
	api.calls.Add(1)
	time.Sleep(api.latency)
	return map[string]int{"flour_kg": 42, "eggs": 360}, nil
}

// FetchModules satisfies types.ModuleFetcher: one batched round trip
// for however many modules a loader decided it is missing.
func (api *posAPI) FetchModules(ctx context.Context, modules []types.ModuleName) error {
	api.calls.Add(1)
	time.Sleep(api.latency)
	fmt.Println("API    → batched fetch:", modules)
	return nil
}

// ================= METRICS =================

type demoMetrics struct {
	mu            sync.Mutex
	hits          int
	misses        int
	expired       int
	coalesced     int
	invalidations int
	reloads       int
}

func (m *demoMetrics) Hit()          { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *demoMetrics) Miss()         { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *demoMetrics) Expire()       { m.mu.Lock(); m.expired++; m.mu.Unlock() }
func (m *demoMetrics) Coalesced()    { m.mu.Lock(); m.coalesced++; m.mu.Unlock() }
func (m *demoMetrics) Invalidation() { m.mu.Lock(); m.invalidations++; m.mu.Unlock() }
func (m *demoMetrics) Reload()       { m.mu.Lock(); m.reloads++; m.mu.Unlock() }

func (m *demoMetrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS          : %d\n", m.hits)
	fmt.Printf("MISSES        : %d\n", m.misses)
	fmt.Printf("EXPIRED       : %d\n", m.expired)
	fmt.Printf("COALESCED     : %d\n", m.coalesced)
	fmt.Printf("INVALIDATIONS : %d\n", m.invalidations)
	fmt.Printf("RELOADS       : %d\n", m.reloads)
}

// ================= MAIN =================

func main() {
	ctx := context.Background()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	fmt.Println("GENERIC TTL   :", cfg.Cache.GenericTTL)
	fmt.Println("ORDERS TTL    :", cfg.Cache.OrdersTTL)
	fmt.Println("TABLES TTL    :", cfg.Cache.TablesTTL)
	fmt.Println("MENU TTL      :", cfg.Cache.MenuTTL)
	fmt.Println("INVENTORY TTL :", cfg.Cache.InventoryTTL)

	api := &posAPI{latency: 80 * time.Millisecond}
	metrics := &demoMetrics{}

	broadcast := bus.New()
	reg := registry.New(cfg.Cache, metrics)
	manager := poscache.NewManager(reg, broadcast, metrics, logger)
	flags := loader.NewFlags()

	// ====================================================
	fmt.Println("\n==================== 1) CACHE MISS ====================")
	v, _ := manager.GetOrFetch(ctx, registry.KeyMenuItems, api.fetchMenuItems, 0, false)
	fmt.Println("CACHE  → GET menu_items =", v)

	// ====================================================
	fmt.Println("\n==================== 2) CACHE HIT ====================")
	v, _ = manager.GetOrFetch(ctx, registry.KeyMenuItems, api.fetchMenuItems, 0, false)
	fmt.Println("CACHE  → GET menu_items =", v, "(no API call)")

	// ====================================================
	fmt.Println("\n==================== 3) TTL EXPIRY ====================")
	_, _ = manager.GetOrFetch(ctx, registry.KeyInventoryItems, api.fetchInventory, 500*time.Millisecond, false)
	fmt.Println("CACHE  → PUT inventory_items (TTL = 500ms)")

	time.Sleep(700 * time.Millisecond)

	v, _ = manager.GetOrFetch(ctx, registry.KeyInventoryItems, api.fetchInventory, 500*time.Millisecond, false)
	fmt.Println("CACHE  → GET inventory_items after expiry =", v, "(re-fetched)")

	// ====================================================
	fmt.Println("\n==================== 4) COALESCING ====================")
	manager.Invalidate(poscache.CategoryAll) // start cold

	wg := sync.WaitGroup{}
	before := api.calls.Load()
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := manager.GetOrFetch(ctx, registry.KeyMenuItems, api.fetchMenuItems, 0, false)
			fmt.Printf("GOROUTINE-%d → GET menu_items = %v\n", id, val)
		}(i)
	}
	wg.Wait()
	fmt.Printf("API calls for 5 concurrent readers: %d\n", api.calls.Load()-before)

	// ====================================================
	fmt.Println("\n==================== 5) MODULE LOADERS ====================")

	menuScreen := loader.New(
		[]types.ModuleName{types.ModuleMenuItems, types.ModuleCategories},
		api, flags,
		loader.Options{AutoLoad: true, SubscribeToInvalidation: true, Bus: broadcast, Logger: logger, Metrics: metrics},
	)
	defer menuScreen.Close()

	if err := menuScreen.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("menu screen load failed")
	}
	fmt.Println("LOADER → menu screen ready:", menuScreen.IsReady())

	// A second screen overlapping the first: menuItems is already
	// flagged loaded, so only the orders module is fetched.
	dashboard := loader.New(
		[]types.ModuleName{types.ModuleMenuItems, types.ModuleOrders},
		api, flags,
		loader.Options{AutoLoad: true, Logger: logger, Metrics: metrics},
	)
	defer dashboard.Close()

	if err := dashboard.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("dashboard load failed")
	}
	fmt.Println("LOADER → dashboard ready:", dashboard.IsReady())

	// ====================================================
	fmt.Println("\n==================== 6) INVALIDATION ====================")
	fmt.Println("ADMIN  → menu item updated, invalidating")
	manager.Invalidate(poscache.CategoryMenu)

	// Give the broadcast-triggered reload a moment to land.
	time.Sleep(300 * time.Millisecond)
	fmt.Println("LOADER → menu screen ready after reload:", menuScreen.IsReady())

	// ====================================================
	metrics.Print()

	fmt.Println("\n==================== SHUTDOWN ====================")
	menuScreen.Close()
	dashboard.Close()
	fmt.Println("SYSTEM → loaders closed cleanly")
}
