package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	poscache "github.com/krisalay/pos-admin-cache"
	"github.com/krisalay/pos-admin-cache/bus"
	"github.com/krisalay/pos-admin-cache/config"
	"github.com/krisalay/pos-admin-cache/metrics"
	"github.com/krisalay/pos-admin-cache/registry"
)

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	const (
		keys       = 1000
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Keys         :", keys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	promReg := prometheus.NewRegistry()
	m := metrics.NewPrometheus(promReg)

	cfg := config.Default()
	cfg.Cache.GenericTTL = time.Minute // keep entries hot for the run

	reg := registry.New(cfg.Cache, m)
	manager := poscache.NewManager(reg, bus.New(), m, zerolog.Nop())

	// fetcher simulates the remote API: no latency, the benchmark
	// measures the cache path, not the network.
	fetchValue := func(ctx context.Context) (any, error) {
		return "value", nil
	}

	// ---------------- Warmup ----------------
	fmt.Println("Warming up cache...")
	for i := 0; i < keys; i++ {
		if _, err := manager.GetOrFetch(ctx, fmt.Sprintf("key-%d", i), fetchValue, 0, false); err != nil {
			panic(err)
		}
	}
	fmt.Println("Warmup complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				key := fmt.Sprintf("key-%d", j%keys)
				if _, err := manager.GetOrFetch(ctx, key, fetchValue, 0, false); err != nil {
					panic(err)
				}
			}
		}(i)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())

	// ---------------- Metrics ----------------
	fmt.Println("\n================ METRICS =================")
	families, err := promReg.Gather()
	if err != nil {
		panic(err)
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fmt.Printf("%-32s %d\n", mf.GetName(), int64(metric.GetCounter().GetValue()))
		}
	}
	fmt.Println("=========================================")
}
