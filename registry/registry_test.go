package registry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/pos-admin-cache/config"
	"github.com/krisalay/pos-admin-cache/registry"
)

func TestCellsCarryConfiguredTTLs(t *testing.T) {
	cfg := config.Default().Cache
	reg := registry.New(cfg, nil)

	assert.Equal(t, 5*time.Minute, reg.Generic.DefaultTTL())
	assert.Equal(t, 5*time.Minute, reg.Admin.DefaultTTL())
	assert.Equal(t, 8*time.Second, reg.Orders.DefaultTTL())
	assert.Equal(t, 10*time.Second, reg.Tables.DefaultTTL())
	assert.Equal(t, 5*time.Second, reg.Menu.DefaultTTL())
	assert.Equal(t, 3*time.Second, reg.Inventory.DefaultTTL())
}

func TestTTLForUsesPerKeyOverrides(t *testing.T) {
	reg := registry.New(config.Default().Cache, nil)

	// static reference data lives long, dashboards short
	assert.Equal(t, 10*time.Minute, reg.TTLFor(registry.KeyCategories))
	assert.Equal(t, 30*time.Minute, reg.TTLFor(registry.KeyBusinessSettings))
	assert.Equal(t, 30*time.Second, reg.TTLFor(registry.KeyDashboardStats))

	// keys without an override fall back to the cell default
	assert.Equal(t, reg.Generic.DefaultTTL(), reg.TTLFor(registry.KeyMenuItems))
	assert.Equal(t, reg.Generic.DefaultTTL(), reg.TTLFor("unheard_of_key"))
}

func TestNegativeKeyOverrideClampsToZero(t *testing.T) {
	cfg := config.Default().Cache
	cfg.KeyTTLs = map[string]time.Duration{"broken": -time.Second}

	reg := registry.New(cfg, nil)
	assert.Equal(t, time.Duration(0), reg.TTLFor("broken"))
}

func TestClearAllEmptiesEveryCell(t *testing.T) {
	reg := registry.New(config.Default().Cache, nil)

	for _, c := range reg.Cells() {
		c.Set("key", "value")
	}

	reg.ClearAll()
	for _, c := range reg.Cells() {
		assert.Zero(t, c.Size(), "cell %s", c.Name())
	}

	require.NotPanics(t, func() { reg.ClearAll() })
}

func TestRegistryInstancesAreIsolated(t *testing.T) {
	cfg := config.Default().Cache
	a := registry.New(cfg, nil)
	b := registry.New(cfg, nil)

	a.Generic.Set(registry.KeyMenuItems, "from-a")

	_, ok := b.Generic.Get(registry.KeyMenuItems)
	assert.False(t, ok)
}
