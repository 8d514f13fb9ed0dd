package registry

import (
	"time"

	"github.com/krisalay/pos-admin-cache/cell"
	"github.com/krisalay/pos-admin-cache/config"
	"github.com/krisalay/pos-admin-cache/types"
)

/*
This file wires the individual cache cells into the fixed set the
application actually runs with.

Why separate cells instead of one cell with per-entry TTLs?
Because invalidation works on categories. "Stock changed" has to wipe
every inventory-adjacent entry, and with one cell per category that is
a single Clear() instead of a key enumeration that somebody forgets
to update when a new key is added.
*/

// Well-known keys inside the generic and admin cells.
const (
	KeyMenuItems            = "menu_items"
	KeyCategories           = "categories"
	KeyInventoryItems       = "inventory_items"
	KeyInventoryAdjustments = "inventory_adjustments"
	KeyUsers                = "users"
	KeyTables               = "tables"
	KeyBusinessSettings     = "business_settings"
	KeyDashboardStats       = "dashboard_stats"
	KeySuppliers            = "suppliers"
	KeyPurchaseOrders       = "purchase_orders"
	KeyAuditLog             = "audit_log"
)

// Cell names, used in logs and metrics labels.
const (
	CellGeneric   = "generic"
	CellAdmin     = "admin"
	CellOrders    = "orders"
	CellTables    = "tables"
	CellMenu      = "menu"
	CellInventory = "inventory"
)

/*
Registry holds the process's cache cells.

Generic is the catch-all for API responses and carries per-key TTL
overrides. Admin holds admin-screen-scoped copies of the same
categories. The four fast cells hold high-churn floor state and are
tuned to single-digit-second TTLs; they are cleared wholesale by
invalidation, never key by key.

A Registry is an explicit constructed object, not a package-level
singleton. Production builds one in main and passes it down; tests
build as many isolated ones as they need.
*/
type Registry struct {
	Generic   *cell.Cell
	Admin     *cell.Cell
	Orders    *cell.Cell
	Tables    *cell.Cell
	Menu      *cell.Cell
	Inventory *cell.Cell

	keyTTLs map[string]time.Duration
}

// New builds the fixed cell set from configuration. A nil metrics
// falls back to NoopMetrics.
func New(cfg config.CacheConfig, metrics types.Metrics) *Registry {
	keyTTLs := make(map[string]time.Duration, len(cfg.KeyTTLs))
	for k, ttl := range cfg.KeyTTLs {
		if ttl < 0 {
			ttl = 0
		}
		keyTTLs[k] = ttl
	}

	return &Registry{
		Generic:   cell.New(CellGeneric, cfg.GenericTTL, metrics),
		Admin:     cell.New(CellAdmin, cfg.AdminTTL, metrics),
		Orders:    cell.New(CellOrders, cfg.OrdersTTL, metrics),
		Tables:    cell.New(CellTables, cfg.TablesTTL, metrics),
		Menu:      cell.New(CellMenu, cfg.MenuTTL, metrics),
		Inventory: cell.New(CellInventory, cfg.InventoryTTL, metrics),
		keyTTLs:   keyTTLs,
	}
}

/*
TTLFor returns the TTL to use when storing key in the generic cell:
the per-key override if one is configured, the cell default otherwise.

Static reference data (categories, business settings) gets long
overrides; dashboard aggregates get short ones.
*/
func (r *Registry) TTLFor(key string) time.Duration {
	if ttl, ok := r.keyTTLs[key]; ok {
		return ttl
	}
	return r.Generic.DefaultTTL()
}

// Cells returns every cell in the registry.
func (r *Registry) Cells() []*cell.Cell {
	return []*cell.Cell{
		r.Generic,
		r.Admin,
		r.Orders,
		r.Tables,
		r.Menu,
		r.Inventory,
	}
}

// ClearAll empties every cell. Idempotent.
func (r *Registry) ClearAll() {
	for _, c := range r.Cells() {
		c.Clear()
	}
}
