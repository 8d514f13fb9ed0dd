package poscache

import (
	"github.com/krisalay/pos-admin-cache/cell"
	"github.com/krisalay/pos-admin-cache/registry"
	"github.com/krisalay/pos-admin-cache/types"
)

/*
This file defines the invalidation cascades: for each category of
mutation, the hand-enumerated set of cache state it wipes and the
topics it broadcasts afterwards.

The sets are deliberately COARSER than strictly necessary. Clearing a
superset of the affected keys costs at worst one extra re-fetch;
under-clearing silently serves stale stock and menu availability on a
live floor, which is the failure mode this system must never have.
When in doubt, a cascade clears more.

The table is maintained by hand. When a new generic-cell key is added,
whoever adds it decides here which mutations invalidate it.
*/

// Category names one kind of mutation for Invalidate.
type Category string

const (
	CategoryMenu           Category = "menu"
	CategoryInventory      Category = "inventory"
	CategoryUsers          Category = "users"
	CategoryTables         Category = "tables"
	CategoryBusiness       Category = "business"
	CategorySuppliers      Category = "suppliers"
	CategoryPurchaseOrders Category = "purchaseorders"
	CategoryAll            Category = "all"
)

// cascade is one row of the invalidation policy table.
type cascade struct {
	// genericKeys / adminKeys are deleted from their cells.
	genericKeys []string
	adminKeys   []string

	// cells are cleared wholesale.
	cells func(r *registry.Registry) []*cell.Cell

	// topics are broadcast after the clearing is done.
	topics []string
}

var cascades = map[Category]cascade{
	// Menu mutations also wipe inventory caches: menu availability is
	// derived from stock, so the two categories are never fresh
	// independently.
	CategoryMenu: {
		genericKeys: []string{
			registry.KeyMenuItems,
			registry.KeyCategories,
			registry.KeyInventoryItems,
		},
		cells: func(r *registry.Registry) []*cell.Cell {
			return []*cell.Cell{r.Menu, r.Inventory}
		},
		topics: []string{types.TopicMenuRefresh},
	},

	CategoryInventory: {
		genericKeys: []string{
			registry.KeyMenuItems,
			registry.KeyInventoryItems,
			registry.KeyInventoryAdjustments,
		},
		cells: func(r *registry.Registry) []*cell.Cell {
			return []*cell.Cell{r.Menu, r.Inventory}
		},
		topics: []string{types.TopicMenuRefresh},
	},

	CategoryUsers: {
		genericKeys: []string{registry.KeyUsers},
		adminKeys:   []string{registry.KeyUsers},
	},

	CategoryTables: {
		genericKeys: []string{registry.KeyTables},
		adminKeys:   []string{registry.KeyTables},
		cells: func(r *registry.Registry) []*cell.Cell {
			return []*cell.Cell{r.Tables}
		},
	},

	CategoryBusiness: {
		genericKeys: []string{registry.KeyBusinessSettings},
		adminKeys:   []string{registry.KeyBusinessSettings},
	},

	CategorySuppliers: {
		genericKeys: []string{registry.KeySuppliers},
		adminKeys:   []string{registry.KeySuppliers},
	},

	CategoryPurchaseOrders: {
		genericKeys: []string{registry.KeyPurchaseOrders},
		adminKeys:   []string{registry.KeyPurchaseOrders},
	},

	// The nuclear option: everything out, everybody reloads.
	CategoryAll: {
		cells: func(r *registry.Registry) []*cell.Cell {
			return r.Cells()
		},
		topics: []string{types.TopicMenuRefresh, types.TopicInventoryUpdated},
	},
}

/*
Invalidate runs the cascade for one category.

Clearing happens before broadcasting, so a consumer that re-fetches in
response to the broadcast is guaranteed to miss the cache and hit the
remote API. Every step is idempotent; running a cascade against
already-empty cells is a no-op.
*/
func (m *Manager) Invalidate(category Category) {
	casc, ok := cascades[category]
	if !ok {
		m.logger.Warn().
			Str("category", string(category)).
			Msg("unknown invalidation category ignored")
		return
	}

	for _, key := range casc.genericKeys {
		m.registry.Generic.Delete(key)
	}
	for _, key := range casc.adminKeys {
		m.registry.Admin.Delete(key)
	}
	if casc.cells != nil {
		for _, c := range casc.cells(m.registry) {
			c.Clear()
		}
	}

	m.metrics.Invalidation()
	m.logger.Debug().
		Str("category", string(category)).
		Strs("topics", casc.topics).
		Msg("invalidation cascade applied")

	if m.bus != nil {
		for _, topic := range casc.topics {
			m.bus.Publish(topic)
		}
	}
}
