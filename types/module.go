package types

/*
ModuleName identifies one named slice of application data that the
admin screens work with (menu items, tables, orders, ...).

Modules are the unit of load tracking:
- A module is either loaded into shared application state or it is not
- Loaders declare the set of modules they need
- Invalidation events name the modules they affect

Modules are NOT cache keys. A cache key addresses one entry in one
cache cell; a module describes a whole category of data that may be
backed by several keys.
*/
type ModuleName string

const (
	ModuleMenuItems            ModuleName = "menuItems"
	ModuleCategories           ModuleName = "categories"
	ModuleInventoryItems       ModuleName = "inventoryItems"
	ModuleInventoryAdjustments ModuleName = "inventoryAdjustments"
	ModuleOrders               ModuleName = "orders"
	ModuleTables               ModuleName = "tables"
	ModuleUsers                ModuleName = "users"
	ModuleBusinessSettings     ModuleName = "businessSettings"
	ModuleSuppliers            ModuleName = "suppliers"
	ModulePurchaseOrders       ModuleName = "purchaseOrders"
	ModuleAuditLog             ModuleName = "auditLog"
)

/*
Broadcast topics for the invalidation bus.

TopicMenuRefresh is deliberately coarse: both menu and inventory
mutations publish it, because menu availability in the UI is derived
from stock levels. Listeners that care about the difference have to
re-derive it from their own declared modules.
*/
const (
	TopicMenuRefresh      = "menuManagementRefresh"
	TopicInventoryUpdated = "inventoryUpdated"
)

// affectedByTopic maps a broadcast topic to the modules it invalidates.
var affectedByTopic = map[string][]ModuleName{
	TopicMenuRefresh: {
		ModuleMenuItems,
		ModuleCategories,
		ModuleInventoryItems,
		ModuleInventoryAdjustments,
	},
	TopicInventoryUpdated: {
		ModuleInventoryItems,
		ModuleInventoryAdjustments,
	},
}

// ModulesForTopic returns the modules affected by a broadcast topic.
// Unknown topics affect nothing.
func ModulesForTopic(topic string) []ModuleName {
	return affectedByTopic[topic]
}
