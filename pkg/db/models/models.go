package models

// All lists every persisted model in dependency order, for AutoMigrate in
// tests and sqlite dev runs.
func All() []any {
	return []any{
		&AdminUser{},
		&Customer{},
		&ProductCategory{},
		&Product{},
		&ProductOption{},
		&ProductOptionVariant{},
		&ProductOptionSKU{},
		&Order{},
		&OrderItem{},
		&Shipment{},
		&ShipmentItem{},
		&InventoryLocation{},
		&InventoryProduct{},
		&SystemPreference{},
		&AuditLog{},
	}
}

// TableNames lists the persisted tables in the same order as All.
func TableNames() []string {
	return []string{
		"admin_users",
		"customers",
		"product_categories",
		"products",
		"product_options",
		"product_option_variants",
		"product_option_skus",
		"orders",
		"order_items",
		"shipments",
		"shipment_items",
		"inventory_locations",
		"inventory_products",
		"system_preferences",
		"audit_logs",
	}
}
