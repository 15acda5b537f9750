package postgres

import (
	"strings"
	"testing"
)

// Every table the store queries must be created by the startup schema, so a
// fresh database is usable straight from New.
func TestSchemaCoversAllStoreTables(t *testing.T) {
	tables := []string{
		"products", "orders", "customers", "sales", "inventory_items",
		"expenses", "revenue_entries", "livestock", "documents", "contact_forms",
		"site_about", "site_settings", "blog_posts", "nft_records", "users",
		"audit_logs",
	}

	for _, table := range tables {
		found := false
		for _, stmt := range schemaStatements {
			if strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no schema statement creates table %s", table)
		}
	}
}

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range schemaStatements {
		if !strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS") {
			t.Fatalf("schema statement is not idempotent: %.60s", stmt)
		}
	}
}
