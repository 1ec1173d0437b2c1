package d2

import "context"

// ManifestSettings supplies the location of the local manifest database and
// how many definitions to keep in memory (0 disables caching).
type ManifestSettings interface {
	ManifestDBPath() string
	ManifestCacheSize() int
}

// ManifestStore resolves content hashes into definitions from the local manifest
// database. The database is a read-only snapshot.
type ManifestStore interface {
	// Typed single-hash lookups. A hash with no row is an error.

	LoadClass(ctx context.Context, hash Hash) (*ClassDefinition, error)
	LoadInventoryItem(ctx context.Context, hash Hash) (*InventoryItemDefinition, error)
	LoadBucket(ctx context.Context, hash Hash) (*InventoryBucketDefinition, error)
	LoadPlug(ctx context.Context, hash Hash) (*InventoryItemDefinition, error)
	LoadSocketType(ctx context.Context, hash Hash) (*SocketTypeDefinition, error)
	LoadSocketCategory(ctx context.Context, hash Hash) (*SocketCategoryDefinition, error)
	LoadStat(ctx context.Context, hash Hash) (*StatDefinition, error)

	// Typed multi-hash lookups. Duplicate hashes collapse and missing hashes
	// are skipped; result order is unspecified.

	LoadItemCategories(ctx context.Context, hashes []Hash) ([]*ItemCategoryDefinition, error)
	LoadStats(ctx context.Context, hashes []Hash) ([]*StatDefinition, error)

	// LoadInventoryItemsWithCategory scans every item definition and returns
	// those in the given item category.
	LoadInventoryItemsWithCategory(ctx context.Context, categoryHash Hash) ([]*InventoryItemDefinition, error)

	// GetJSON returns the raw definition JSON for hash in an arbitrary table.
	// A missing table or row yields "" and no error.
	GetJSON(ctx context.Context, tableName string, hash Hash) (string, error)

	// GetJSONMany is GetJSON for several hashes. A missing table yields an
	// empty slice and no error.
	GetJSONMany(ctx context.Context, tableName string, hashes []Hash) ([]string, error)

	// Close closes the database connection.
	Close() error
}
