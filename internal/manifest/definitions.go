package manifest

import (
	"context"

	"destiny2-go/internal/d2"
)

func (m *SQLiteManifest) LoadClass(ctx context.Context, hash d2.Hash) (*d2.ClassDefinition, error) {
	return Load(ctx, m, ClassKind, hash)
}

func (m *SQLiteManifest) LoadInventoryItem(ctx context.Context, hash d2.Hash) (*d2.InventoryItemDefinition, error) {
	return Load(ctx, m, InventoryItemKind, hash)
}

// LoadInventoryItemsWithCategory scans the whole item table. Avoid it on
// latency-sensitive paths.
func (m *SQLiteManifest) LoadInventoryItemsWithCategory(ctx context.Context, categoryHash d2.Hash) ([]*d2.InventoryItemDefinition, error) {
	return LoadWhere(ctx, m, InventoryItemKind, func(item *d2.InventoryItemDefinition) bool {
		return item.HasCategory(categoryHash)
	})
}

func (m *SQLiteManifest) LoadBucket(ctx context.Context, hash d2.Hash) (*d2.InventoryBucketDefinition, error) {
	return Load(ctx, m, BucketKind, hash)
}

func (m *SQLiteManifest) LoadItemCategories(ctx context.Context, hashes []d2.Hash) ([]*d2.ItemCategoryDefinition, error) {
	return LoadMany(ctx, m, ItemCategoryKind, hashes)
}

func (m *SQLiteManifest) LoadPlug(ctx context.Context, hash d2.Hash) (*d2.InventoryItemDefinition, error) {
	return Load(ctx, m, PlugKind, hash)
}

func (m *SQLiteManifest) LoadSocketType(ctx context.Context, hash d2.Hash) (*d2.SocketTypeDefinition, error) {
	return Load(ctx, m, SocketTypeKind, hash)
}

func (m *SQLiteManifest) LoadSocketCategory(ctx context.Context, hash d2.Hash) (*d2.SocketCategoryDefinition, error) {
	return Load(ctx, m, SocketCategoryKind, hash)
}

func (m *SQLiteManifest) LoadStat(ctx context.Context, hash d2.Hash) (*d2.StatDefinition, error) {
	return Load(ctx, m, StatKind, hash)
}

func (m *SQLiteManifest) LoadStats(ctx context.Context, hashes []d2.Hash) ([]*d2.StatDefinition, error) {
	return LoadMany(ctx, m, StatKind, hashes)
}
