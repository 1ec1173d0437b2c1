package testutil

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"destiny2-go/internal/d2"
	"destiny2-go/internal/manifest"
)

// Hashes used by the fixture manifest. Several sit above 2^31 so they are
// stored under negative keys.
const (
	HunterClassHash    d2.Hash = 671679327
	TitanClassHash     d2.Hash = 3655393761
	AceOfSpadesHash    d2.Hash = 347366834
	GjallarhornHash    d2.Hash = 1363886209
	ShaderHash         d2.Hash = 2988209049
	KineticBucketHash  d2.Hash = 1498876634
	WeaponCategoryHash d2.Hash = 1
	HandCannonCategory d2.Hash = 6
	RocketLauncherCat  d2.Hash = 13
	SocketTypeHash     d2.Hash = 2218962841
	SocketCategoryHash d2.Hash = 4241085061
	ImpactStatHash     d2.Hash = 4043523819
	RangeStatHash      d2.Hash = 1240592695
	MobilityStatHash   d2.Hash = 2996146975
)

// fixtureTables holds the schema every fixture database gets.
var fixtureTables = []string{
	manifest.ClassKind.Table,
	manifest.InventoryItemKind.Table,
	manifest.BucketKind.Table,
	manifest.ItemCategoryKind.Table,
	manifest.SocketTypeKind.Table,
	manifest.SocketCategoryKind.Table,
	manifest.StatKind.Table,
}

// FixtureDefinitions returns the rows written by WriteTestManifestDB, keyed by table.
func FixtureDefinitions() map[string][]any {
	return map[string][]any{
		manifest.ClassKind.Table: {
			d2.ClassDefinition{Hash: HunterClassHash, ClassType: 1, DisplayProperties: d2.DisplayProperties{Name: "Hunter"}},
			d2.ClassDefinition{Hash: TitanClassHash, ClassType: 0, DisplayProperties: d2.DisplayProperties{Name: "Titan"}},
		},
		manifest.InventoryItemKind.Table: {
			d2.InventoryItemDefinition{
				Hash:                AceOfSpadesHash,
				DisplayProperties:   d2.DisplayProperties{Name: "Ace of Spades"},
				ItemTypeDisplayName: "Hand Cannon",
				Equippable:          true,
				ItemCategoryHashes:  []d2.Hash{WeaponCategoryHash, HandCannonCategory},
				Inventory:           &d2.ItemInventoryBlock{BucketTypeHash: KineticBucketHash, TierTypeName: "Exotic"},
			},
			d2.InventoryItemDefinition{
				Hash:                GjallarhornHash,
				DisplayProperties:   d2.DisplayProperties{Name: "Gjallarhorn"},
				ItemTypeDisplayName: "Rocket Launcher",
				Equippable:          true,
				ItemCategoryHashes:  []d2.Hash{WeaponCategoryHash, RocketLauncherCat},
			},
			d2.InventoryItemDefinition{
				Hash:              ShaderHash,
				DisplayProperties: d2.DisplayProperties{Name: "Gold Shader"},
				Plug:              &d2.ItemPlugBlock{PlugCategoryIdentifier: "shader"},
			},
		},
		manifest.BucketKind.Table: {
			d2.InventoryBucketDefinition{Hash: KineticBucketHash, ItemCount: 10, Enabled: true, DisplayProperties: d2.DisplayProperties{Name: "Kinetic Weapons"}},
		},
		manifest.ItemCategoryKind.Table: {
			d2.ItemCategoryDefinition{Hash: WeaponCategoryHash, DisplayProperties: d2.DisplayProperties{Name: "Weapon"}},
			d2.ItemCategoryDefinition{Hash: HandCannonCategory, DisplayProperties: d2.DisplayProperties{Name: "Hand Cannon"}},
			d2.ItemCategoryDefinition{Hash: RocketLauncherCat, DisplayProperties: d2.DisplayProperties{Name: "Rocket Launcher"}},
		},
		manifest.SocketTypeKind.Table: {
			d2.SocketTypeDefinition{Hash: SocketTypeHash, SocketCategoryHash: SocketCategoryHash},
		},
		manifest.SocketCategoryKind.Table: {
			d2.SocketCategoryDefinition{Hash: SocketCategoryHash, DisplayProperties: d2.DisplayProperties{Name: "Weapon Perks"}},
		},
		manifest.StatKind.Table: {
			d2.StatDefinition{Hash: ImpactStatHash, DisplayProperties: d2.DisplayProperties{Name: "Impact"}},
			d2.StatDefinition{Hash: RangeStatHash, DisplayProperties: d2.DisplayProperties{Name: "Range"}},
			d2.StatDefinition{Hash: MobilityStatHash, DisplayProperties: d2.DisplayProperties{Name: "Mobility"}},
		},
	}
}

// WriteTestManifestDB creates a manifest database file under dir populated
// with FixtureDefinitions and returns its path.
func WriteTestManifestDB(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "world.content")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for _, table := range fixtureTables {
		if _, err := db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY NOT NULL, json BLOB)"); err != nil {
			t.Fatalf("failed to create %s: %v", table, err)
		}
	}

	for table, defs := range FixtureDefinitions() {
		for _, def := range defs {
			raw, err := json.Marshal(def)
			if err != nil {
				t.Fatalf("failed to encode fixture: %v", err)
			}
			InsertDefinition(t, db, table, definitionHash(t, raw), string(raw))
		}
	}

	return path
}

func definitionHash(t *testing.T, raw []byte) d2.Hash {
	t.Helper()
	var probe struct {
		Hash d2.Hash `json:"hash"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatalf("failed to read fixture hash: %v", err)
	}
	return probe.Hash
}

// InsertDefinition writes one raw row into table.
func InsertDefinition(t *testing.T, db *sql.DB, table string, hash d2.Hash, raw string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO "+table+" (id, json) VALUES (?, ?)", hash.Key(), raw); err != nil {
		t.Fatalf("failed to insert into %s: %v", table, err)
	}
}

// NewTestManifest opens a read-only fixture manifest in a temp directory.
// The manifest is automatically closed when the test completes.
func NewTestManifest(t *testing.T) *manifest.SQLiteManifest {
	t.Helper()

	path := WriteTestManifestDB(t, t.TempDir())
	m, err := manifest.NewSQLiteManifest(path, nil)
	if err != nil {
		t.Fatalf("failed to open manifest: %v", err)
	}

	t.Cleanup(func() {
		m.Close()
	})

	return m
}
