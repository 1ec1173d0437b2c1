package manifest

import (
	"sort"
	"strings"

	"destiny2-go/internal/d2"
)

// Kind binds a definition type to the fixed table it is stored in.
type Kind[T any] struct {
	Name  string
	Table string
}

var (
	ClassKind          = Kind[d2.ClassDefinition]{Name: "class", Table: "DESTINYCLASSDEFINITION"}
	InventoryItemKind  = Kind[d2.InventoryItemDefinition]{Name: "item", Table: "DESTINYINVENTORYITEMDEFINITION"}
	BucketKind         = Kind[d2.InventoryBucketDefinition]{Name: "bucket", Table: "DESTINYINVENTORYBUCKETDEFINITION"}
	ItemCategoryKind   = Kind[d2.ItemCategoryDefinition]{Name: "category", Table: "DESTINYITEMCATEGORYDEFINITION"}
	SocketTypeKind     = Kind[d2.SocketTypeDefinition]{Name: "socket-type", Table: "DESTINYSOCKETTYPEDEFINITION"}
	SocketCategoryKind = Kind[d2.SocketCategoryDefinition]{Name: "socket-category", Table: "DESTINYSOCKETCATEGORYDEFINITION"}
	StatKind           = Kind[d2.StatDefinition]{Name: "stat", Table: "DESTINYSTATDEFINITION"}
)

// Plugs are inventory items.
var PlugKind = Kind[d2.InventoryItemDefinition]{Name: "plug", Table: InventoryItemKind.Table}

var kindTables = map[string]string{
	ClassKind.Name:          ClassKind.Table,
	InventoryItemKind.Name:  InventoryItemKind.Table,
	PlugKind.Name:           PlugKind.Table,
	BucketKind.Name:         BucketKind.Table,
	ItemCategoryKind.Name:   ItemCategoryKind.Table,
	SocketTypeKind.Name:     SocketTypeKind.Table,
	SocketCategoryKind.Name: SocketCategoryKind.Table,
	StatKind.Name:           StatKind.Table,
}

// TableForKind returns the table a named kind is stored in.
func TableForKind(name string) (string, bool) {
	table, ok := kindTables[strings.ToLower(name)]
	return table, ok
}

// KindNames lists the registered kind names in sorted order.
func KindNames() []string {
	names := make([]string, 0, len(kindTables))
	for name := range kindTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
