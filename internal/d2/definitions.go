package d2

// DisplayProperties is the common name/description/icon block of a definition.
type DisplayProperties struct {
	Description string `json:"description"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	HasIcon     bool   `json:"hasIcon"`
}

// ClassDefinition describes a character class.
type ClassDefinition struct {
	Hash               Hash              `json:"hash"`
	Index              int               `json:"index"`
	Redacted           bool              `json:"redacted"`
	DisplayProperties  DisplayProperties `json:"displayProperties"`
	ClassType          int               `json:"classType"`
	GenderedClassNames map[string]string `json:"genderedClassNames"`
}

// InventoryItemDefinition describes an item, including plugs.
type InventoryItemDefinition struct {
	Hash                       Hash                `json:"hash"`
	Index                      int                 `json:"index"`
	Redacted                   bool                `json:"redacted"`
	DisplayProperties          DisplayProperties   `json:"displayProperties"`
	ItemTypeDisplayName        string              `json:"itemTypeDisplayName"`
	ItemTypeAndTierDisplayName string              `json:"itemTypeAndTierDisplayName"`
	ItemType                   int                 `json:"itemType"`
	ItemSubType                int                 `json:"itemSubType"`
	ClassType                  int                 `json:"classType"`
	Equippable                 bool                `json:"equippable"`
	ItemCategoryHashes         []Hash              `json:"itemCategoryHashes"`
	Inventory                  *ItemInventoryBlock `json:"inventory,omitempty"`
	Stats                      *ItemStatBlock      `json:"stats,omitempty"`
	Sockets                    *ItemSocketBlock    `json:"sockets,omitempty"`
	Plug                       *ItemPlugBlock      `json:"plug,omitempty"`
}

// HasCategory reports whether the item belongs to the given item category.
func (d *InventoryItemDefinition) HasCategory(categoryHash Hash) bool {
	for _, h := range d.ItemCategoryHashes {
		if h == categoryHash {
			return true
		}
	}
	return false
}

// ItemInventoryBlock describes where an item lives.
type ItemInventoryBlock struct {
	BucketTypeHash Hash   `json:"bucketTypeHash"`
	TierTypeHash   Hash   `json:"tierTypeHash"`
	TierTypeName   string `json:"tierTypeName"`
	MaxStackSize   int    `json:"maxStackSize"`
}

// ItemStatBlock lists an item's investment stats.
type ItemStatBlock struct {
	PrimaryBaseStatHash Hash                         `json:"primaryBaseStatHash"`
	Stats               map[string]InventoryItemStat `json:"stats"`
}

// InventoryItemStat is a stat range on an item definition.
type InventoryItemStat struct {
	StatHash Hash `json:"statHash"`
	Value    int  `json:"value"`
	Minimum  int  `json:"minimum"`
	Maximum  int  `json:"maximum"`
}

// ItemSocketBlock lists an item's sockets and how they are grouped.
type ItemSocketBlock struct {
	SocketEntries    []ItemSocketEntry    `json:"socketEntries"`
	SocketCategories []ItemSocketCategory `json:"socketCategories"`
}

// ItemSocketEntry is one socket slot on an item definition.
type ItemSocketEntry struct {
	SocketTypeHash        Hash `json:"socketTypeHash"`
	SingleInitialItemHash Hash `json:"singleInitialItemHash"`
	ReusablePlugSetHash   Hash `json:"reusablePlugSetHash,omitempty"`
	RandomizedPlugSetHash Hash `json:"randomizedPlugSetHash,omitempty"`
	DefaultVisible        bool `json:"defaultVisible"`
}

// ItemSocketCategory groups socket indexes under a socket category.
type ItemSocketCategory struct {
	SocketCategoryHash Hash  `json:"socketCategoryHash"`
	SocketIndexes      []int `json:"socketIndexes"`
}

// ItemPlugBlock is present on items that can be inserted into sockets.
type ItemPlugBlock struct {
	PlugCategoryIdentifier string `json:"plugCategoryIdentifier"`
	PlugCategoryHash       Hash   `json:"plugCategoryHash"`
	UIPlugLabel            string `json:"uiPlugLabel"`
}

// InventoryBucketDefinition describes an inventory bucket.
type InventoryBucketDefinition struct {
	Hash              Hash              `json:"hash"`
	Index             int               `json:"index"`
	Redacted          bool              `json:"redacted"`
	DisplayProperties DisplayProperties `json:"displayProperties"`
	Scope             int               `json:"scope"`
	Category          int               `json:"category"`
	BucketOrder       int               `json:"bucketOrder"`
	ItemCount         int               `json:"itemCount"`
	Location          int               `json:"location"`
	Enabled           bool              `json:"enabled"`
}

// ItemCategoryDefinition describes an item category.
type ItemCategoryDefinition struct {
	Hash                  Hash              `json:"hash"`
	Index                 int               `json:"index"`
	Redacted              bool              `json:"redacted"`
	DisplayProperties     DisplayProperties `json:"displayProperties"`
	Visible               bool              `json:"visible"`
	ShortTitle            string            `json:"shortTitle"`
	ItemTypeRegex         string            `json:"itemTypeRegex"`
	GrantDestinyItemType  int               `json:"grantDestinyItemType"`
	GrantDestinySubType   int               `json:"grantDestinySubType"`
	GrantDestinyClass     int               `json:"grantDestinyClass"`
	ParentCategoryHashes  []Hash            `json:"parentCategoryHashes"`
	GroupedCategoryHashes []Hash            `json:"groupedCategoryHashes"`
}

// SocketTypeDefinition describes which plugs a socket accepts.
type SocketTypeDefinition struct {
	Hash               Hash                 `json:"hash"`
	Index              int                  `json:"index"`
	Redacted           bool                 `json:"redacted"`
	DisplayProperties  DisplayProperties    `json:"displayProperties"`
	SocketCategoryHash Hash                 `json:"socketCategoryHash"`
	Visibility         int                  `json:"visibility"`
	PlugWhitelist      []PlugWhitelistEntry `json:"plugWhitelist"`
}

// PlugWhitelistEntry names a plug category a socket accepts.
type PlugWhitelistEntry struct {
	CategoryHash       Hash   `json:"categoryHash"`
	CategoryIdentifier string `json:"categoryIdentifier"`
}

// SocketCategoryDefinition describes a group of sockets.
type SocketCategoryDefinition struct {
	Hash              Hash              `json:"hash"`
	Index             int               `json:"index"`
	Redacted          bool              `json:"redacted"`
	DisplayProperties DisplayProperties `json:"displayProperties"`
	UICategoryStyle   Hash              `json:"uiCategoryStyle"`
	CategoryStyle     int               `json:"categoryStyle"`
}

// StatDefinition describes a stat.
type StatDefinition struct {
	Hash              Hash              `json:"hash"`
	Index             int               `json:"index"`
	Redacted          bool              `json:"redacted"`
	DisplayProperties DisplayProperties `json:"displayProperties"`
	AggregationType   int               `json:"aggregationType"`
	HasComputedBlock  bool              `json:"hasComputedBlock"`
	StatCategory      int               `json:"statCategory"`
	Interpolate       bool              `json:"interpolate"`
}
