package d2

import (
	"fmt"
	"strconv"
	"strings"
)

// ComponentType selects an optional section of profile, character or item data.
type ComponentType int

const (
	ComponentNone                  ComponentType = 0
	ComponentProfiles              ComponentType = 100
	ComponentVendorReceipts        ComponentType = 101
	ComponentProfileInventories    ComponentType = 102
	ComponentProfileCurrencies     ComponentType = 103
	ComponentProfileProgression    ComponentType = 104
	ComponentPlatformSilver        ComponentType = 105
	ComponentCharacters            ComponentType = 200
	ComponentCharacterInventories  ComponentType = 201
	ComponentCharacterProgressions ComponentType = 202
	ComponentCharacterRenderData   ComponentType = 203
	ComponentCharacterActivities   ComponentType = 204
	ComponentCharacterEquipment    ComponentType = 205
	ComponentItemInstances         ComponentType = 300
	ComponentItemObjectives        ComponentType = 301
	ComponentItemPerks             ComponentType = 302
	ComponentItemRenderData        ComponentType = 303
	ComponentItemStats             ComponentType = 304
	ComponentItemSockets           ComponentType = 305
	ComponentItemTalentGrids       ComponentType = 306
	ComponentItemCommonData        ComponentType = 307
	ComponentItemPlugStates        ComponentType = 308
	ComponentItemPlugObjectives    ComponentType = 309
	ComponentItemReusablePlugs     ComponentType = 310
	ComponentVendors               ComponentType = 400
	ComponentVendorCategories      ComponentType = 401
	ComponentVendorSales           ComponentType = 402
	ComponentKiosks                ComponentType = 500
	ComponentCurrencyLookups       ComponentType = 600
	ComponentPresentationNodes     ComponentType = 700
	ComponentCollectibles          ComponentType = 800
	ComponentRecords               ComponentType = 900
	ComponentTransitory            ComponentType = 1000
	ComponentMetrics               ComponentType = 1100
	ComponentStringVariables       ComponentType = 1200
)

var componentNames = map[ComponentType]string{
	ComponentNone:                  "None",
	ComponentProfiles:              "Profiles",
	ComponentVendorReceipts:        "VendorReceipts",
	ComponentProfileInventories:    "ProfileInventories",
	ComponentProfileCurrencies:     "ProfileCurrencies",
	ComponentProfileProgression:    "ProfileProgression",
	ComponentPlatformSilver:        "PlatformSilver",
	ComponentCharacters:            "Characters",
	ComponentCharacterInventories:  "CharacterInventories",
	ComponentCharacterProgressions: "CharacterProgressions",
	ComponentCharacterRenderData:   "CharacterRenderData",
	ComponentCharacterActivities:   "CharacterActivities",
	ComponentCharacterEquipment:    "CharacterEquipment",
	ComponentItemInstances:         "ItemInstances",
	ComponentItemObjectives:        "ItemObjectives",
	ComponentItemPerks:             "ItemPerks",
	ComponentItemRenderData:        "ItemRenderData",
	ComponentItemStats:             "ItemStats",
	ComponentItemSockets:           "ItemSockets",
	ComponentItemTalentGrids:       "ItemTalentGrids",
	ComponentItemCommonData:        "ItemCommonData",
	ComponentItemPlugStates:        "ItemPlugStates",
	ComponentItemPlugObjectives:    "ItemPlugObjectives",
	ComponentItemReusablePlugs:     "ItemReusablePlugs",
	ComponentVendors:               "Vendors",
	ComponentVendorCategories:      "VendorCategories",
	ComponentVendorSales:           "VendorSales",
	ComponentKiosks:                "Kiosks",
	ComponentCurrencyLookups:       "CurrencyLookups",
	ComponentPresentationNodes:     "PresentationNodes",
	ComponentCollectibles:          "Collectibles",
	ComponentRecords:               "Records",
	ComponentTransitory:            "Transitory",
	ComponentMetrics:               "Metrics",
	ComponentStringVariables:       "StringVariables",
}

func (c ComponentType) String() string {
	if name, ok := componentNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// ParseComponentType accepts a numeric code or a case-insensitive name.
func ParseComponentType(s string) (ComponentType, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return ComponentType(n), nil
	}
	for c, name := range componentNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return ComponentNone, fmt.Errorf("unknown component type: %q", s)
}

// JoinComponents renders components as the comma-joined integer list the
// API expects in the components query parameter.
func JoinComponents(components []ComponentType) string {
	codes := make([]string, len(components))
	for i, c := range components {
		codes[i] = strconv.Itoa(int(c))
	}
	return strings.Join(codes, ",")
}
