package d2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Manifest describes where the current content database and reference files live.
type Manifest struct {
	Version                        string                       `json:"version"`
	MobileAssetContentPath         string                       `json:"mobileAssetContentPath"`
	MobileGearAssetDataBases       []GearAssetDataBase          `json:"mobileGearAssetDataBases"`
	MobileWorldContentPaths        map[string]string            `json:"mobileWorldContentPaths"`
	JSONWorldContentPaths          map[string]string            `json:"jsonWorldContentPaths"`
	JSONWorldComponentContentPaths map[string]map[string]string `json:"jsonWorldComponentContentPaths"`
	MobileClanBannerDatabasePath   string                       `json:"mobileClanBannerDatabasePath"`
	MobileGearCDN                  map[string]string            `json:"mobileGearCDN"`
}

// GearAssetDataBase is a versioned gear asset package.
type GearAssetDataBase struct {
	Version int    `json:"version"`
	Path    string `json:"path"`
}

// UserInfoCard identifies one platform account.
type UserInfoCard struct {
	SupplementalDisplayName     string         `json:"supplementalDisplayName"`
	IconPath                    string         `json:"iconPath"`
	CrossSaveOverride           MembershipType `json:"crossSaveOverride"`
	ApplicableMembershipTypes   []int          `json:"applicableMembershipTypes"`
	IsPublic                    bool           `json:"isPublic"`
	MembershipType              MembershipType `json:"membershipType"`
	MembershipID                int64          `json:"membershipId,string"`
	DisplayName                 string         `json:"displayName"`
	BungieGlobalDisplayName     string         `json:"bungieGlobalDisplayName"`
	BungieGlobalDisplayNameCode int            `json:"bungieGlobalDisplayNameCode"`
}

// ProfileUserInfoCard is a UserInfoCard with Destiny-specific linkage data.
type ProfileUserInfoCard struct {
	UserInfoCard
	DateLastPlayed     time.Time `json:"dateLastPlayed"`
	IsOverridden       bool      `json:"isOverridden"`
	IsCrossSavePrimary bool      `json:"isCrossSavePrimary"`
}

// ErrorProfile is a linked profile that could not be returned.
type ErrorProfile struct {
	ErrorCode int          `json:"errorCode"`
	InfoCard  UserInfoCard `json:"infoCard"`
}

// LinkedProfilesResponse lists every Destiny profile linked to a membership.
type LinkedProfilesResponse struct {
	Profiles           []ProfileUserInfoCard `json:"profiles"`
	BnetMembership     UserInfoCard          `json:"bnetMembership"`
	ProfilesWithErrors []ErrorProfile        `json:"profilesWithErrors"`
}

// ProfileComponent is the Profiles (100) component.
type ProfileComponent struct {
	UserInfo                    UserInfoCard `json:"userInfo"`
	DateLastPlayed              time.Time    `json:"dateLastPlayed"`
	VersionsOwned               int          `json:"versionsOwned"`
	CharacterIDs                []string     `json:"characterIds"`
	SeasonHashes                []Hash       `json:"seasonHashes"`
	CurrentSeasonHash           Hash         `json:"currentSeasonHash"`
	CurrentGuardianRank         int          `json:"currentGuardianRank"`
	LifetimeHighestGuardianRank int          `json:"lifetimeHighestGuardianRank"`
}

// CharacterComponent is the Characters (200) component.
type CharacterComponent struct {
	MembershipID   int64          `json:"membershipId,string"`
	MembershipType MembershipType `json:"membershipType"`
	CharacterID    int64          `json:"characterId,string"`
	DateLastPlayed time.Time      `json:"dateLastPlayed"`
	Light          int            `json:"light"`
	Stats          map[string]int `json:"stats"`
	RaceHash       Hash           `json:"raceHash"`
	GenderHash     Hash           `json:"genderHash"`
	ClassHash      Hash           `json:"classHash"`
	ClassType      int            `json:"classType"`
	EmblemPath     string         `json:"emblemPath"`
	EmblemHash     Hash           `json:"emblemHash"`
}

// ItemComponent is one item as it appears in an inventory.
type ItemComponent struct {
	ItemHash              Hash  `json:"itemHash"`
	ItemInstanceID        int64 `json:"itemInstanceId,string,omitempty"`
	Quantity              int   `json:"quantity"`
	BindStatus            int   `json:"bindStatus"`
	Location              int   `json:"location"`
	BucketHash            Hash  `json:"bucketHash"`
	TransferStatus        int   `json:"transferStatus"`
	Lockable              bool  `json:"lockable"`
	State                 int   `json:"state"`
	OverrideStyleItemHash Hash  `json:"overrideStyleItemHash,omitempty"`
}

// InventoryComponent is a list of items.
type InventoryComponent struct {
	Items []ItemComponent `json:"items"`
}

// ItemInstanceComponent holds instanced item state.
type ItemInstanceComponent struct {
	DamageType         int   `json:"damageType"`
	DamageTypeHash     Hash  `json:"damageTypeHash"`
	PrimaryStat        *Stat `json:"primaryStat,omitempty"`
	ItemLevel          int   `json:"itemLevel"`
	Quality            int   `json:"quality"`
	IsEquipped         bool  `json:"isEquipped"`
	CanEquip           bool  `json:"canEquip"`
	EquipRequiredLevel int   `json:"equipRequiredLevel"`
	CannotEquipReason  int   `json:"cannotEquipReason"`
}

// Stat is a single stat value.
type Stat struct {
	StatHash Hash `json:"statHash"`
	Value    int  `json:"value"`
}

// ItemStatsComponent holds an item's stats keyed by stat hash.
type ItemStatsComponent struct {
	Stats map[string]Stat `json:"stats"`
}

// ItemSocketState is one socket on an instanced item.
type ItemSocketState struct {
	PlugHash  Hash `json:"plugHash"`
	IsEnabled bool `json:"isEnabled"`
	IsVisible bool `json:"isVisible"`
}

// ItemSocketsComponent holds an item's socket states.
type ItemSocketsComponent struct {
	Sockets []ItemSocketState `json:"sockets"`
}

// SingleComponent wraps one component section.
type SingleComponent[T any] struct {
	Data    *T  `json:"data,omitempty"`
	Privacy int `json:"privacy"`
}

// DictionaryComponent wraps a component section keyed by character or item id.
type DictionaryComponent[T any] struct {
	Data    map[string]T `json:"data,omitempty"`
	Privacy int          `json:"privacy"`
}

// ItemComponentSet holds per-item component sections keyed by instance id.
type ItemComponentSet struct {
	Instances DictionaryComponent[ItemInstanceComponent] `json:"instances"`
	Stats     DictionaryComponent[ItemStatsComponent]    `json:"stats"`
	Sockets   DictionaryComponent[ItemSocketsComponent]  `json:"sockets"`
}

// ProfileResponse is returned by GetProfile.
type ProfileResponse struct {
	ResponseMintedTimestamp time.Time                               `json:"responseMintedTimestamp"`
	Profile                 SingleComponent[ProfileComponent]       `json:"profile"`
	ProfileInventory        SingleComponent[InventoryComponent]     `json:"profileInventory"`
	Characters              DictionaryComponent[CharacterComponent] `json:"characters"`
	CharacterInventories    DictionaryComponent[InventoryComponent] `json:"characterInventories"`
	CharacterEquipment      DictionaryComponent[InventoryComponent] `json:"characterEquipment"`
	ItemComponents          ItemComponentSet                        `json:"itemComponents"`
}

// CharacterResponse is returned by GetCharacterInfo.
type CharacterResponse struct {
	Character      SingleComponent[CharacterComponent] `json:"character"`
	Inventory      SingleComponent[InventoryComponent] `json:"inventory"`
	Equipment      SingleComponent[InventoryComponent] `json:"equipment"`
	ItemComponents ItemComponentSet                    `json:"itemComponents"`
}

// ItemResponse is returned by GetItem.
type ItemResponse struct {
	CharacterID int64                                  `json:"characterId,string,omitempty"`
	Item        SingleComponent[ItemComponent]         `json:"item"`
	Instance    SingleComponent[ItemInstanceComponent] `json:"instance"`
	Stats       SingleComponent[ItemStatsComponent]    `json:"stats"`
	Sockets     SingleComponent[ItemSocketsComponent]  `json:"sockets"`
}

// EquipItemResult is the outcome of equipping one item.
type EquipItemResult struct {
	ItemInstanceID int64 `json:"itemInstanceId,string"`
	EquipStatus    int   `json:"equipStatus"`
}

// UnmarshalJSON accepts itemInstanceId as either a quoted or a bare number.
func (r *EquipItemResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemInstanceID json.RawMessage `json:"itemInstanceId"`
		EquipStatus    int             `json:"equipStatus"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := parseInt64(raw.ItemInstanceID)
	if err != nil {
		return fmt.Errorf("itemInstanceId: %w", err)
	}
	r.ItemInstanceID = id
	r.EquipStatus = raw.EquipStatus
	return nil
}

// parseInt64 reads a JSON number or a string holding one. Absent or null
// values read as 0.
func parseInt64(data json.RawMessage) (int64, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

// EquipItemResults is returned by EquipItems, one entry per requested item.
type EquipItemResults struct {
	EquipResults []EquipItemResult `json:"equipResults"`
}
