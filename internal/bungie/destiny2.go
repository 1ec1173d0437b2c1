package bungie

import (
	"context"
	"fmt"
	"net/http"

	"destiny2-go/internal/d2"
)

type equipItemRequest struct {
	ItemID         int64             `json:"itemId"`
	CharacterID    int64             `json:"characterId"`
	MembershipType d2.MembershipType `json:"membershipType"`
}

type equipItemsRequest struct {
	ItemIDs        []int64           `json:"itemIds"`
	CharacterID    int64             `json:"characterId"`
	MembershipType d2.MembershipType `json:"membershipType"`
}

// componentsQuery renders the components parameter. An empty selection
// falls back to the Profiles component.
func componentsQuery(components []d2.ComponentType) queryParam {
	if len(components) == 0 {
		components = []d2.ComponentType{d2.ComponentProfiles}
	}
	return queryParam{name: "components", value: d2.JoinComponents(components)}
}

// GetManifest returns the location of the current content database.
// It requires no access token.
func (c *Client) GetManifest(ctx context.Context) (*d2.Manifest, error) {
	m, err := call[d2.Manifest](ctx, c, http.MethodGet, "", "Destiny2/Manifest", nil)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetLinkedProfiles returns the Destiny profiles linked to a membership.
func (c *Client) GetLinkedProfiles(ctx context.Context, accessToken string, membershipID int64, membershipType d2.MembershipType) (*d2.LinkedProfilesResponse, error) {
	method := fmt.Sprintf("Destiny2/%d/Profile/%d/LinkedProfiles", membershipType, membershipID)
	resp, err := call[d2.LinkedProfilesResponse](ctx, c, http.MethodGet, accessToken, method, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile returns the requested components of a profile. With no
// components only the Profiles component is requested.
func (c *Client) GetProfile(ctx context.Context, accessToken string, membershipType d2.MembershipType, id int64, components ...d2.ComponentType) (*d2.ProfileResponse, error) {
	method := fmt.Sprintf("Destiny2/%d/Profile/%d", membershipType, id)
	resp, err := call[d2.ProfileResponse](ctx, c, http.MethodGet, accessToken, method, nil, componentsQuery(components))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCharacterInfo returns the requested components of one character.
func (c *Client) GetCharacterInfo(ctx context.Context, accessToken string, membershipType d2.MembershipType, id, characterID int64, components ...d2.ComponentType) (*d2.CharacterResponse, error) {
	method := fmt.Sprintf("Destiny2/%d/Profile/%d/Character/%d/", membershipType, id, characterID)
	resp, err := call[d2.CharacterResponse](ctx, c, http.MethodGet, accessToken, method, nil, componentsQuery(components))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetItem returns the requested components of one item instance.
func (c *Client) GetItem(ctx context.Context, accessToken string, membershipType d2.MembershipType, id, itemInstanceID int64, components ...d2.ComponentType) (*d2.ItemResponse, error) {
	method := fmt.Sprintf("Destiny2/%d/Profile/%d/Item/%d/", membershipType, id, itemInstanceID)
	resp, err := call[d2.ItemResponse](ctx, c, http.MethodGet, accessToken, method, nil, componentsQuery(components))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// EquipItem equips one item on a character and returns the platform status.
func (c *Client) EquipItem(ctx context.Context, accessToken string, membershipType d2.MembershipType, characterID, itemInstanceID int64) (int, error) {
	body := equipItemRequest{
		ItemID:         itemInstanceID,
		CharacterID:    characterID,
		MembershipType: membershipType,
	}
	return call[int](ctx, c, http.MethodPost, accessToken, "Destiny2/Actions/Items/EquipItem", body)
}

// EquipItems equips several items on a character in one call. The results
// hold one entry per requested item.
func (c *Client) EquipItems(ctx context.Context, accessToken string, membershipType d2.MembershipType, characterID int64, itemInstanceIDs []int64) ([]d2.EquipItemResult, error) {
	body := equipItemsRequest{
		ItemIDs:        itemInstanceIDs,
		CharacterID:    characterID,
		MembershipType: membershipType,
	}
	resp, err := call[d2.EquipItemResults](ctx, c, http.MethodPost, accessToken, "Destiny2/Actions/Items/EquipItems", body)
	if err != nil {
		return nil, err
	}
	return resp.EquipResults, nil
}
