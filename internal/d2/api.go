package d2

import "context"

// API provides typed access to the remote Destiny 2 platform.
// Every call that takes an accessToken sends it as a bearer token when it is
// non-empty. Failures are returned as errors; the result is the zero value.
type API interface {
	// GetManifest returns the location of the current content database.
	GetManifest(ctx context.Context) (*Manifest, error)

	// GetLinkedProfiles returns the Destiny profiles linked to a membership.
	GetLinkedProfiles(ctx context.Context, accessToken string, membershipID int64, membershipType MembershipType) (*LinkedProfilesResponse, error)

	// GetProfile returns the requested components of a profile.
	// With no components, only the Profiles component is requested.
	GetProfile(ctx context.Context, accessToken string, membershipType MembershipType, id int64, components ...ComponentType) (*ProfileResponse, error)

	// GetCharacterInfo returns the requested components of one character.
	GetCharacterInfo(ctx context.Context, accessToken string, membershipType MembershipType, id, characterID int64, components ...ComponentType) (*CharacterResponse, error)

	// GetItem returns the requested components of one item instance.
	GetItem(ctx context.Context, accessToken string, membershipType MembershipType, id, itemInstanceID int64, components ...ComponentType) (*ItemResponse, error)

	// EquipItem equips a single item and returns the platform status code.
	EquipItem(ctx context.Context, accessToken string, membershipType MembershipType, characterID, itemInstanceID int64) (int, error)

	// EquipItems equips several items in one call, returning one result per item.
	EquipItems(ctx context.Context, accessToken string, membershipType MembershipType, characterID int64, itemInstanceIDs []int64) ([]EquipItemResult, error)

	// DownloadFile copies the resource at relativePath to destination.
	// On failure destination is left untouched.
	DownloadFile(ctx context.Context, relativePath, destination string) error

	// BaseURL returns the root the client resolves methods against.
	BaseURL() string
}
