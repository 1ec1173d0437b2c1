package d2

import (
	"fmt"
	"strconv"
	"strings"
)

// MembershipType identifies the platform network that scopes a player account.
type MembershipType int

const (
	MembershipAll        MembershipType = -1
	MembershipNone       MembershipType = 0
	MembershipXbox       MembershipType = 1
	MembershipPSN        MembershipType = 2
	MembershipSteam      MembershipType = 3
	MembershipBlizzard   MembershipType = 4
	MembershipStadia     MembershipType = 5
	MembershipEpicGames  MembershipType = 6
	MembershipDemon      MembershipType = 10
	MembershipBungieNext MembershipType = 254
)

var membershipNames = map[MembershipType]string{
	MembershipAll:        "All",
	MembershipNone:       "None",
	MembershipXbox:       "Xbox",
	MembershipPSN:        "PSN",
	MembershipSteam:      "Steam",
	MembershipBlizzard:   "Blizzard",
	MembershipStadia:     "Stadia",
	MembershipEpicGames:  "EpicGames",
	MembershipDemon:      "Demon",
	MembershipBungieNext: "BungieNext",
}

func (t MembershipType) String() string {
	if name, ok := membershipNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// ParseMembershipType accepts a numeric code or a case-insensitive name.
func ParseMembershipType(s string) (MembershipType, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return MembershipType(n), nil
	}
	for t, name := range membershipNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return MembershipNone, fmt.Errorf("unknown membership type: %q", s)
}
