package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/voatnetwork/voat/internal/common"
)

type Role string

const (
	RoleFreelancer Role = "Freelancer"
	RoleClient     Role = "Client"
)

type Badge string

const (
	BadgeBronze   Badge = "bronze"
	BadgeSilver   Badge = "silver"
	BadgeGold     Badge = "gold"
	BadgePlatinum Badge = "platinum"
)

// BadgeFor derives the loyalty tier from a point balance.
func BadgeFor(points int) Badge {
	switch {
	case points >= 500:
		return BadgePlatinum
	case points >= 250:
		return BadgeGold
	case points >= 100:
		return BadgeSilver
	default:
		return BadgeBronze
	}
}

// User is the account record kept in the session store.
type User struct {
	ID           FlexString `json:"id,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role,omitempty"`
	Profession   string     `json:"profession,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Location     string     `json:"location,omitempty"`
	VoatID       string     `json:"voatId,omitempty"`
	VoatPoints   int        `json:"voatPoints"`
	Badge        Badge      `json:"badge,omitempty"`
	ProfileImage *string    `json:"profileImage"`
}

// Normalize recomputes the badge from the point balance.
func (u *User) Normalize() {
	u.Badge = BadgeFor(u.VoatPoints)
}

func (u User) HasID() bool { return u.ID != "" }

func (u User) Image() string {
	if u.ProfileImage == nil {
		return ""
	}
	return *u.ProfileImage
}

// UserPatch is a user as returned by the API. Nil fields were omitted
// (or null) in the payload.
type UserPatch struct {
	ID           *FlexString `json:"id,omitempty"`
	Name         *string     `json:"name,omitempty"`
	Email        *string     `json:"email,omitempty"`
	Role         *Role       `json:"role,omitempty"`
	Profession   *string     `json:"profession,omitempty"`
	Phone        *string     `json:"phone,omitempty"`
	Location     *string     `json:"location,omitempty"`
	VoatID       *string     `json:"voatId,omitempty"`
	VoatPoints   *int        `json:"voatPoints,omitempty"`
	Badge        *Badge      `json:"badge,omitempty"`
	ProfileImage *string     `json:"profileImage,omitempty"`
}

// UnmarshalJSON also accepts Mongo style "_id" when "id" is missing.
func (p *UserPatch) UnmarshalJSON(b []byte) error {
	type plain UserPatch
	var aux struct {
		plain
		MongoID *FlexString `json:"_id,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = UserPatch(aux.plain)
	if p.ID == nil && aux.MongoID != nil {
		p.ID = aux.MongoID
	}
	return nil
}

// ToUser converts a patch into a full record, zero-filling omitted fields.
func (p UserPatch) ToUser() User {
	return MergeUser(User{}, p)
}

// MergeUser overlays a fetched record on the local one.
//
// Fields the server omits keep their local value. VoatID and VoatPoints come
// from the server when present, else from local. ProfileImage always comes
// from the server, absence included. The badge is derived from the merged
// point balance.
func MergeUser(local User, fetched UserPatch) User {
	out := local
	if fetched.ID != nil && *fetched.ID != "" {
		out.ID = *fetched.ID
	}
	setString(&out.Name, fetched.Name)
	setString(&out.Email, fetched.Email)
	if fetched.Role != nil {
		out.Role = *fetched.Role
	}
	setString(&out.Profession, fetched.Profession)
	setString(&out.Phone, fetched.Phone)
	setString(&out.Location, fetched.Location)
	if fetched.VoatID != nil && *fetched.VoatID != "" {
		out.VoatID = *fetched.VoatID
	}
	if fetched.VoatPoints != nil {
		out.VoatPoints = *fetched.VoatPoints
	}
	out.ProfileImage = nil
	if fetched.ProfileImage != nil {
		img := *fetched.ProfileImage
		out.ProfileImage = &img
	}
	out.Normalize()
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// GenerateVoatID returns a marketplace identifier of the form VOAT-XXXX-XXXX.
func GenerateVoatID() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return common.VoatIDPrefix + "-" + hex[0:4] + "-" + hex[4:8]
}
