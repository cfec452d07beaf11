package models

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		points int
		want   Badge
	}{
		{0, BadgeBronze},
		{99, BadgeBronze},
		{100, BadgeSilver},
		{249, BadgeSilver},
		{250, BadgeGold},
		{499, BadgeGold},
		{500, BadgePlatinum},
		{10000, BadgePlatinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeFor(tt.points), "points=%d", tt.points)
	}
}

func TestGenerateVoatID_Format(t *testing.T) {
	re := regexp.MustCompile(`^VOAT-[0-9A-F]{4}-[0-9A-F]{4}$`)
	a, b := GenerateVoatID(), GenerateVoatID()
	assert.Regexp(t, re, a)
	assert.Regexp(t, re, b)
	assert.NotEqual(t, a, b)
}

func TestMergeUser_ServerNullImageAndMissingVoatID(t *testing.T) {
	local := User{ID: "1", Name: "Jordan", VoatID: "V1", VoatPoints: 10, ProfileImage: strPtr("local.jpg")}

	var fetched UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","voatId":null,"profileImage":null,"voatPoints":20}`), &fetched))

	got := MergeUser(local, fetched)
	assert.Equal(t, "V1", got.VoatID)
	assert.Nil(t, got.ProfileImage)
	assert.Equal(t, 20, got.VoatPoints)
	assert.Equal(t, BadgeBronze, got.Badge)
	assert.Equal(t, "Jordan", got.Name)
}

func TestMergeUser_ServerFieldsOverride(t *testing.T) {
	local := User{ID: "1", Name: "Old", Email: "old@x.io", Phone: "123", VoatID: "V1", VoatPoints: 10}
	fetched := UserPatch{
		Name:         strPtr("New"),
		VoatID:       strPtr("V2"),
		VoatPoints:   intPtr(300),
		ProfileImage: strPtr("/uploads/p.png"),
	}

	got := MergeUser(local, fetched)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "old@x.io", got.Email)
	assert.Equal(t, "123", got.Phone)
	assert.Equal(t, "V2", got.VoatID)
	assert.Equal(t, 300, got.VoatPoints)
	assert.Equal(t, BadgeGold, got.Badge)
	require.NotNil(t, got.ProfileImage)
	assert.Equal(t, "/uploads/p.png", *got.ProfileImage)
}

func TestMergeUser_MissingPointsKeepLocal(t *testing.T) {
	local := User{ID: "1", VoatID: "V1", VoatPoints: 120}

	got := MergeUser(local, UserPatch{})
	assert.Equal(t, 120, got.VoatPoints)
	assert.Equal(t, BadgeSilver, got.Badge)
}

func TestMergeUser_DoesNotAliasFetchedImage(t *testing.T) {
	img := "a.png"
	got := MergeUser(User{}, UserPatch{ProfileImage: &img})
	img = "b.png"
	assert.Equal(t, "a.png", got.Image())
}

func TestUserPatch_AcceptsMongoIDAndNumericID(t *testing.T) {
	var p UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc","name":"A"}`), &p))
	require.NotNil(t, p.ID)
	assert.Equal(t, FlexString("abc"), *p.ID)

	var q UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"_id":"ignored"}`), &q))
	assert.Equal(t, FlexString("42"), *q.ID)
	assert.Equal(t, User{ID: "42", Badge: BadgeBronze}, q.ToUser())
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":12.5,"c":null}`), &v))
	assert.Equal(t, FlexString("x"), v.A)
	assert.Equal(t, FlexString("12.5"), v.B)
	assert.Equal(t, 12.5, v.B.Float())
	assert.Equal(t, FlexString(""), v.C)
	assert.Equal(t, 0.0, v.A.Float())

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestWithoutWishlistItem(t *testing.T) {
	items := []WishlistItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	assert.Equal(t, []WishlistItem{{ID: "1"}, {ID: "3"}}, WithoutWishlistItem(items, "2"))
	assert.Len(t, items, 3)
	assert.Equal(t, items, WithoutWishlistItem(items, "nope"))
}

func TestCompareWishlists(t *testing.T) {
	d := CompareWishlists(
		[]WishlistItem{{ID: "1"}, {ID: "2"}},
		[]WishlistItem{{ID: "2"}, {ID: "3"}},
	)
	assert.False(t, d.Consistent())
	assert.Equal(t, []string{"1"}, d.OnlyServer)
	assert.Equal(t, []string{"3"}, d.OnlyLocal)

	assert.True(t, CompareWishlists([]WishlistItem{{ID: "1"}}, []WishlistItem{{ID: "1"}}).Consistent())
}

func TestFilterBookings(t *testing.T) {
	bs := []Booking{{ID: "1", Status: BookingPending}, {ID: "2", Status: BookingAccepted}, {ID: "3", Status: BookingPending}}
	assert.Len(t, FilterBookings(bs, "all"), 3)
	assert.Len(t, FilterBookings(bs, ""), 3)
	assert.Equal(t, []Booking{{ID: "2", Status: BookingAccepted}}, FilterBookings(bs, "accepted"))
	assert.Empty(t, FilterBookings(bs, "rejected"))
}

func TestParsePortfolioStatus(t *testing.T) {
	assert.Equal(t, PortfolioPending, ParsePortfolioStatus("Pending"))
	assert.Equal(t, PortfolioApproved, ParsePortfolioStatus("approved"))
	assert.Equal(t, PortfolioRejected, ParsePortfolioStatus(" rejected "))
	assert.Equal(t, PortfolioNone, ParsePortfolioStatus("unknown"))
	assert.Equal(t, "none", PortfolioNone.String())
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "U", Initials(""))
	assert.Equal(t, "U", Initials("   "))
	assert.Equal(t, "JO", Initials("jordan"))
	assert.Equal(t, "J", Initials("j"))
	assert.Equal(t, "JL", Initials("Jordan lee Smith"))
	assert.Equal(t, "ÅB", Initials("åsa björk"))
}

func TestResolveImageURL(t *testing.T) {
	assert.Equal(t, "", ResolveImageURL("http://api", ""))
	assert.Equal(t, "https://cdn/x.png", ResolveImageURL("http://api", "https://cdn/x.png"))
	assert.Equal(t, "data:image/png;base64,AA", ResolveImageURL("http://api", "data:image/png;base64,AA"))
	assert.Equal(t, "http://api/uploads/x.png", ResolveImageURL("http://api/", "/uploads/x.png"))
	assert.Equal(t, "http://api/uploads/x.png", ResolveImageURL("http://api", "uploads/x.png"))
}

func TestGridRowComplete(t *testing.T) {
	assert.False(t, GridRow{Media: make([]*MediaFile, 5), Price: "1"}.Complete())
	assert.False(t, GridRow{Media: []*MediaFile{{}}, Price: ""}.Complete())
	assert.True(t, GridRow{Media: []*MediaFile{nil, {}}, Price: "1"}.Complete())
}

func TestProjectImageSlots(t *testing.T) {
	assert.Equal(t, 4, Project{}.ImageSlots())
	assert.Equal(t, 0, Project{Images: make([]*MediaFile, 5)}.ImageSlots())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: ErrorMap{"b": "second", "a": "first"}}
	assert.Equal(t, "validation failed: a: first; b: second", err.Error())
}
