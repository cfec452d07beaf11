package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PortfolioStatus is the review state of a submission. The zero value means
// no portfolio is on record.
type PortfolioStatus string

const (
	PortfolioNone     PortfolioStatus = ""
	PortfolioPending  PortfolioStatus = "pending"
	PortfolioApproved PortfolioStatus = "approved"
	PortfolioRejected PortfolioStatus = "rejected"
)

// ParsePortfolioStatus accepts the known states case-insensitively; anything
// else maps to PortfolioNone.
func ParsePortfolioStatus(s string) PortfolioStatus {
	switch PortfolioStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PortfolioPending:
		return PortfolioPending
	case PortfolioApproved:
		return PortfolioApproved
	case PortfolioRejected:
		return PortfolioRejected
	default:
		return PortfolioNone
	}
}

func (s PortfolioStatus) String() string {
	if s == PortfolioNone {
		return "none"
	}
	return string(s)
}

type PricingTier struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	TimeFrame string `json:"timeFrame"`
}

// DefaultPricingTiers returns the Basic/Standard/Premium tiers with empty values.
func DefaultPricingTiers() []PricingTier {
	return []PricingTier{{Name: "Basic"}, {Name: "Standard"}, {Name: "Premium"}}
}

// PortfolioForm is the freelancer portfolio submission.
type PortfolioForm struct {
	Name               string        `form:"name" validate:"notblank"`
	Email              string        `form:"email" validate:"notblank"`
	Profession         string        `form:"profession" validate:"notblank"`
	Headline           string        `form:"headline" validate:"notblank"`
	About              string        `form:"about" validate:"notblank"`
	WorkExperience     string        `form:"workExperience" validate:"notblank"`
	PortfolioLink      string        `form:"portfolioLink"`
	ServiceName        string        `form:"serviceName" validate:"notblank"`
	ServiceDescription string        `form:"serviceDescription" validate:"notblank"`
	Pricing            []PricingTier `form:"pricing"`
}

// ServicePayload is the service description sent with a portfolio and to add-service.
type ServicePayload struct {
	UserID      string        `json:"userId,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Pricing     []PricingTier `json:"pricing"`
}

// PortfolioSubmission is everything the multipart portfolio request carries.
type PortfolioSubmission struct {
	Form         PortfolioForm
	UserID       string
	UserName     string
	ProfileImage string
	Tags         []string
	Grid         []GridRow
}

func (s PortfolioSubmission) Service() ServicePayload {
	return ServicePayload{
		Name:        s.Form.ServiceName,
		Description: s.Form.ServiceDescription,
		Pricing:     s.Form.Pricing,
	}
}

// GridRow is one row of the media/price grid: fixed media slots plus a price.
// A nil slot is empty.
type GridRow struct {
	Media []*MediaFile `json:"images"`
	Price string       `json:"price"`
}

// Complete reports whether the row has at least one media file and a price.
func (r GridRow) Complete() bool {
	if strings.TrimSpace(r.Price) == "" {
		return false
	}
	for _, m := range r.Media {
		if m != nil {
			return true
		}
	}
	return false
}

// MediaFile is a file read into memory and encoded as a data URL.
type MediaFile struct {
	Name     string `json:"name"`
	MIME     string `json:"type"`
	Size     int64  `json:"size"`
	DataURL  string `json:"dataUrl"`
	Category string `json:"category"`
}

func (m MediaFile) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", m.Name, m.MIME, m.Size)
}

// Bytes decodes the file content from its base64 data URL.
func (m MediaFile) Bytes() ([]byte, error) {
	_, payload, ok := strings.Cut(m.DataURL, ";base64,")
	if !ok {
		return nil, fmt.Errorf("not a base64 data url")
	}
	return base64.StdEncoding.DecodeString(payload)
}
