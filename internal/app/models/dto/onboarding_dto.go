package dto

import (
	"encoding/base64"

	"github.com/yigit/schoolconnector/internal/app/models"
)

// PDFLogoRequest places a base64 png/jpg logo on the onboarding PDF
type PDFLogoRequest struct {
	Bytes     string  `json:"bytes,omitempty" binding:"omitempty,base64"`
	X         float64 `json:"x,omitempty" binding:"min=0"`
	Y         float64 `json:"y,omitempty" binding:"min=0"`
	MaxWidth  float64 `json:"maxWidth,omitempty" binding:"min=0"`
	MaxHeight float64 `json:"maxHeight,omitempty" binding:"min=0"`
}

// OnboardingPDFRequest customises the onboarding PDF of one student
type OnboardingPDFRequest struct {
	Logo   *PDFLogoRequest   `json:"logo,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// BatchOnboardingPDFRequest customises the onboarding PDFs of many students.
// An empty student list selects every student.
type BatchOnboardingPDFRequest struct {
	OnboardingPDFRequest
	Students []string `json:"students,omitempty" binding:"omitempty,dive,min=1"`
}

// ToSettings decodes the request into PDF settings
func (r *OnboardingPDFRequest) ToSettings() (models.PDFSettings, error) {
	settings := models.PDFSettings{Fields: r.Fields}
	if r.Logo == nil || r.Logo.Bytes == "" {
		return settings, nil
	}

	raw, err := base64.StdEncoding.DecodeString(r.Logo.Bytes)
	if err != nil {
		return settings, err
	}
	settings.Logo = &models.PDFLogo{
		Bytes:     raw,
		X:         r.Logo.X,
		Y:         r.Logo.Y,
		MaxWidth:  r.Logo.MaxWidth,
		MaxHeight: r.Logo.MaxHeight,
	}
	return settings, nil
}

// OnboardingResponse is the JSON form of a student's onboarding material
type OnboardingResponse struct {
	Link string `json:"link" example:"https://example.org/r/RLTxxx"`
	PDF  string `json:"pdf"` // base64
	PNG  string `json:"png"` // base64
}

// BatchOnboardingPDFItem is one student's PDF in a batch response
type BatchOnboardingPDFItem struct {
	ID    string `json:"id"`
	PDF   string `json:"pdf,omitempty"` // base64
	Error string `json:"error,omitempty"`
}
