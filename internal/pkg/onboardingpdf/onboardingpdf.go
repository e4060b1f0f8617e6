// Package onboardingpdf renders the printable onboarding letter handed to a
// student: school name, student name, the onboarding QR code and optional
// app store codes, logo and free text fields.
package onboardingpdf

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/yigit/schoolconnector/internal/pkg/filetype"
)

var (
	// ErrNotEncodable is returned when text cannot be written with the PDF core fonts.
	ErrNotEncodable = errors.New("text is not encodable in the PDF font encoding")
	// ErrInvalidLogo is returned when the logo is neither png nor jpg.
	ErrInvalidLogo = errors.New("logo must be a png or jpg image")
)

// Well-known text fields with a fixed position on the page.
const (
	FieldSalutation = "salutation"
	FieldGreeting   = "greeting"
	FieldPlaceDate  = "place_date"
)

const (
	fontFamily      = "Helvetica"
	pageMargin      = 20.0
	contentWidth    = 170.0
	studentQRSize   = 70.0
	storeQRSize     = 35.0
	defaultLogoMaxW = 50.0
	defaultLogoMaxH = 25.0
	defaultLogoX    = pageMargin
	defaultLogoY    = 12.0
)

// Logo places an image on the page. Zero values fall back to defaults.
type Logo struct {
	Bytes     []byte
	X         float64
	Y         float64
	MaxWidth  float64
	MaxHeight float64
}

// Data is everything printed on the letter.
type Data struct {
	SchoolName  string
	GivenName   string
	Surname     string
	Link        string
	StudentQR   []byte
	PlayStoreQR []byte
	AppStoreQR  []byte
	Logo        *Logo
	Fields      map[string]string
}

type encoder struct {
	enc *charmap.Charmap
	err error
}

func (e *encoder) text(s string) string {
	if e.err != nil {
		return ""
	}
	out, err := e.enc.NewEncoder().String(s)
	if err != nil {
		e.err = fmt.Errorf("%w: %q", ErrNotEncodable, s)
		return ""
	}
	return out
}

// Render produces the PDF bytes.
func Render(d Data) ([]byte, error) {
	enc := &encoder{enc: charmap.Windows1252}

	school := enc.text(d.SchoolName)
	name := enc.text(d.GivenName + " " + d.Surname)
	link := enc.text(d.Link)
	salutation := enc.text(d.Fields[FieldSalutation])
	greeting := enc.text(d.Fields[FieldGreeting])
	placeDate := enc.text(d.Fields[FieldPlaceDate])

	var extraKeys []string
	for k := range d.Fields {
		switch k {
		case FieldSalutation, FieldGreeting, FieldPlaceDate:
		default:
			extraKeys = append(extraKeys, k)
		}
	}
	sort.Strings(extraKeys)
	extras := make([]string, 0, len(extraKeys))
	for _, k := range extraKeys {
		extras = append(extras, enc.text(d.Fields[k]))
	}

	if enc.err != nil {
		return nil, enc.err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(school, false)
	pdf.AddPage()

	top := 35.0
	if d.Logo != nil && len(d.Logo.Bytes) > 0 {
		bottom, err := placeLogo(pdf, d.Logo)
		if err != nil {
			return nil, err
		}
		top = math.Max(top, bottom+8)
	}

	pdf.SetXY(pageMargin, top)
	pdf.SetFont(fontFamily, "B", 18)
	pdf.MultiCell(contentWidth, 9, school, "", "L", false)

	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 12)
	if salutation != "" {
		pdf.MultiCell(contentWidth, 6, salutation, "", "L", false)
		pdf.Ln(2)
	}
	pdf.SetFont(fontFamily, "B", 14)
	pdf.MultiCell(contentWidth, 7, name, "", "L", false)

	pdf.Ln(3)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(contentWidth, 5.5, enc.text("Scan the code below with the app to connect with "+d.SchoolName+"."), "", "L", false)
	for _, line := range extras {
		pdf.MultiCell(contentWidth, 5.5, line, "", "L", false)
	}

	y := pdf.GetY() + 6
	registerPNG(pdf, "student-qr", d.StudentQR)
	pdf.ImageOptions("student-qr", (210-studentQRSize)/2, y, studentQRSize, studentQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	y += studentQRSize + 2

	pdf.SetXY(pageMargin, y)
	pdf.SetFont(fontFamily, "", 8)
	pdf.MultiCell(contentWidth, 4, link, "", "C", false)

	if len(d.PlayStoreQR) > 0 || len(d.AppStoreQR) > 0 {
		y = pdf.GetY() + 8
		pdf.SetXY(pageMargin, y)
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(contentWidth, 5, "Get the app", "", 1, "C", false, 0, "")
		y += 7
		if len(d.PlayStoreQR) > 0 {
			placeStoreQR(pdf, "play-store-qr", d.PlayStoreQR, 50, y, "Google Play")
		}
		if len(d.AppStoreQR) > 0 {
			placeStoreQR(pdf, "app-store-qr", d.AppStoreQR, 125, y, "App Store")
		}
		pdf.SetY(y + storeQRSize + 8)
	}

	if greeting != "" {
		pdf.Ln(4)
		pdf.SetFont(fontFamily, "", 11)
		pdf.MultiCell(contentWidth, 5.5, greeting, "", "L", false)
	}
	if placeDate != "" {
		pdf.SetXY(pageMargin, 270)
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(contentWidth, 5, placeDate, "", 0, "L", false, 0, "")
	}

	if enc.err != nil {
		return nil, enc.err
	}
	if pdf.Err() {
		return nil, fmt.Errorf("render onboarding pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write onboarding pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func registerPNG(pdf *fpdf.Fpdf, name string, png []byte) *fpdf.ImageInfoType {
	return pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
}

func placeStoreQR(pdf *fpdf.Fpdf, name string, png []byte, x, y float64, label string) {
	registerPNG(pdf, name, png)
	pdf.ImageOptions(name, x, y, storeQRSize, storeQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetXY(x, y+storeQRSize)
	pdf.SetFont(fontFamily, "", 8)
	pdf.CellFormat(storeQRSize, 4, label, "", 0, "C", false, 0, "")
}

// placeLogo draws the logo scaled into its bounding box and returns its bottom edge.
func placeLogo(pdf *fpdf.Fpdf, logo *Logo) (float64, error) {
	var imageType string
	switch filetype.Detect(logo.Bytes) {
	case filetype.PNG:
		imageType = "PNG"
	case filetype.JPG:
		imageType = "JPG"
	default:
		return 0, ErrInvalidLogo
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Bytes))
	if pdf.Err() || info == nil {
		pdf.ClearError()
		return 0, ErrInvalidLogo
	}

	maxW, maxH := logo.MaxWidth, logo.MaxHeight
	if maxW <= 0 {
		maxW = defaultLogoMaxW
	}
	if maxH <= 0 {
		maxH = defaultLogoMaxH
	}
	x, y := logo.X, logo.Y
	if x <= 0 {
		x = defaultLogoX
	}
	if y <= 0 {
		y = defaultLogoY
	}

	w, h := info.Width(), info.Height()
	if w <= 0 || h <= 0 {
		return 0, ErrInvalidLogo
	}
	scale := math.Min(maxW/w, maxH/h)
	w, h = w*scale, h*scale

	pdf.ImageOptions("logo", x, y, w, h, false, opts, 0, "")
	return y + h, nil
}
