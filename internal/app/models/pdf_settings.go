package models

// PDFLogo places an image on the onboarding PDF.
type PDFLogo struct {
	Bytes     []byte
	X         float64
	Y         float64
	MaxWidth  float64
	MaxHeight float64
}

// PDFSettings customises the onboarding PDF. Fields are extra named text
// values rendered below the student data.
type PDFSettings struct {
	Logo   *PDFLogo
	Fields map[string]string
}
