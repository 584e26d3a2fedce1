package dto

// Card side selectors
const (
	CardSideFront = "front"
	CardSideBack  = "back"
)

// ID-1 physical card format (ISO/IEC 7810): 85.6mm x 53.98mm.
// On-screen preview is 340x214 px (roughly 4x); raster export
// multiplies the preview by ExportPixelRatio for print density.
const (
	CardWidthMM  = 85.6
	CardHeightMM = 53.98

	PreviewWidthPx  = 340
	PreviewHeightPx = 214

	ExportPixelRatio = 3
)

// CardLayout is the structured visual arrangement of one card side,
// derived from a record prior to rasterization.
type CardLayout struct {
	StudentID string     `json:"studentId"`
	Side      string     `json:"side" enums:"front,back"`
	WidthMM   float64    `json:"widthMm"`
	HeightMM  float64    `json:"heightMm"`
	Front     *CardFront `json:"front,omitempty"`
	Back      *CardBack  `json:"back,omitempty"`
}

// CardFront holds the identity summary side
type CardFront struct {
	InstitutionName string `json:"institutionName"`
	Tagline         string `json:"tagline"`
	Name            string `json:"name"`
	RollNo          string `json:"rollNo"`
	Program         string `json:"program"`
	BloodGroup      string `json:"bloodGroup"`
	// PhotoPath is the stored photo location, empty when the
	// single-letter fallback glyph should be drawn instead.
	PhotoPath    string `json:"photoPath,omitempty"`
	PhotoInitial string `json:"photoInitial,omitempty"`
	ValidFrom    string `json:"validFrom"`
	ValidUntil   string `json:"validUntil"`
	// QRPayload is the verification URL encoded into the QR symbol.
	QRPayload string `json:"qrPayload"`
}

// CardBack holds the extended info side
type CardBack struct {
	InstitutionName  string `json:"institutionName"`
	FatherName       string `json:"fatherName"`
	Department       string `json:"department"`
	Session          string `json:"session"`
	Contact          string `json:"contact"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	// BarcodeBars are cosmetic bar heights in preview pixels. They
	// carry no data and are derived deterministically from the roll
	// number so repeated exports are identical.
	BarcodeBars []int `json:"barcodeBars"`
}
