package dto

// Import wizard steps, linear: upload -> mapping -> preview -> complete
const (
	ImportStepUpload   = "upload"
	ImportStepMapping  = "mapping"
	ImportStepPreview  = "preview"
	ImportStepComplete = "complete"
)

// FieldMapping reports how one fixed source column matched against the
// record field set. Matching is by exact header name.
type FieldMapping struct {
	Source  string `json:"source" example:"Roll Number"`
	Target  string `json:"target" example:"roll_no"`
	Matched bool   `json:"matched"`
}

// ImportRowPreview is one classified row of the uploaded file
type ImportRowPreview struct {
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	FatherName string `json:"father_name"`
	Department string `json:"department"`
	Program    string `json:"program"`
	Valid      bool   `json:"valid"`
}

// ImportCounts summarizes the preview classification. Errors is the
// count of parser-level failures, which abort the parse as a whole and
// therefore never reach the preview; it stays zero here.
type ImportCounts struct {
	Valid      int `json:"valid"`
	Incomplete int `json:"incomplete"`
	Errors     int `json:"errors"`
}

// ImportSessionResponse is the wizard state returned after every
// import operation.
type ImportSessionResponse struct {
	SessionID string             `json:"sessionId"`
	Step      string             `json:"step" enums:"upload,mapping,preview,complete"`
	FileName  string             `json:"fileName,omitempty"`
	FileSize  int64              `json:"fileSize,omitempty"`
	Mappings  []FieldMapping     `json:"mappings,omitempty"`
	Rows      []ImportRowPreview `json:"rows,omitempty"`
	Counts    *ImportCounts      `json:"counts,omitempty"`
	// Imported is the number of records created, set once the
	// session reaches the complete step.
	Imported int `json:"imported,omitempty"`
}
