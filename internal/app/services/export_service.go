package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
	"github.com/hamza/campuscard/internal/pkg/cardimage"
)

// Student list export columns, in order
var studentCSVColumns = []string{
	"Roll No", "Name", "Father Name", "Department", "Program",
	"Session", "Blood Group", "Contact", "Address",
}

// ExportService turns rendered cards into downloadable artifacts
type ExportService struct {
	store *store.StudentStore
	cards *CardService
}

// NewExportService creates a new export service instance
func NewExportService(recordStore *store.StudentStore, cards *CardService) *ExportService {
	return &ExportService{
		store: recordStore,
		cards: cards,
	}
}

// ExportImage captures the front layout of one record as a PNG at
// print density (3x the preview resolution).
func (s *ExportService) ExportImage(id string) (string, []byte, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return "", nil, err
	}

	data, err := s.renderSidePNG(student, dto.CardSideFront)
	if err != nil {
		return "", nil, err
	}

	return student.RollNo + "_card.png", data, nil
}

// ExportDocument captures the front layout and embeds it into a
// single-page PDF sized exactly to the ID-1 card format, landscape,
// full bleed.
func (s *ExportService) ExportDocument(id string) (string, []byte, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return "", nil, err
	}

	doc, err := s.buildDocument(student)
	if err != nil {
		return "", nil, err
	}

	return student.RollNo + "_card.pdf", doc, nil
}

// ExportBatch renders front PNG and PDF for every selected record
// (every record when the selection is empty) into a single ZIP.
func (s *ExportService) ExportBatch() (string, []byte, error) {
	targets := s.batchTargets()
	if len(targets) == 0 {
		return "", nil, apperrors.ErrNothingToExport
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := map[string]int{}

	for _, student := range targets {
		base := uniqueName(used, student.RollNo)

		png, err := s.renderSidePNG(student, dto.CardSideFront)
		if err != nil {
			return "", nil, err
		}
		if err := addZipFile(zw, base+"_card.png", png); err != nil {
			return "", nil, err
		}

		doc, err := s.buildDocument(student)
		if err != nil {
			return "", nil, err
		}
		if err := addZipFile(zw, base+"_card.pdf", doc); err != nil {
			return "", nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return "cards_export.zip", buf.Bytes(), nil
}

// ExportStudentsCSV serializes the full record list. Every field is
// double-quoted, matching the admin download format.
func (s *ExportService) ExportStudentsCSV() (string, []byte) {
	var b strings.Builder
	b.WriteString(strings.Join(studentCSVColumns, ","))
	b.WriteByte('\n')

	for _, st := range s.store.List() {
		fields := []string{
			st.RollNo, st.Name, st.FatherName, st.Department, st.Program,
			st.Session, string(st.BloodGroup), st.Contact, st.Address,
		}
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = quoteCSV(f)
		}
		b.WriteString(strings.Join(quoted, ","))
		b.WriteByte('\n')
	}

	return "students_export.csv", []byte(b.String())
}

// ExportTemplateCSV emits the import template: exactly one header line
// with the 8 fixed column names, independent of store contents.
func (s *ExportService) ExportTemplateCSV() (string, []byte) {
	return "student_template.csv", []byte(strings.Join(importColumns, ",") + "\n")
}

// renderSidePNG renders one card side at export density. Failures here
// are terminal for the request and never retried.
func (s *ExportService) renderSidePNG(student *models.Student, side string) ([]byte, error) {
	layout, err := s.cards.RenderLayout(student, side)
	if err != nil {
		return nil, err
	}

	data, err := cardimage.RenderPNG(layout, dto.ExportPixelRatio)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrCaptureFailed, err.Error())
	}
	return data, nil
}

// buildDocument embeds the front raster into an 85.6mm x 53.98mm page
func (s *ExportService) buildDocument(student *models.Student) ([]byte, error) {
	png, err := s.renderSidePNG(student, dto.CardSideFront)
	if err != nil {
		return nil, err
	}

	// fpdf swaps the custom size for landscape orientation, so the
	// page comes out 85.6 wide by 53.98 high.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: dto.CardHeightMM, Ht: dto.CardWidthMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name := "card_" + student.ID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, 0, 0, dto.CardWidthMM, dto.CardHeightMM, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrCaptureFailed, err.Error())
	}
	return buf.Bytes(), nil
}

// batchTargets resolves the selection set to records, falling back to
// the whole list when nothing is selected.
func (s *ExportService) batchTargets() []*models.Student {
	selected := s.store.Selected()
	if len(selected) == 0 {
		return s.store.List()
	}

	targets := make([]*models.Student, 0, len(selected))
	for _, id := range selected {
		if st, err := s.store.GetByID(id); err == nil {
			targets = append(targets, st)
		}
	}
	return targets
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}
	return nil
}

// uniqueName disambiguates duplicate roll numbers inside one archive
func uniqueName(used map[string]int, rollNo string) string {
	used[rollNo]++
	if used[rollNo] == 1 {
		return rollNo
	}
	return fmt.Sprintf("%s_%d", rollNo, used[rollNo])
}

// quoteCSV double-quotes a field, escaping embedded quotes by doubling
func quoteCSV(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
