package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
)

func setupExportService() (*ExportService, *StudentService, *store.StudentStore) {
	recordStore := store.New(store.Config{})
	students := NewStudentService(recordStore, nil)
	cards := NewCardService(recordStore, nil, "University of Sahiwal", "Student Identity Card", "http://localhost:8080")
	return NewExportService(recordStore, cards), students, recordStore
}

func TestExportTemplateCSVIsSingleHeaderLine(t *testing.T) {
	exports, students, _ := setupExportService()

	// Template contents never depend on store state
	students.CreateStudent(context.Background(), testStudentData("UOS-1", "Ahmed"))

	name, data := exports.ExportTemplateCSV()
	if name != "student_template.csv" {
		t.Errorf("unexpected file name %s", name)
	}

	content := strings.TrimRight(string(data), "\n")
	lines := strings.Split(content, "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(lines))
	}

	columns := strings.Split(lines[0], ",")
	if len(columns) != 8 {
		t.Fatalf("expected 8 columns, got %d: %v", len(columns), columns)
	}
	if columns[0] != "Roll Number" || columns[7] != "Address" {
		t.Errorf("unexpected column set: %v", columns)
	}
}

func TestExportStudentsCSVQuotesEveryField(t *testing.T) {
	exports, students, _ := setupExportService()

	data := testStudentData("UOS-1", "Ahmed Hassan")
	data.Address = `House "B-7", 123 University Road`
	if _, err := students.CreateStudent(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, out := exports.ExportStudentsCSV()
	if name != "students_export.csv" {
		t.Errorf("unexpected file name %s", name)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}

	if !strings.HasPrefix(lines[1], `"UOS-1","Ahmed Hassan"`) {
		t.Errorf("expected quoted fields, got %s", lines[1])
	}
	if !strings.Contains(lines[1], `"House ""B-7"", 123 University Road"`) {
		t.Errorf("expected embedded quotes doubled, got %s", lines[1])
	}
}

func TestExportImageProducesPrintDensityPNG(t *testing.T) {
	exports, students, _ := setupExportService()

	st, err := students.CreateStudent(context.Background(), testStudentData("UOS-2024-CS-001", "Ahmed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, data, err := exports.ExportImage(st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "UOS-2024-CS-001_card.png" {
		t.Errorf("unexpected file name %s", name)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}

	bounds := img.Bounds()
	wantW := dto.PreviewWidthPx * dto.ExportPixelRatio
	wantH := dto.PreviewHeightPx * dto.ExportPixelRatio
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		t.Errorf("expected %dx%d, got %dx%d", wantW, wantH, bounds.Dx(), bounds.Dy())
	}
}

func TestExportImageUnknownIDReturnsNotFound(t *testing.T) {
	exports, _, _ := setupExportService()

	_, _, err := exports.ExportImage("no-such-id")
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestExportDocumentIsPDF(t *testing.T) {
	exports, students, _ := setupExportService()

	st, _ := students.CreateStudent(context.Background(), testStudentData("UOS-1", "Ahmed"))

	name, data, err := exports.ExportDocument(st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "UOS-1_card.pdf" {
		t.Errorf("unexpected file name %s", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("expected PDF magic, got %q", data[:min(8, len(data))])
	}
}

func TestExportBatchUsesSelection(t *testing.T) {
	exports, students, recordStore := setupExportService()
	ctx := context.Background()

	a, _ := students.CreateStudent(ctx, testStudentData("UOS-1", "Ahmed"))
	students.CreateStudent(ctx, testStudentData("UOS-2", "Fatima"))
	recordStore.ToggleSelect(a.ID)

	name, data, err := exports.ExportBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "cards_export.zip" {
		t.Errorf("unexpected file name %s", name)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if len(names) != 2 {
		t.Fatalf("expected PNG and PDF for one record, got %v", names)
	}
	for _, want := range []string{"UOS-1_card.png", "UOS-1_card.pdf"} {
		found := false
		for _, got := range names {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s in archive, got %v", want, names)
		}
	}
}

func TestExportBatchFallsBackToAllRecords(t *testing.T) {
	exports, students, _ := setupExportService()
	ctx := context.Background()

	students.CreateStudent(ctx, testStudentData("UOS-1", "Ahmed"))
	students.CreateStudent(ctx, testStudentData("UOS-2", "Fatima"))

	_, data, err := exports.ExportBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	if len(zr.File) != 4 {
		t.Errorf("expected 4 entries for 2 records, got %d", len(zr.File))
	}
}

func TestExportBatchEmptyStoreFails(t *testing.T) {
	exports, _, _ := setupExportService()

	_, _, err := exports.ExportBatch()
	if !errors.Is(err, apperrors.ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport, got %v", err)
	}
}
