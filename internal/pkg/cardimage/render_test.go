package cardimage

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/hamza/campuscard/internal/app/models/dto"
)

func frontLayout() *dto.CardLayout {
	return &dto.CardLayout{
		StudentID: "test-id",
		Side:      dto.CardSideFront,
		WidthMM:   dto.CardWidthMM,
		HeightMM:  dto.CardHeightMM,
		Front: &dto.CardFront{
			InstitutionName: "University of Sahiwal",
			Tagline:         "Student Identity Card",
			Name:            "Ahmed Hassan",
			RollNo:          "UOS-2024-CS-001",
			Program:         "BS Computer Science",
			BloodGroup:      "A+",
			PhotoInitial:    "A",
			ValidFrom:       "2024-09-01",
			ValidUntil:      "2028-08-31",
			QRPayload:       "http://localhost:8080/verify/test-id",
		},
	}
}

func backLayout() *dto.CardLayout {
	bars := make([]int, 40)
	for i := range bars {
		bars[i] = 8 + i%17
	}
	return &dto.CardLayout{
		StudentID: "test-id",
		Side:      dto.CardSideBack,
		WidthMM:   dto.CardWidthMM,
		HeightMM:  dto.CardHeightMM,
		Back: &dto.CardBack{
			InstitutionName:  "University of Sahiwal",
			FatherName:       "Muhammad Hassan",
			Department:       "Computer Science",
			Session:          "2024-2028",
			Contact:          "03001234567",
			Address:          "123 University Road, Sahiwal",
			EmergencyContact: "03009876543",
			BarcodeBars:      bars,
		},
	}
}

func TestRenderPreviewDimensions(t *testing.T) {
	img, err := Render(frontLayout(), 1)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != dto.PreviewWidthPx || bounds.Dy() != dto.PreviewHeightPx {
		t.Errorf("expected %dx%d, got %dx%d",
			dto.PreviewWidthPx, dto.PreviewHeightPx, bounds.Dx(), bounds.Dy())
	}
}

func TestRenderExportDimensions(t *testing.T) {
	img, err := Render(frontLayout(), dto.ExportPixelRatio)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	bounds := img.Bounds()
	wantW := dto.PreviewWidthPx * dto.ExportPixelRatio
	wantH := dto.PreviewHeightPx * dto.ExportPixelRatio
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		t.Errorf("expected %dx%d, got %dx%d", wantW, wantH, bounds.Dx(), bounds.Dy())
	}
}

func TestRenderAspectRatioMatchesPhysicalCard(t *testing.T) {
	img, err := Render(frontLayout(), 1)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	bounds := img.Bounds()
	rendered := float64(bounds.Dx()) / float64(bounds.Dy())
	physical := dto.CardWidthMM / dto.CardHeightMM

	if math.Abs(rendered-physical) > 0.01 {
		t.Errorf("aspect ratio %f deviates from physical %f", rendered, physical)
	}
}

func TestRenderBackSide(t *testing.T) {
	img, err := Render(backLayout(), 1)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if img.Bounds().Dx() != dto.PreviewWidthPx {
		t.Errorf("unexpected width %d", img.Bounds().Dx())
	}
}

func TestRenderPNGDecodes(t *testing.T) {
	data, err := RenderPNG(frontLayout(), 1)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not a decodable PNG: %v", err)
	}
}

func TestRenderRejectsMismatchedSide(t *testing.T) {
	layout := frontLayout()
	layout.Side = dto.CardSideBack

	if _, err := Render(layout, 1); err == nil {
		t.Error("expected error for front-only layout rendered as back")
	}
}

func TestRenderNilLayoutFails(t *testing.T) {
	if _, err := Render(nil, 1); err == nil {
		t.Error("expected error for nil layout")
	}
}
