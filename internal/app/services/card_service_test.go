package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
)

func setupCardService() (*CardService, *StudentService, *store.StudentStore) {
	recordStore := store.New(store.Config{})
	students := NewStudentService(recordStore, nil)
	cards := NewCardService(recordStore, nil, "University of Sahiwal", "Student Identity Card", "http://localhost:8080")
	return cards, students, recordStore
}

func TestFrontLayoutCarriesRecordFields(t *testing.T) {
	cards, students, _ := setupCardService()

	st, err := students.CreateStudent(context.Background(), testStudentData("UOS-2024-CS-001", "Ahmed Hassan"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layout, err := cards.GetLayout(st.ID, dto.CardSideFront)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if layout.Side != dto.CardSideFront || layout.Front == nil || layout.Back != nil {
		t.Fatalf("expected front-only layout, got %+v", layout)
	}
	if layout.WidthMM != dto.CardWidthMM || layout.HeightMM != dto.CardHeightMM {
		t.Errorf("unexpected card dimensions: %v x %v", layout.WidthMM, layout.HeightMM)
	}
	if layout.Front.Name != "Ahmed Hassan" || layout.Front.RollNo != "UOS-2024-CS-001" {
		t.Errorf("unexpected identity fields: %+v", layout.Front)
	}
	if layout.Front.InstitutionName != "University of Sahiwal" {
		t.Errorf("unexpected institution: %s", layout.Front.InstitutionName)
	}
}

func TestFrontLayoutQRPayloadIsVerifyURL(t *testing.T) {
	cards, students, _ := setupCardService()

	st, _ := students.CreateStudent(context.Background(), testStudentData("UOS-1", "Ahmed"))

	layout, err := cards.GetLayout(st.ID, dto.CardSideFront)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "http://localhost:8080/verify/" + st.ID
	if layout.Front.QRPayload != want {
		t.Errorf("expected QR payload %s, got %s", want, layout.Front.QRPayload)
	}
}

func TestFrontLayoutUsesInitialWhenNoPhoto(t *testing.T) {
	cards, students, _ := setupCardService()

	st, _ := students.CreateStudent(context.Background(), testStudentData("UOS-1", "ahmed"))

	layout, err := cards.GetLayout(st.ID, dto.CardSideFront)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if layout.Front.PhotoPath != "" {
		t.Errorf("expected no photo path, got %s", layout.Front.PhotoPath)
	}
	if layout.Front.PhotoInitial != "A" {
		t.Errorf("expected uppercase initial A, got %q", layout.Front.PhotoInitial)
	}
}

func TestBackLayoutBarcodeIsDeterministic(t *testing.T) {
	cards, students, _ := setupCardService()

	st, _ := students.CreateStudent(context.Background(), testStudentData("UOS-2024-CS-001", "Ahmed"))

	first, err := cards.GetLayout(st.ID, dto.CardSideBack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := cards.GetLayout(st.ID, dto.CardSideBack)

	bars := first.Back.BarcodeBars
	if len(bars) != barcodeBarCount {
		t.Fatalf("expected %d bars, got %d", barcodeBarCount, len(bars))
	}
	for i, h := range bars {
		if h < 8 || h > 24 {
			t.Errorf("bar %d height %d out of range 8..24", i, h)
		}
		if second.Back.BarcodeBars[i] != h {
			t.Errorf("bar %d not deterministic: %d vs %d", i, h, second.Back.BarcodeBars[i])
		}
	}
}

func TestBarcodeDiffersAcrossRollNumbers(t *testing.T) {
	a := barcodeBars("UOS-2024-CS-001")
	b := barcodeBars("UOS-2024-CS-002")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different roll numbers to yield different bar patterns")
	}
}

func TestGetLayoutRejectsUnknownSide(t *testing.T) {
	cards, students, _ := setupCardService()

	st, _ := students.CreateStudent(context.Background(), testStudentData("UOS-1", "Ahmed"))

	_, err := cards.GetLayout(st.ID, "sideways")
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestGetLayoutUnknownIDReturnsNotFound(t *testing.T) {
	cards, _, _ := setupCardService()

	_, err := cards.GetLayout("no-such-id", dto.CardSideFront)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestShareLinkWrapsVerifyURL(t *testing.T) {
	cards, students, _ := setupCardService()

	st, _ := students.CreateStudent(context.Background(), testStudentData("UOS-1", "Ahmed"))

	link, err := cards.ShareLink(st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(link.ShareURL, "https://wa.me/?text=") {
		t.Errorf("expected WhatsApp share URL, got %s", link.ShareURL)
	}
	if !strings.Contains(link.ShareURL, "UOS-1") {
		t.Errorf("expected roll number in share message, got %s", link.ShareURL)
	}
	if link.VerifyURL != "http://localhost:8080/verify/"+st.ID {
		t.Errorf("unexpected verify URL: %s", link.VerifyURL)
	}
}
