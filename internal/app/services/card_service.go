package services

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/url"
	"os"
	"strings"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
	"github.com/hamza/campuscard/internal/pkg/filestorage"
)

const barcodeBarCount = 40

// CardService derives printable card layouts from student records
type CardService struct {
	store           *store.StudentStore
	storage         filestorage.FileStorage
	institutionName string
	tagline         string
	baseURL         string
}

// NewCardService creates a new card service instance
func NewCardService(recordStore *store.StudentStore, storage filestorage.FileStorage, institutionName, tagline, baseURL string) *CardService {
	return &CardService{
		store:           recordStore,
		storage:         storage,
		institutionName: institutionName,
		tagline:         tagline,
		baseURL:         strings.TrimRight(baseURL, "/"),
	}
}

// VerifyURL builds the public verification link for a record id
func (s *CardService) VerifyURL(id string) string {
	return s.baseURL + "/verify/" + id
}

// RenderLayout is a pure function of (record, side). Missing optional
// fields render as empty values, never as an error.
func (s *CardService) RenderLayout(student *models.Student, side string) (*dto.CardLayout, error) {
	layout := &dto.CardLayout{
		StudentID: student.ID,
		Side:      side,
		WidthMM:   dto.CardWidthMM,
		HeightMM:  dto.CardHeightMM,
	}

	switch side {
	case dto.CardSideFront:
		front := &dto.CardFront{
			InstitutionName: s.institutionName,
			Tagline:         s.tagline,
			Name:            student.Name,
			RollNo:          student.RollNo,
			Program:         student.Program,
			BloodGroup:      string(student.BloodGroup),
			ValidFrom:       student.ValidFrom,
			ValidUntil:      student.ValidUntil,
			QRPayload:       s.VerifyURL(student.ID),
		}
		if path := s.photoPath(student); path != "" {
			front.PhotoPath = path
		} else if student.Name != "" {
			front.PhotoInitial = strings.ToUpper(string([]rune(student.Name)[0]))
		}
		layout.Front = front

	case dto.CardSideBack:
		layout.Back = &dto.CardBack{
			InstitutionName:  s.institutionName,
			FatherName:       student.FatherName,
			Department:       student.Department,
			Session:          student.Session,
			Contact:          student.Contact,
			Address:          student.Address,
			EmergencyContact: student.EmergencyContact,
			BarcodeBars:      barcodeBars(student.RollNo),
		}

	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown card side %q", side))
	}

	return layout, nil
}

// GetLayout resolves a record id and renders the requested side
func (s *CardService) GetLayout(id, side string) (*dto.CardLayout, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.RenderLayout(student, side)
}

// ShareLink builds the WhatsApp share URL for a record's card
func (s *CardService) ShareLink(id string) (*dto.ShareLinkResponse, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	verifyURL := s.VerifyURL(student.ID)
	message := fmt.Sprintf("Student ID Card - %s\nRoll No: %s\nVerify: %s",
		student.Name, student.RollNo, verifyURL)

	return &dto.ShareLinkResponse{
		VerifyURL: verifyURL,
		ShareURL:  "https://wa.me/?text=" + url.QueryEscape(message),
	}, nil
}

// photoPath maps the record's photo URL to a readable local file, or
// empty when the fallback glyph should be used.
func (s *CardService) photoPath(student *models.Student) string {
	if student.PhotoURL == "" || s.storage == nil {
		return ""
	}
	path := s.storage.GetFullPath(student.PhotoURL)
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// barcodeBars produces the cosmetic bar heights for the card back.
// The bars carry no data; heights are pseudo-random in 8..24 preview
// pixels, seeded from the roll number so exports are reproducible.
func barcodeBars(rollNo string) []int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(rollNo))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	bars := make([]int, barcodeBarCount)
	for i := range bars {
		bars[i] = 8 + rng.Intn(17)
	}
	return bars
}
