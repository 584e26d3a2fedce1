package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
)

// Fixed source columns of the import template, matched by exact name
// against the uploaded header row.
var importColumns = []string{
	"Roll Number", "Student Name", "Father Name", "Department",
	"Program", "Blood Group", "Contact No", "Address",
}

// importTargets maps each source column to its record field
var importTargets = map[string]string{
	"Roll Number":  "roll_no",
	"Student Name": "name",
	"Father Name":  "father_name",
	"Department":   "department",
	"Program":      "program",
	"Blood Group":  "blood_group",
	"Contact No":   "contact",
	"Address":      "address",
}

// sessionTTL bounds how long an abandoned wizard session is kept
const sessionTTL = 30 * time.Minute

type importSession struct {
	id         string
	step       string
	fileName   string
	fileSize   int64
	fileData   []byte
	header     []string
	mappings   []dto.FieldMapping
	rows       []dto.ImportRowPreview
	payloads   []models.StudentData
	counts     dto.ImportCounts
	imported   int
	lastActive time.Time
}

func (s *importSession) response() *dto.ImportSessionResponse {
	resp := &dto.ImportSessionResponse{
		SessionID: s.id,
		Step:      s.step,
		FileName:  s.fileName,
		FileSize:  s.fileSize,
		Mappings:  s.mappings,
		Rows:      s.rows,
		Imported:  s.imported,
	}
	if s.step == dto.ImportStepPreview || s.step == dto.ImportStepComplete {
		counts := s.counts
		resp.Counts = &counts
	}
	return resp
}

// ImportService runs the four-step import wizard. Sessions live in
// memory and expire after thirty minutes of inactivity.
type ImportService struct {
	mu          sync.Mutex
	sessions    map[string]*importSession
	store       *store.StudentStore
	maxFileSize int64
	maxRows     int
}

// NewImportService creates a new import service instance
func NewImportService(recordStore *store.StudentStore, maxFileSizeMB, maxRows int) *ImportService {
	return &ImportService{
		sessions:    make(map[string]*importSession),
		store:       recordStore,
		maxFileSize: int64(maxFileSizeMB) * 1024 * 1024,
		maxRows:     maxRows,
	}
}

// Upload starts a new session from an uploaded file. Only .csv and
// .xlsx are accepted; anything else is rejected with an explicit
// unsupported-type error. On success the session moves to the mapping
// step with the header row matched against the fixed column set.
func (s *ImportService) Upload(fileName string, reader io.Reader) (*dto.ImportSessionResponse, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFileType,
			fmt.Sprintf("file type %q is not supported, upload a .csv or .xlsx file", ext))
	}

	data, err := io.ReadAll(io.LimitReader(reader, s.maxFileSize+1))
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrParseFailed, "failed to read uploaded file")
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("file exceeds the %d MB limit", s.maxFileSize/(1024*1024)))
	}

	header, err := readHeader(ext, data)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrParseFailed, err.Error())
	}

	session := &importSession{
		id:         uuid.New().String(),
		step:       dto.ImportStepMapping,
		fileName:   fileName,
		fileSize:   int64(len(data)),
		fileData:   data,
		header:     header,
		mappings:   matchColumns(header),
		lastActive: time.Now(),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[session.id] = session
	s.mu.Unlock()

	log.Info().Str("sessionId", session.id).Str("file", fileName).
		Int64("size", session.fileSize).Msg("Import session started")

	return session.response(), nil
}

// Parse applies the column mapping and classifies every data row,
// moving the session from mapping to preview. A parse failure leaves
// the session at mapping so the caller can retry with another file.
func (s *ImportService) Parse(sessionID string) (*dto.ImportSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getLocked(sessionID)
	if err != nil {
		return nil, err
	}
	if session.step != dto.ImportStepMapping {
		return nil, wrongStep(session.step, dto.ImportStepMapping)
	}

	records, err := readRecords(strings.ToLower(filepath.Ext(session.fileName)), session.fileData)
	if err != nil {
		log.Warn().Str("sessionId", sessionID).Err(err).Msg("Import parse failed")
		return nil, apperrors.NewCustomError(apperrors.ErrParseFailed, err.Error())
	}

	session.rows, session.payloads, session.counts = classifyRows(session.mappings, records, s.maxRows)
	session.step = dto.ImportStepPreview

	return session.response(), nil
}

// Commit creates one record per valid preview row, serially, and moves
// the session to complete. Each create is awaited before the next
// starts, so a large file imports at the store's write pace.
func (s *ImportService) Commit(ctx context.Context, sessionID string) (*dto.ImportSessionResponse, error) {
	s.mu.Lock()
	session, err := s.getLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session.step != dto.ImportStepPreview {
		s.mu.Unlock()
		return nil, wrongStep(session.step, dto.ImportStepPreview)
	}
	payloads := session.payloads
	s.mu.Unlock()

	today := time.Now().Format(models.DateLayout)
	until := time.Now().AddDate(4, 0, 0).Format(models.DateLayout)

	imported := 0
	for _, data := range payloads {
		data.ValidFrom = today
		data.ValidUntil = until
		if _, err := s.store.Create(ctx, data); err != nil {
			return nil, err
		}
		imported++
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err = s.getLocked(sessionID)
	if err != nil {
		return nil, err
	}
	session.imported = imported
	session.step = dto.ImportStepComplete

	log.Info().Str("sessionId", sessionID).Int("imported", imported).Msg("Import committed")

	return session.response(), nil
}

// Back moves the session exactly one step back. Stepping back from
// mapping discards the uploaded file; stepping back from upload or
// complete is not possible.
func (s *ImportService) Back(sessionID string) (*dto.ImportSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getLocked(sessionID)
	if err != nil {
		return nil, err
	}

	switch session.step {
	case dto.ImportStepMapping:
		session.step = dto.ImportStepUpload
		session.fileName = ""
		session.fileSize = 0
		session.fileData = nil
		session.header = nil
		session.mappings = nil
	case dto.ImportStepPreview:
		session.step = dto.ImportStepMapping
		session.rows = nil
		session.payloads = nil
		session.counts = dto.ImportCounts{}
	default:
		return nil, wrongStep(session.step, dto.ImportStepMapping)
	}

	return session.response(), nil
}

// State returns the current wizard state of a session
func (s *ImportService) State(sessionID string) (*dto.ImportSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return session.response(), nil
}

func (s *ImportService) getLocked(sessionID string) (*importSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrImportSessionNotFound
	}
	session.lastActive = time.Now()
	return session, nil
}

func (s *ImportService) pruneLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, session := range s.sessions {
		if session.lastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func wrongStep(current, expected string) error {
	return apperrors.NewCustomError(apperrors.ErrImportWrongStep,
		fmt.Sprintf("session is at the %s step, expected %s", current, expected))
}

// matchColumns builds the per-field mapping by exact header name
func matchColumns(header []string) []dto.FieldMapping {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}

	mappings := make([]dto.FieldMapping, 0, len(importColumns))
	for _, col := range importColumns {
		mappings = append(mappings, dto.FieldMapping{
			Source:  col,
			Target:  importTargets[col],
			Matched: present[col],
		})
	}
	return mappings
}

// readHeader extracts the first row of the uploaded file
func readHeader(ext string, data []byte) ([]string, error) {
	records, err := readRecords(ext, data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}
	return records[0], nil
}

// readRecords parses the whole file into rows, header included
func readRecords(ext string, data []byte) ([][]string, error) {
	if ext == ".xlsx" {
		return readXLSX(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	return rows, nil
}

// classifyRows turns data rows into previews plus the create payloads
// for the valid ones. A row is valid iff both Roll Number and Student
// Name are non-empty; rows with neither are skipped entirely. Fields
// without a matched column default to the empty string, blood group
// to O+; validity dates are filled at commit time.
func classifyRows(mappings []dto.FieldMapping, records [][]string, maxRows int) ([]dto.ImportRowPreview, []models.StudentData, dto.ImportCounts) {
	index := make(map[string]int)
	for _, m := range mappings {
		if m.Matched {
			index[m.Source] = -1
		}
	}
	if len(records) > 0 {
		for i, h := range records[0] {
			name := strings.TrimSpace(h)
			if _, ok := index[name]; ok {
				index[name] = i
			}
		}
	}

	cell := func(row []string, source string) string {
		i, ok := index[source]
		if !ok || i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []dto.ImportRowPreview
	var payloads []models.StudentData
	var counts dto.ImportCounts

	if len(records) == 0 {
		return rows, payloads, counts
	}

	for _, record := range records[1:] {
		if len(rows) >= maxRows {
			break
		}

		preview := dto.ImportRowPreview{
			RollNo:     cell(record, "Roll Number"),
			Name:       cell(record, "Student Name"),
			FatherName: cell(record, "Father Name"),
			Department: cell(record, "Department"),
			Program:    cell(record, "Program"),
		}
		if preview.RollNo == "" && preview.Name == "" {
			continue
		}

		preview.Valid = preview.RollNo != "" && preview.Name != ""
		if preview.Valid {
			counts.Valid++
			bloodGroup := models.BloodGroupOPositive
			if bg := cell(record, "Blood Group"); models.IsValidBloodGroup(bg) {
				bloodGroup = models.BloodGroup(bg)
			}
			payloads = append(payloads, models.StudentData{
				RollNo:     preview.RollNo,
				Name:       preview.Name,
				FatherName: preview.FatherName,
				Department: preview.Department,
				Program:    preview.Program,
				BloodGroup: bloodGroup,
				Contact:    cell(record, "Contact No"),
				Address:    cell(record, "Address"),
			})
		} else {
			counts.Incomplete++
		}
		rows = append(rows, preview)
	}

	return rows, payloads, counts
}
