package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"mealms-portal/internal/core/domain"
)

// rosterHeaders is the exact header set an uploaded roster must declare,
// order-independent.
var rosterHeaders = []string{"firstName", "lastName", "mobileNumber", "username", "role"}

// ImportService validates an uploaded roster file and forwards it to the
// upstream batch endpoint. The batch is all-or-nothing: one bad row rejects
// the whole file and nothing is sent upstream. Parsed records are transient
// and discarded once the pipeline completes.
type ImportService struct {
	gateway Gateway

	// one import in flight per pipeline instance
	mu sync.Mutex
}

// NewImportService creates a new import service
func NewImportService(gateway Gateway) *ImportService {
	return &ImportService{gateway: gateway}
}

// Import parses, validates and submits a roster file, returning the count of
// employees the upstream created. The caller refreshes the directory after a
// successful import.
func (s *ImportService) Import(ctx context.Context, bearer, filename string, file io.Reader) (int, error) {
	if !s.mu.TryLock() {
		return 0, domain.ErrImportInFlight
	}
	defer s.mu.Unlock()

	data, err := io.ReadAll(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}

	records, err := parseRoster(data)
	if err != nil {
		return 0, err
	}

	count, err := s.gateway.UploadRoster(ctx, bearer, filename, data)
	if err != nil {
		return 0, err
	}

	log.Printf("✅ Roster import: %d employees created (%d rows validated)", count, len(records))
	return count, nil
}

// parseRoster reads a CSV roster into import records. Header problems are
// parse errors; bad row content is a validation error naming the row.
func parseRoster(data []byte) ([]domain.ImportRecord, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	// Column counts are checked per row so a short row gets a named error
	// instead of a csv package failure.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file, no header row", domain.ErrImportParse)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}

	index, err := indexHeaders(header)
	if err != nil {
		return nil, err
	}

	var records []domain.ImportRecord
	rowNum := 1 // header is row 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrImportParse, rowNum, err)
		}

		record, err := buildRecord(index, row, rowNum)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file contains no data rows", domain.ErrImportParse)
	}

	return records, nil
}

// indexHeaders maps each expected header to its column. The declared set must
// match exactly: a missing header or an unrecognized one is a parse error.
func indexHeaders(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		if !isRosterHeader(h) {
			return nil, fmt.Errorf("%w: unrecognized header %q", domain.ErrImportParse, h)
		}
		if _, dup := index[h]; dup {
			return nil, fmt.Errorf("%w: duplicate header %q", domain.ErrImportParse, h)
		}
		index[h] = i
	}

	for _, want := range rosterHeaders {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("%w: missing header %q", domain.ErrImportParse, want)
		}
	}
	return index, nil
}

func isRosterHeader(h string) bool {
	for _, want := range rosterHeaders {
		if h == want {
			return true
		}
	}
	return false
}

// buildRecord turns one CSV row into an import record. The mobile number is
// kept as opaque text so leading zeros survive.
func buildRecord(index map[string]int, row []string, rowNum int) (domain.ImportRecord, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := domain.ImportRecord{
		FirstName:    cell("firstName"),
		LastName:     cell("lastName"),
		MobileNumber: cell("mobileNumber"),
		Username:     cell("username"),
	}

	if record.FirstName == "" || record.Username == "" || record.MobileNumber == "" {
		return domain.ImportRecord{}, fmt.Errorf(
			"%w: row %d: firstName, username and mobileNumber are required",
			domain.ErrImportValidation, rowNum)
	}

	roleText := cell("role")
	role, ok := domain.ParseRole(roleText)
	if !ok {
		return domain.ImportRecord{}, fmt.Errorf(
			"%w: row %d: unknown role %q (expected EMPLOYEE, CANTEEN or MANAGER)",
			domain.ErrImportValidation, rowNum, roleText)
	}
	record.Role = role

	return record, nil
}
