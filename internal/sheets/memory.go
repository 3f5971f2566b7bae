package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// MemoryGateway is an in-memory Gateway. The tutorial walkthrough runs the
// session machine against it so onboarding never touches the live sheet, and
// tests use it as a fake.
type MemoryGateway struct {
	mu      sync.Mutex
	sheets  map[string][][]string
	uploads []UploadRequest

	// FailAppend and FailUpload force the next matching call to error,
	// letting tests exercise degradation paths.
	FailAppend bool
	FailUpload bool
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{sheets: make(map[string][][]string)}
}

// Seed replaces the named sheet's rows.
func (g *MemoryGateway) Seed(sheetName string, rows [][]string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sheets[sheetName] = rows
}

func (g *MemoryGateway) GetRows(_ context.Context, sheetName string) ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := g.sheets[sheetName]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (g *MemoryGateway) AppendRow(_ context.Context, sheetName string, row []any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailAppend {
		return fmt.Errorf("append failed")
	}
	text := make([]string, len(row))
	for i, cell := range row {
		text[i] = cellString(normalize(cell))
	}
	g.sheets[sheetName] = append(g.sheets[sheetName], text)
	return nil
}

var rangePattern = regexp.MustCompile(`^([^!]+)!([A-Z]+)(\d+)$`)

// UpdateCell supports single-cell A1 ranges like "Onomatopoeia!J4".
func (g *MemoryGateway) UpdateCell(_ context.Context, rangeAddr string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := rangePattern.FindStringSubmatch(rangeAddr)
	if m == nil {
		return fmt.Errorf("unsupported range %q", rangeAddr)
	}
	sheetName, colName := m[1], m[2]
	rowNum, _ := strconv.Atoi(m[3])

	col := 0
	for _, r := range colName {
		col = col*26 + int(r-'A') + 1
	}
	col--

	rows := g.sheets[sheetName]
	if rowNum < 1 || rowNum > len(rows) {
		return fmt.Errorf("row %d out of range for %s", rowNum, sheetName)
	}
	row := rows[rowNum-1]
	for len(row) <= col {
		row = append(row, "")
	}
	row[col] = cellString(normalize(value))
	g.sheets[sheetName][rowNum-1] = row
	return nil
}

func (g *MemoryGateway) UploadAudio(_ context.Context, req UploadRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailUpload {
		return "", fmt.Errorf("upload failed")
	}
	g.uploads = append(g.uploads, req)
	return req.Filename, nil
}

// Uploads returns every upload the gateway has accepted.
func (g *MemoryGateway) Uploads() []UploadRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]UploadRequest(nil), g.uploads...)
}

// RowCount returns the number of rows in the named sheet.
func (g *MemoryGateway) RowCount(sheetName string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sheets[sheetName])
}

// normalize maps Go values onto the types cellString handles, mirroring the
// JSON coercion a real round-trip applies.
func normalize(cell any) any {
	switch v := cell.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return cell
	}
}
