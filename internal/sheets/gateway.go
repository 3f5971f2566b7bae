// Package sheets talks to the Google Sheets values API and fronts the Drive
// audio uploader. Every persistence path in the survey goes through the
// Gateway interface so the tutorial and tests can swap in a local
// implementation.
package sheets

import "context"

// UploadRequest carries one recorded audio clip to remote storage.
type UploadRequest struct {
	Data          []byte
	Filename      string
	ParticipantID int
	VideoName     string
}

// Gateway is the remote persistence surface used by all services.
type Gateway interface {
	// GetRows returns every row of the named sheet, header row included,
	// each cell coerced to its string form.
	GetRows(ctx context.Context, sheetName string) ([][]string, error)

	// AppendRow appends one row to the named sheet.
	AppendRow(ctx context.Context, sheetName string, row []any) error

	// UpdateCell writes a single value at an A1-notation range address.
	UpdateCell(ctx context.Context, rangeAddr string, value any) error

	// UploadAudio stores an audio clip under the participant's folder and
	// returns the stored filename.
	UploadAudio(ctx context.Context, req UploadRequest) (string, error)
}

// AudioUploader stores audio clips; the Drive client implements it.
type AudioUploader interface {
	Upload(ctx context.Context, req UploadRequest) (string, error)
}

// AudioStore is the subset of Gateway that services recording audio depend on.
type AudioStore interface {
	UploadAudio(ctx context.Context, req UploadRequest) (string, error)
}
