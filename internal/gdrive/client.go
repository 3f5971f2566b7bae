// Package gdrive stores recorded audio clips and lists fallback stimulus
// videos on Google Drive.
package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/movelab/onomatopoeia-api/internal/sheets"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client wraps the Drive service for the survey's two uses: audio uploads
// under <audioFolder>/<participantId>/ and the fallback video listing.
type Client struct {
	svc         *drive.Service
	audioFolder string
	videoFolder string
}

// ClientOptionsFromEnv builds Drive client options from the standard
// credential environment variables; inline JSON wins over a file path.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// NewClient creates a Drive client. audioFolder names the top-level folder
// that holds per-participant audio; videoFolder is the fallback video
// listing's folder id.
func NewClient(ctx context.Context, audioFolder, videoFolder string, opts ...option.ClientOption) (*Client, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &Client{svc: svc, audioFolder: audioFolder, videoFolder: videoFolder}, nil
}

// Upload stores the clip under <audioFolder>/<participantId>/, creating both
// folders on demand, and returns the stored filename.
func (c *Client) Upload(ctx context.Context, req sheets.UploadRequest) (string, error) {
	rootID, err := c.ensureFolder(ctx, c.audioFolder, "")
	if err != nil {
		return "", fmt.Errorf("ensuring audio folder: %w", err)
	}

	participantID, err := c.ensureFolder(ctx, strconv.Itoa(req.ParticipantID), rootID)
	if err != nil {
		return "", fmt.Errorf("ensuring participant folder: %w", err)
	}

	file := &drive.File{
		Name:    req.Filename,
		Parents: []string{participantID},
	}
	created, err := c.svc.Files.Create(file).
		Media(bytes.NewReader(req.Data)).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", req.Filename, err)
	}
	return created.Name, nil
}

// ListVideoFiles returns the filenames in the fallback video folder.
func (c *Client) ListVideoFiles(ctx context.Context) ([]string, error) {
	if c.videoFolder == "" {
		return nil, fmt.Errorf("no fallback video folder configured")
	}

	query := fmt.Sprintf("'%s' in parents and trashed=false", c.videoFolder)
	list, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing video folder: %w", err)
	}

	names := make([]string, 0, len(list.Files))
	for _, f := range list.Files {
		names = append(names, f.Name)
	}
	return names, nil
}

// ensureFolder finds a folder by name (optionally under a parent) or creates
// it, returning the folder id.
func (c *Client) ensureFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", name, folderMimeType)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	list, err := c.svc.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("searching for folder %s: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}
	created, err := c.svc.Files.Create(folder).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating folder %s: %w", name, err)
	}
	return created.Id, nil
}
