package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client implements Gateway against the Sheets values REST API, with audio
// uploads delegated to the Drive uploader.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	tokens        TokenSource
	uploader      AudioUploader
}

// ClientConfig holds configuration for the sheets client.
type ClientConfig struct {
	BaseURL       string
	SpreadsheetID string
	Timeout       time.Duration
}

// NewClient creates a sheets client. The uploader may be nil when audio
// storage is not configured; UploadAudio then fails cleanly.
func NewClient(cfg ClientConfig, tokens TokenSource, uploader AudioUploader) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		tokens:        tokens,
		uploader:      uploader,
	}
}

// GetRows fetches the named sheet's values, each cell coerced to a string.
func (c *Client) GetRows(ctx context.Context, sheetName string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s", c.baseURL, c.spreadsheetID, url.PathEscape(sheetName))

	var payload struct {
		Values [][]any `json:"values"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetching rows from %s: %w", sheetName, err)
	}

	rows := make([][]string, len(payload.Values))
	for i, raw := range payload.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// AppendRow appends one row to the named sheet.
func (c *Client) AppendRow(ctx context.Context, sheetName string, row []any) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.baseURL, c.spreadsheetID, url.PathEscape(sheetName))

	body := map[string]any{"values": [][]any{row}}
	if err := c.do(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return fmt.Errorf("appending row to %s: %w", sheetName, err)
	}
	return nil
}

// UpdateCell writes a single value at an A1-notation range address.
func (c *Client) UpdateCell(ctx context.Context, rangeAddr string, value any) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeAddr))

	body := map[string]any{"values": [][]any{{value}}}
	if err := c.do(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		return fmt.Errorf("updating %s: %w", rangeAddr, err)
	}
	return nil
}

// UploadAudio stores the clip through the configured uploader.
func (c *Client) UploadAudio(ctx context.Context, req UploadRequest) (string, error) {
	if c.uploader == nil {
		return "", fmt.Errorf("audio storage not configured")
	}
	return c.uploader.Upload(ctx, req)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, result any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("acquiring token: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return fmt.Errorf("sheets API status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("sheets API status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// cellString coerces a JSON cell value to its sheet string form. Formatted
// reads return strings already; unformatted numeric cells arrive as float64.
func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
