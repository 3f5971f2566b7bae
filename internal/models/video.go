package models

// Video is one stimulus clip in the session catalog.
type Video struct {
	Name      string `json:"name"`
	SourceURL string `json:"sourceUrl"`
}
