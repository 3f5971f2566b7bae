package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Sentinel is the literal written into the onomatopoeia and time columns when a
// participant reports no onomatopoeia for a video.
const Sentinel = "null"

// TimestampFormat is the sheet's answered/registered timestamp layout.
const TimestampFormat = "2006:01:02:15:04:05"

// Annotation is one saved interaction: a real onomatopoeia with a time range,
// or a sentinel row recording that the participant found none for the video.
// It lives as a spreadsheet row; columns are positional (see ToRow).
type Annotation struct {
	RowID           string  `json:"rowId"`
	ParticipantID   int     `json:"participantId"`
	ParticipantName string  `json:"participantName"`
	Video           string  `json:"video"`
	Onomatopoeia    string  `json:"onomatopoeia"`
	StartTime       float64 `json:"startTime"`
	EndTime         float64 `json:"endTime"`
	AnsweredAt      string  `json:"answeredTimestamp"`
	HasAudio        int     `json:"hasAudio"`
	AudioFileName   string  `json:"audioFileName"`
	Reasoning       string  `json:"reasoning"`
}

// NewSentinelAnnotation builds the "no onomatopoeia for this video" row.
func NewSentinelAnnotation(participantID int, participantName, video, answeredAt string) Annotation {
	return Annotation{
		RowID:           uuid.New().String(),
		ParticipantID:   participantID,
		ParticipantName: participantName,
		Video:           video,
		Onomatopoeia:    Sentinel,
		AnsweredAt:      answeredAt,
	}
}

// IsSentinel reports whether this row records the absence of an onomatopoeia.
func (a Annotation) IsSentinel() bool {
	return a.Onomatopoeia == Sentinel
}

// ToRow encodes the annotation as a positional sheet row:
// participantId, participantName, video, onomatopoeia, startTime, endTime,
// answeredTimestamp, hasAudio, audioFileName, reasoning, rowId.
// Sentinel rows write the literal "null" into the time columns.
func (a Annotation) ToRow() []any {
	var start, end any
	if a.IsSentinel() {
		start, end = Sentinel, Sentinel
	} else {
		start, end = a.StartTime, a.EndTime
	}
	return []any{
		a.ParticipantID,
		a.ParticipantName,
		a.Video,
		a.Onomatopoeia,
		start,
		end,
		a.AnsweredAt,
		a.HasAudio,
		a.AudioFileName,
		a.Reasoning,
		a.RowID,
	}
}

// ParseAnnotationRow decodes a positional sheet row. Short rows are tolerated
// because older rows predate the reasoning and rowId columns.
func ParseAnnotationRow(row []string) (Annotation, error) {
	if len(row) < 7 {
		return Annotation{}, fmt.Errorf("annotation row has %d columns, want at least 7", len(row))
	}

	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Annotation{}, fmt.Errorf("parsing participant id %q: %w", row[0], err)
	}

	a := Annotation{
		ParticipantID:   id,
		ParticipantName: row[1],
		Video:           row[2],
		Onomatopoeia:    row[3],
		AnsweredAt:      row[6],
	}

	if a.Onomatopoeia != Sentinel {
		if a.StartTime, err = strconv.ParseFloat(row[4], 64); err != nil {
			return Annotation{}, fmt.Errorf("parsing start time %q: %w", row[4], err)
		}
		if a.EndTime, err = strconv.ParseFloat(row[5], 64); err != nil {
			return Annotation{}, fmt.Errorf("parsing end time %q: %w", row[5], err)
		}
	}

	if len(row) > 7 {
		// hasAudio arrived later; tolerate both 0/1 and the legacy yes/no values.
		switch row[7] {
		case "1", "yes":
			a.HasAudio = 1
		}
	}
	if len(row) > 8 {
		a.AudioFileName = row[8]
	}
	if len(row) > 9 {
		a.Reasoning = row[9]
	}
	if len(row) > 10 {
		a.RowID = row[10]
	}

	return a, nil
}

// MatchesKey reports whether two annotations identify the same row. The
// synthetic row id wins when both sides carry one; otherwise the composite
// participantId+video+onomatopoeia+startTime+endTime key is used.
func (a Annotation) MatchesKey(other Annotation) bool {
	if a.RowID != "" && other.RowID != "" {
		return a.RowID == other.RowID
	}
	return a.ParticipantID == other.ParticipantID &&
		a.Video == other.Video &&
		a.Onomatopoeia == other.Onomatopoeia &&
		a.StartTime == other.StartTime &&
		a.EndTime == other.EndTime
}

// Timestamp formats t in the sheet's timestamp layout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}
