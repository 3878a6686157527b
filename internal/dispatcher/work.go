package dispatcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/roadmap"
)

// LectureID is the producer's lecture identifier. Producers send it either as a JSON string or a
// JSON number; it is re-encoded the way it arrived.
type LectureID struct {
	value   string
	numeric bool
}

// StringID returns a string lecture id.
func StringID(id string) LectureID {
	return LectureID{value: id}
}

// NumericID returns a numeric lecture id.
func NumericID(id int64) LectureID {
	return LectureID{value: fmt.Sprint(id), numeric: true}
}

// String is the outbound record key.
func (id LectureID) String() string {
	return id.value
}

func (id LectureID) IsZero() bool {
	return id.value == ""
}

func (id *LectureID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LectureID{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lectureId must be a string or a number, got %s", data)
	}
	*id = LectureID{value: n.String(), numeric: true}
	return nil
}

func (id LectureID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// Work is one inbound roadmap job. FileURL carries the document URL despite its wire name.
type Work struct {
	LectureID LectureID `json:"lectureId"`
	FileURL   string    `json:"fileName"`
}

// IsValid reports whether both required fields are present.
func (w *Work) IsValid() bool {
	return !w.LectureID.IsZero() && strings.TrimSpace(w.FileURL) != ""
}

// Result is the outbound roadmap record.
type Result struct {
	LectureID LectureID `json:"lecture_id"`
	FileURL   string    `json:"file_url"`
	roadmap.Roadmap
}
