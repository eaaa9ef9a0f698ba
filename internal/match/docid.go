package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DocumentID is an opaque reference to a document parsed by the scoring service.
// The service issues numbers today; strings are accepted as well. The raw JSON form
// is kept so the id is sent back exactly as it was issued.
type DocumentID struct {
	raw json.RawMessage
}

// ResumeDocID references a parsed resume.
type ResumeDocID struct{ DocumentID }

// JobDocID references a parsed job description.
type JobDocID struct{ DocumentID }

// NewDocumentID builds a string-valued id.
func NewDocumentID(id string) DocumentID {
	raw, _ := json.Marshal(id)
	return DocumentID{raw: raw}
}

func (d DocumentID) IsZero() bool {
	return len(d.raw) == 0
}

func (d DocumentID) String() string {
	if len(d.raw) > 0 && d.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(d.raw, &s); err == nil {
			return s
		}
	}
	return string(d.raw)
}

func (d DocumentID) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return d.raw, nil
}

func (d *DocumentID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("document id is empty")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("document id: %w", err)
		}
		if s == "" {
			return fmt.Errorf("document id is empty")
		}
	default:
		if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
			return fmt.Errorf("document id must be a string or a number, got %s", trimmed)
		}
	}

	d.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}
