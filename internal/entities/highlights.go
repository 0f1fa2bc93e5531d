package entities

import "time"

const (
	// LocationTypeWeRead tags every location string produced from WeRead ranges.
	LocationTypeWeRead = "weread"

	// ExternalSourceWeRead is the external_source Readwise dedupes on together
	// with the external id.
	ExternalSourceWeRead = "weread"
)

// Book is a bookshelf entry on WeRead. It is only used as the join key when
// highlights and notes are normalized.
type Book struct {
	ID     string `json:"book_id"` // numeric string
	Title  string `json:"title"`
	Author string `json:"author"`
	Cover  string `json:"cover,omitempty"`
}

// Highlight is the destination-ready record shared by WeRead highlights and
// WeRead notes. Empty Note and Location mean "absent".
type Highlight struct {
	Text           string    `json:"text"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	SourceURL      string    `json:"source_url"`
	HighlightedAt  time.Time `json:"highlighted_at"`
	Note           string    `json:"note,omitempty"`
	Location       string    `json:"location,omitempty"`
	LocationType   string    `json:"location_type"`
	ExternalID     string    `json:"external_id"`
	ExternalSource string    `json:"external_source"`
}

// HasNote reports whether the highlight carries a note.
func (h Highlight) HasNote() bool {
	return h.Note != ""
}
