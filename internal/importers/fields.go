package importers

import (
	"github.com/mrlokans/weread-readwise/internal/utils"
	"github.com/mrlokans/weread-readwise/internal/weread"
)

// Field is an ordered list of keys that may carry the same logical value.
// WeRead renames fields between client versions, so each value is resolved
// by trying its candidates in priority order.
type Field []string

// Candidate keys, highest priority first.
var (
	HighlightText      = Field{"markText", "abstract", "content", "text"}
	HighlightComment   = Field{"review", "reviewContent", "note", "comment"}
	HighlightLocation  = Field{"range", "location"}
	HighlightTimestamp = Field{"createTime", "updated"}
	HighlightID        = Field{"bookmarkId", "id"}

	ReviewList      = Field{"reviews", "updated", "data", "items"}
	ReviewContent   = Field{"content", "review", "text"}
	ReviewTimestamp = Field{"createTime", "ctime"}
	ReviewID        = Field{"reviewId", "id"}
)

// Text returns the first candidate that is non-empty after CleanText.
func (f Field) Text(r weread.Record) string {
	for _, key := range f {
		if s := utils.CleanText(weread.Scalar(r[key])); s != "" {
			return s
		}
	}
	return ""
}

// String returns the first non-blank candidate rendered as a string.
func (f Field) String(r weread.Record) string {
	for _, key := range f {
		v := r[key]
		if weread.IsBlank(v) {
			continue
		}
		if s := weread.Scalar(v); s != "" {
			return s
		}
	}
	return ""
}

// Unix returns the first candidate holding a positive integer timestamp.
func (f Field) Unix(r weread.Record) (int64, bool) {
	for _, key := range f {
		if ts, ok := weread.Int64(r[key]); ok && ts > 0 {
			return ts, true
		}
	}
	return 0, false
}

// Records returns the first candidate holding a list, even an empty one.
func (f Field) Records(r weread.Record) []weread.Record {
	for _, key := range f {
		if items, ok := r.Records(key); ok {
			return items
		}
	}
	return nil
}
