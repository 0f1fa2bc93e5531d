package importers

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/weread"
)

// ReviewNoteLabel is the note attached to every standalone WeRead note so it
// can be told apart from a highlight in Readwise.
const ReviewNoteLabel = "WeRead note (review/thought)."

const chapterPrefix = "— Chapter: "

// Options tune both WeRead converters.
type Options struct {
	Recency RecencyFilter
	// WebURL is the base for source_url links. Defaults to weread.DefaultWebURL.
	WebURL string
	// Now is the clock used for missing timestamps and the recency cutoff.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// HighlightConverter turns a bookmarklist response into highlights.
type HighlightConverter struct {
	Book    entities.Book
	Data    weread.Record
	Options Options
}

// NewHighlightConverter creates a converter for one book's bookmarklist response.
func NewHighlightConverter(book entities.Book, data weread.Record, opts Options) *HighlightConverter {
	return &HighlightConverter{Book: book, Data: data, Options: opts}
}

// Convert implements Converter interface.
func (c *HighlightConverter) Convert() []entities.Highlight {
	chapters := chapterTitles(c.Data)
	now := c.Options.now()

	items, _ := c.Data.Records("updated")
	out := make([]entities.Highlight, 0, len(items))

	for _, item := range items {
		text := HighlightText.Text(item)
		if text == "" {
			continue
		}

		note := HighlightComment.Text(item)
		if uid := item["chapterUid"]; !weread.IsBlank(uid) {
			if title, ok := chapters[weread.Scalar(uid)]; ok {
				if note != "" {
					note = note + "\n\n" + chapterPrefix + title
				} else {
					note = chapterPrefix + title
				}
			}
		}

		location := HighlightLocation.String(item)

		ts, ok := HighlightTimestamp.Unix(item)
		if !ok {
			ts = now.Unix()
		}
		if !c.Options.Recency.Include(ts, now) {
			continue
		}

		var externalID string
		if id := HighlightID.String(item); id != "" {
			externalID = fmt.Sprintf("weread:%s:bm:%s", c.Book.ID, id)
		} else {
			key := c.Book.ID + "|" + location + "|" + text
			externalID = fmt.Sprintf("weread:%s:h:%s", c.Book.ID, sha1Hex(key))
		}

		out = append(out, newHighlight(c.Book, c.Options.WebURL, text, note, location, ts, externalID))
	}

	return out
}

// NoteConverter turns a review/list response into highlights whose text is the
// note itself, so notes stay searchable in Readwise.
type NoteConverter struct {
	Book    entities.Book
	Data    weread.Record
	Options Options
}

// NewNoteConverter creates a converter for one book's review/list response.
func NewNoteConverter(book entities.Book, data weread.Record, opts Options) *NoteConverter {
	return &NoteConverter{Book: book, Data: data, Options: opts}
}

// Convert implements Converter interface.
func (c *NoteConverter) Convert() []entities.Highlight {
	now := c.Options.now()
	items := ReviewList.Records(c.Data)
	out := make([]entities.Highlight, 0, len(items))

	for _, raw := range items {
		item := flattenReview(raw)

		content := ReviewContent.Text(item)
		if content == "" {
			continue
		}

		ts, ok := ReviewTimestamp.Unix(item)
		if !ok {
			ts = now.Unix()
		}
		if !c.Options.Recency.Include(ts, now) {
			continue
		}

		var externalID string
		if id := ReviewID.String(item); id != "" {
			externalID = fmt.Sprintf("weread:%s:rv:%s", c.Book.ID, id)
		} else {
			key := c.Book.ID + "|review|" + content
			externalID = fmt.Sprintf("weread:%s:rvh:%s", c.Book.ID, sha1Hex(key))
		}

		out = append(out, newHighlight(c.Book, c.Options.WebURL, content, ReviewNoteLabel, "", ts, externalID))
	}

	return out
}

// NormalizeHighlights converts a bookmarklist response for book.
func NormalizeHighlights(book entities.Book, data weread.Record, opts Options) []entities.Highlight {
	return NewHighlightConverter(book, data, opts).Convert()
}

// NormalizeNotes converts a review/list response for book.
func NormalizeNotes(book entities.Book, data weread.Record, opts Options) []entities.Highlight {
	return NewNoteConverter(book, data, opts).Convert()
}

func newHighlight(book entities.Book, webURL, text, note, location string, ts int64, externalID string) entities.Highlight {
	return entities.Highlight{
		Text:           text,
		Title:          book.Title,
		Author:         book.Author,
		SourceURL:      weread.BookURL(webURL, book.ID),
		HighlightedAt:  time.Unix(ts, 0).UTC(),
		Note:           note,
		Location:       location,
		LocationType:   entities.LocationTypeWeRead,
		ExternalID:     externalID,
		ExternalSource: entities.ExternalSourceWeRead,
	}
}

// chapterTitles maps chapterUid to chapter title. Entries missing either are
// left out.
func chapterTitles(data weread.Record) map[string]string {
	chapters, _ := data.Records("chapters")
	titles := make(map[string]string, len(chapters))
	for _, ch := range chapters {
		if weread.IsBlank(ch["chapterUid"]) {
			continue
		}
		uid := weread.Scalar(ch["chapterUid"])
		title := weread.Scalar(ch["title"])
		if uid != "" && title != "" {
			titles[uid] = title
		}
	}
	return titles
}

// flattenReview lifts the fields of a nested "review" object next to the
// item's own fields. Values set on the item win.
func flattenReview(item weread.Record) weread.Record {
	nested, ok := item.Object("review")
	if !ok {
		return item
	}
	merged := make(weread.Record, len(item)+len(nested))
	for k, v := range nested {
		merged[k] = v
	}
	for k, v := range item {
		if _, exists := merged[k]; exists && weread.IsBlank(v) {
			continue
		}
		merged[k] = v
	}
	return merged
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
