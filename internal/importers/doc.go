// Package importers normalizes WeRead responses into Readwise-ready highlights
// and uploads them in chunks.
//
// # Architecture
//
//	WeRead response → Converter → []entities.Highlight → Pipeline → Exporter (Readwise)
//
// Converters are pure: given the same book, response and clock they always
// produce the same highlights with the same external ids. Readwise dedupes on
// (external_id, external_source), which is what makes re-running a sync safe
// without any local state.
//
// # Field resolution
//
// WeRead renames fields between client versions. Every logical value is read
// through a Field, an ordered list of candidate keys:
//
//	text := HighlightText.Text(item)      // markText, abstract, content, text
//	ts, ok := HighlightTimestamp.Unix(item) // createTime, updated
//
// # External ids
//
//	weread:<bookId>:bm:<bookmarkId>                      highlight with a server id
//	weread:<bookId>:h:<sha1(bookId|location|text)>       highlight without one
//	weread:<bookId>:rv:<reviewId>                        note with a server id
//	weread:<bookId>:rvh:<sha1(bookId|review|content)>    note without one
//
// The hashed key layout must never change: ids of already synced highlights
// depend on it.
package importers
