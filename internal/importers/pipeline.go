package importers

import (
	"context"
	"fmt"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/readwise"
)

// DefaultChunkSize is how many highlights go into one Readwise request.
const DefaultChunkSize = 200

// Converter transforms one raw source response into highlights.
//
// Implementations:
//   - HighlightConverter (weread.go) - WeRead bookmarklist responses
//   - NoteConverter (weread.go) - WeRead review/list responses
type Converter interface {
	Convert() []entities.Highlight
}

// Exporter delivers one batch of highlights to the destination.
type Exporter interface {
	PostHighlights(ctx context.Context, highlights []entities.Highlight) (*readwise.CreateResult, error)
}

// ChunkReport describes one successfully posted chunk.
type ChunkReport struct {
	Index  int // 1-based
	Chunks int
	Size   int
	Sent   int // running total including this chunk
	Total  int
	Result *readwise.CreateResult
}

// Pipeline handles the upload half of a sync: chunk → post → report.
type Pipeline struct {
	exporter  Exporter
	chunkSize int
}

// NewPipeline creates a pipeline posting through exporter. A non-positive
// chunkSize falls back to DefaultChunkSize.
func NewPipeline(exporter Exporter, chunkSize int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pipeline{exporter: exporter, chunkSize: chunkSize}
}

// ChunkSize returns the effective chunk size.
func (p *Pipeline) ChunkSize() int {
	return p.chunkSize
}

// Export posts highlights in their original order, one request per chunk.
// The first failing chunk stops the export and its error is returned;
// chunks posted before it stay posted.
func (p *Pipeline) Export(ctx context.Context, highlights []entities.Highlight, onChunk func(ChunkReport)) (int, error) {
	chunks := Chunk(highlights, p.chunkSize)
	sent := 0

	for i, chunk := range chunks {
		result, err := p.exporter.PostHighlights(ctx, chunk)
		if err != nil {
			return sent, fmt.Errorf("post chunk %d/%d: %w", i+1, len(chunks), err)
		}
		sent += len(chunk)

		if onChunk != nil {
			onChunk(ChunkReport{
				Index:  i + 1,
				Chunks: len(chunks),
				Size:   len(chunk),
				Sent:   sent,
				Total:  len(highlights),
				Result: result,
			})
		}
	}

	return sent, nil
}

// Chunk splits highlights into consecutive slices of at most size items.
// Order is preserved and no empty chunk is produced.
func Chunk(highlights []entities.Highlight, size int) [][]entities.Highlight {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks [][]entities.Highlight
	for start := 0; start < len(highlights); start += size {
		end := start + size
		if end > len(highlights) {
			end = len(highlights)
		}
		chunks = append(chunks, highlights[start:end])
	}
	return chunks
}
