package importers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/readwise"
)

type fakeExporter struct {
	batches [][]entities.Highlight
	failOn  int // 1-based call number that fails, 0 never
}

func (f *fakeExporter) PostHighlights(_ context.Context, hs []entities.Highlight) (*readwise.CreateResult, error) {
	f.batches = append(f.batches, hs)
	if len(f.batches) == f.failOn {
		return nil, readwise.ErrRateLimited
	}
	return &readwise.CreateResult{}, nil
}

func makeHighlights(n int) []entities.Highlight {
	hs := make([]entities.Highlight, n)
	for i := range hs {
		hs[i] = entities.Highlight{Text: fmt.Sprintf("h%d", i), ExternalID: fmt.Sprintf("id-%d", i)}
	}
	return hs
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		size  int
		sizes []int
	}{
		{"empty", 0, 200, nil},
		{"single partial", 3, 200, []int{3}},
		{"exact multiple", 400, 200, []int{200, 200}},
		{"remainder", 401, 200, []int{200, 200, 1}},
		{"non-positive size uses default", 201, 0, []int{200, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(makeHighlights(tt.n), tt.size)
			var sizes []int
			for _, c := range chunks {
				sizes = append(sizes, len(c))
			}
			assert.Equal(t, tt.sizes, sizes)
		})
	}
}

func TestChunk_PreservesOrder(t *testing.T) {
	hs := makeHighlights(5)
	var flat []entities.Highlight
	for _, c := range Chunk(hs, 2) {
		flat = append(flat, c...)
	}
	assert.Equal(t, hs, flat)
}

func TestPipeline_Export(t *testing.T) {
	exporter := &fakeExporter{}
	p := NewPipeline(exporter, 2)

	var reports []ChunkReport
	sent, err := p.Export(context.Background(), makeHighlights(5), func(r ChunkReport) {
		reports = append(reports, r)
	})
	require.NoError(t, err)

	assert.Equal(t, 5, sent)
	require.Len(t, exporter.batches, 3)
	assert.Equal(t, "id-0", exporter.batches[0][0].ExternalID)
	assert.Equal(t, "id-4", exporter.batches[2][0].ExternalID)

	require.Len(t, reports, 3)
	assert.Equal(t, ChunkReport{Index: 3, Chunks: 3, Size: 1, Sent: 5, Total: 5, Result: &readwise.CreateResult{}}, reports[2])
}

func TestPipeline_ExportEmpty(t *testing.T) {
	exporter := &fakeExporter{}
	sent, err := NewPipeline(exporter, 0).Export(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, exporter.batches, "no request is made for an empty list")
}

func TestPipeline_ExportStopsOnFirstFailure(t *testing.T) {
	exporter := &fakeExporter{failOn: 2}
	p := NewPipeline(exporter, 2)

	sent, err := p.Export(context.Background(), makeHighlights(6), nil)
	require.Error(t, err)

	assert.True(t, errors.Is(err, readwise.ErrRateLimited))
	assert.Contains(t, err.Error(), "post chunk 2/3")
	assert.Equal(t, 2, sent)
	assert.Len(t, exporter.batches, 2, "later chunks are not attempted")
}

func TestNewPipeline_DefaultChunkSize(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, NewPipeline(&fakeExporter{}, -5).ChunkSize())
	assert.Equal(t, 50, NewPipeline(&fakeExporter{}, 50).ChunkSize())
}
