package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscofacil/ncm-indexer/internal/logger"
	"github.com/fiscofacil/ncm-indexer/internal/ncm"
)

// fakeEngine records every call so tests can assert on the protocol the
// gateway drives against the engine.
type fakeEngine struct {
	calls       []string
	batchSizes  []int
	firstIDs    []int
	queries     []EngineQuery
	taskCounter int

	failAddAfter int // fail the Nth AddDocuments call (1-based), 0 disables
	searchResult *SearchResult
	statsResult  *IndexStats
}

func (f *fakeEngine) nextTask() string {
	f.taskCounter++
	return fmt.Sprintf("task-%d", f.taskCounter)
}

func (f *fakeEngine) EnsureIndex(context.Context) error {
	f.calls = append(f.calls, "ensure")
	return nil
}

func (f *fakeEngine) ConfigureAttributes(context.Context) error {
	f.calls = append(f.calls, "configure")
	return nil
}

func (f *fakeEngine) AddDocuments(_ context.Context, docs []ncm.Document) (string, error) {
	f.calls = append(f.calls, "add")
	if f.failAddAfter > 0 && len(f.batchSizes)+1 >= f.failAddAfter {
		return "", &EngineError{Op: "add-documents", Err: "engine unavailable"}
	}
	f.batchSizes = append(f.batchSizes, len(docs))
	if len(docs) > 0 {
		f.firstIDs = append(f.firstIDs, docs[0].ID)
	}
	return f.nextTask(), nil
}

func (f *fakeEngine) DeleteDocument(_ context.Context, id int) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("delete-%d", id))
	return f.nextTask(), nil
}

func (f *fakeEngine) DeleteAllDocuments(context.Context) (string, error) {
	f.calls = append(f.calls, "delete-all")
	return f.nextTask(), nil
}

func (f *fakeEngine) Search(_ context.Context, q EngineQuery) (*SearchResult, error) {
	f.calls = append(f.calls, "search")
	f.queries = append(f.queries, q)
	if f.searchResult != nil {
		return f.searchResult, nil
	}
	return &SearchResult{Hits: []Hit{}}, nil
}

func (f *fakeEngine) Stats(context.Context) (*IndexStats, error) {
	f.calls = append(f.calls, "stats")
	if f.statsResult != nil {
		return f.statsResult, nil
	}
	return &IndexStats{}, nil
}

func makeDocs(n int) []ncm.Document {
	docs := make([]ncm.Document, n)
	for i := range docs {
		docs[i] = ncm.Document{ID: i, Codigo: "01", Nivel: ncm.NivelCapitulo}
	}
	return docs
}

func newTestIndexer(engine Engine) *Indexer {
	return NewIndexer(engine, logger.New(logger.LevelError))
}

func TestBulkLoadBatching(t *testing.T) {
	tests := []struct {
		name        string
		docs        int
		wantBatches int
		wantSizes   []int
	}{
		{name: "single partial batch", docs: 3, wantBatches: 1, wantSizes: []int{3}},
		{name: "exactly one batch", docs: 1000, wantBatches: 1, wantSizes: []int{1000}},
		{name: "one over the boundary", docs: 1001, wantBatches: 2, wantSizes: []int{1000, 1}},
		{name: "two and a half batches", docs: 2500, wantBatches: 3, wantSizes: []int{1000, 1000, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			ix := newTestIndexer(engine)

			result, err := ix.BulkLoad(context.Background(), makeDocs(tt.docs), false)
			require.NoError(t, err)

			assert.Equal(t, tt.docs, result.Total)
			assert.Equal(t, tt.wantBatches, result.Batches)
			assert.Len(t, result.Tasks, tt.wantBatches)
			assert.Equal(t, tt.wantSizes, engine.batchSizes)
		})
	}
}

func TestBulkLoadBatchOrder(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.BulkLoad(context.Background(), makeDocs(2500), false)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1000, 2000}, engine.firstIDs, "batches must be submitted in input order")
}

func TestBulkLoadProtocolOrder(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.BulkLoad(context.Background(), makeDocs(1), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"ensure", "delete-all", "configure", "add"}, engine.calls)
}

func TestBulkLoadWithoutReset(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.BulkLoad(context.Background(), makeDocs(1), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"ensure", "configure", "add"}, engine.calls)
}

func TestBulkLoadEmpty(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.BulkLoad(context.Background(), nil, false)
	assert.ErrorIs(t, err, ErrNoDocuments)
	assert.Empty(t, engine.calls, "no engine call for an empty document list")
}

func TestBulkLoadPartialFailure(t *testing.T) {
	engine := &fakeEngine{failAddAfter: 3}
	ix := newTestIndexer(engine)

	result, err := ix.BulkLoad(context.Background(), makeDocs(2500), false)
	require.Error(t, err)

	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "add-documents", engineErr.Op)

	// The two committed batches stay committed and reported.
	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, []string{"task-1", "task-2"}, result.Tasks)
}

func TestSearchQueryTooShort(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "empty", query: ""},
		{name: "single character", query: "a"},
		{name: "whitespace padded single character", query: "  a  "},
		{name: "only whitespace", query: "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			ix := newTestIndexer(engine)

			_, err := ix.Search(context.Background(), SearchParams{Query: tt.query})
			assert.ErrorIs(t, err, ErrQueryTooShort)
			assert.Empty(t, engine.calls, "short queries must not reach the engine")
		})
	}
}

func TestSearchFilters(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.Search(context.Background(), SearchParams{Query: "cavalos"})
	require.NoError(t, err)

	_, err = ix.Search(context.Background(), SearchParams{Query: "cavalos", Nivel: "ncm"})
	require.NoError(t, err)

	require.Len(t, engine.queries, 2)
	assert.Equal(t, []string{"ativo = true"}, engine.queries[0].Filters)
	assert.Equal(t, []string{"ativo = true", `nivel = "ncm"`}, engine.queries[1].Filters)
	assert.True(t, engine.queries[0].Highlight)
}

func TestSearchDefaultLimit(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.Search(context.Background(), SearchParams{Query: "cavalos"})
	require.NoError(t, err)

	_, err = ix.Search(context.Background(), SearchParams{Query: "cavalos", Limit: 5})
	require.NoError(t, err)

	require.Len(t, engine.queries, 2)
	assert.Equal(t, int64(20), engine.queries[0].Limit)
	assert.Equal(t, int64(5), engine.queries[1].Limit)
}

func TestAdminSearchUnfiltered(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	_, err := ix.AdminSearch(context.Background(), "", 10)
	require.NoError(t, err)

	require.Len(t, engine.queries, 1)
	assert.Empty(t, engine.queries[0].Filters)
	assert.False(t, engine.queries[0].Highlight)
	assert.Equal(t, int64(10), engine.queries[0].Limit)
}

func TestDeleteOne(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	task, err := ix.DeleteOne(context.Background(), 42)
	require.NoError(t, err)

	assert.NotEmpty(t, task)
	assert.Equal(t, []string{"ensure", "delete-42"}, engine.calls)
}

func TestDeleteAll(t *testing.T) {
	engine := &fakeEngine{}
	ix := newTestIndexer(engine)

	task, err := ix.DeleteAll(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, task)
	assert.Equal(t, []string{"ensure", "delete-all"}, engine.calls)
}
