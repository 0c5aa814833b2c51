package grid

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jqgrid/internal/coerce"
	"github.com/roach88/jqgrid/internal/filter"
	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/querymem"
	"github.com/roach88/jqgrid/internal/record"
	"github.com/roach88/jqgrid/internal/testutil"
)

func memSource(t *testing.T) *querymem.DB {
	t.Helper()
	db := querymem.New("")
	db.Add("items", testutil.Records(
		testutil.NewRow("apple", 10, day(2011, time.January, 20), 1),
		testutil.NewRow("Banana", 3, day(2012, time.February, 21), 2),
		testutil.NewRow("cherry", 25, day(2013, time.March, 22), 3),
		testutil.NewRow("date", 7, day(2014, time.April, 23), 4),
		testutil.NewRow("elder", 12, day(2015, time.May, 24), 5),
	))
	return db
}

func TestServe_FirstPage(t *testing.T) {
	resp, err := Serve(context.Background(), memSource(t), "items", Request{Page: 1, Rows: 2}, abc, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t,
		`{"page": 1, "total": 3, "records": 5, "rows": [ {"id": "1", "cell": ["apple","10","20/01/2011"]},{"id": "2", "cell": ["Banana","3","21/02/2012"]}]}`,
		resp.Body)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 5, resp.Records)
}

func TestServe_SortDescending(t *testing.T) {
	req := Request{Page: 1, Rows: 3, Sort: "b", Order: "desc"}
	resp, err := Serve(context.Background(), memSource(t), "items", req, []string{"b"}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t,
		`{"page": 1, "total": 2, "records": 5, "rows": [ {"id": "3", "cell": ["25"]},{"id": "5", "cell": ["12"]},{"id": "1", "cell": ["10"]}]}`,
		resp.Body)
}

func TestServe_TypedFilters(t *testing.T) {
	req := Request{
		Page:    1,
		Rows:    10,
		Search:  true,
		Filters: filter.FromPairs("b", ">=10", "c", "<1/1/2015"),
	}
	resp, err := Serve(context.Background(), memSource(t), "items", req, []string{"a"}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t,
		`{"page": 1, "total": 1, "records": 2, "rows": [ {"id": "1", "cell": ["apple"]},{"id": "3", "cell": ["cherry"]}]}`,
		resp.Body)
	assert.Empty(t, resp.Skipped)
}

func TestServe_SkipsMalformedDateTerm(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	req := Request{Search: true, Filters: filter.FromPairs("a", "e", "c", ">20/1/")}
	resp, err := Serve(context.Background(), memSource(t), "items", req, []string{"a"}, cfg)
	require.NoError(t, err)

	assert.Equal(t, []filter.Term{{Column: "c", Value: ">20/1/"}}, resp.Skipped)
	assert.Equal(t, 4, resp.Records, "apple, cherry, date, elder contain e")
	assert.Contains(t, buf.String(), "skipping filter term")
	assert.Contains(t, buf.String(), "served grid page")
}

func TestServe_ClampsPagePastEnd(t *testing.T) {
	resp, err := Serve(context.Background(), memSource(t), "items", Request{Page: 9, Rows: 2}, []string{"a"}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Page)
	assert.Equal(t,
		`{"page": 3, "total": 3, "records": 5, "rows": [ {"id": "5", "cell": ["elder"]}]}`,
		resp.Body)
}

func TestServe_NoMatches(t *testing.T) {
	req := Request{Search: true, Filters: filter.FromPairs("a", "zzz")}
	resp, err := Serve(context.Background(), memSource(t), "items", req, abc, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, `{"page": 1, "total": 1, "records": 0}`, resp.Body)
}

func TestServe_EmptyTableTypesAsString(t *testing.T) {
	db := querymem.New("")
	db.Add("empty", nil)

	req := Request{Search: true, Filters: filter.FromPairs("n", ">5")}
	resp, err := Serve(context.Background(), db, "empty", req, abc, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `{"page": 1, "total": 1, "records": 0}`, resp.Body)
}

type failingSource struct{ err error }

func (f failingSource) Count(context.Context, queryir.Count) (int, error) { return 0, f.err }

func (f failingSource) Fetch(context.Context, queryir.Select) ([]record.Record, error) {
	return nil, f.err
}

func TestServe_PropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Serve(context.Background(), failingSource{boom}, "items", Request{}, abc, DefaultConfig())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "count items")

	_, err = Serve(context.Background(), failingSource{boom}, "items", Request{Search: true, Filters: filter.FromPairs("a", "x")}, abc, DefaultConfig())
	assert.ErrorContains(t, err, "sample items")
}

type fetchCounter struct {
	*querymem.DB
	fetches int
}

func (f *fetchCounter) Fetch(ctx context.Context, q queryir.Select) ([]record.Record, error) {
	f.fetches++
	return f.DB.Fetch(ctx, q)
}

func TestServe_DeclaredTypesSkipSampling(t *testing.T) {
	src := &fetchCounter{DB: memSource(t)}
	cfg := DefaultConfig()
	cfg.Types = coerce.ColumnTypes{"b": ir.KindInt}

	req := Request{Search: true, Filters: filter.FromPairs("b", ">10")}
	resp, err := Serve(context.Background(), src, "items", req, []string{"a"}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, src.fetches, "page fetch only")
	assert.Equal(t, 2, resp.Records)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{DateFormat: "%Q"}.Validate())
}
