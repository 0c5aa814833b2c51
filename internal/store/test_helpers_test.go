package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/record"
	"github.com/roach88/jqgrid/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var itemColumns = []Column{
	{Name: "id", Kind: ir.KindInt},
	{Name: "a", Kind: ir.KindString},
	{Name: "b", Kind: ir.KindDecimal},
	{Name: "c", Kind: ir.KindDate},
}

// loadItems creates the "items" table with four rows.
func loadItems(t *testing.T, s *Store) {
	t.Helper()
	rows := testutil.Records(
		testutil.NewRow("apple", decimal.RequireFromString("1.12"), day(2011, time.January, 20), 1),
		testutil.NewRow("Banana", decimal.RequireFromString("30.33"), day(2012, time.February, 21), 2),
		testutil.NewRow("cherry", decimal.RequireFromString("2.5"), day(2013, time.March, 22), 3),
		testutil.NewRow("", nil, nil, 4),
	)
	if err := s.Load(context.Background(), "items", itemColumns, rows); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
}

func ids(recs []record.Record) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i], _ = r.Field("id")
	}
	return out
}
