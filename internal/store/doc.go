// Package store provides a SQLite-backed grid data source.
//
// Tables are created and filled by Load from in-memory records, with each
// column's kind recorded in a small catalog (grid_columns). Count and
// Fetch execute queryir queries compiled by querysql and materialize rows
// as field records, converting DECIMAL columns to decimal.Decimal and
// DATE columns to calendar dates so filters and cells keep their types.
//
// The connection is registered through a dedicated driver that adds a
// REGEXP function, since SQLite ships the operator without an
// implementation.
package store
