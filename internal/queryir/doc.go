// Package queryir provides an abstract query intermediate representation
// for grid filtering, sorting and paging.
//
// The IR sits between the condition builder and the query backends:
//
//	[filter terms] → [Query IR] → [SQL compiler (SQLite, PostgreSQL)]
//	                            → [in-memory evaluator]
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method
// pattern. Only types in this package implement them, so backends can
// switch exhaustively:
//
//	switch p := pred.(type) {
//	case Contains:
//	    // col LIKE %v%
//	case Compare:
//	    // col <op> v
//	...
//	}
//
// VALUES:
//
// Pattern operands (Contains, Prefix, Suffix, Pattern, Regexp) are raw
// strings. Compare carries an ir.Value already coerced to the column's
// kind, so backends compare integers as integers and dates as dates.
package queryir
