package store

import (
	"database/sql"
	"regexp"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/jqgrid/internal/ir"
)

const driverName = "sqlite3_jqgrid"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("regexp", sqlRegexp, true)
		},
	})
}

var regexpCache sync.Map // pattern -> *regexp.Regexp

// sqlRegexp implements "value REGEXP pattern", which SQLite rewrites to
// regexp(pattern, value). NULL never matches; the driver passes it as a
// nil []byte.
func sqlRegexp(pattern string, value any) (bool, error) {
	if b, ok := value.([]byte); value == nil || (ok && b == nil) {
		return false, nil
	}
	re, err := compileCached(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(ir.Text(value, "")), nil
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	if re, ok := regexpCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexpCache.Store(pattern, re)
	return re, nil
}
