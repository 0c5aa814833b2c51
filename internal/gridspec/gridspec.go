// Package gridspec loads grid definitions written in CUE.
//
// A definition names the table a grid reads, the accessor paths of its
// cells and optional paging, sorting, date and column-kind settings:
//
//	grid: items: {
//		table:       "items"
//		columns:     ["name", "name.upcase", "price", "added"]
//		date_format: "%d/%m/%Y"
//		rows:        25
//		sort:        "added"
//		order:       "desc"
//		types: price: "decimal"
//	}
package gridspec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/jqgrid/internal/coerce"
	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/grid"
	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/querysql"
)

// Grid is one compiled grid definition.
type Grid struct {
	Name       string
	Table      string
	Columns    []string
	DateFormat string
	Rows       int
	Sort       string
	Order      string
	Types      coerce.ColumnTypes
}

// Config returns the serving configuration for g.
func (g Grid) Config() grid.Config {
	cfg := grid.DefaultConfig()
	if g.DateFormat != "" {
		cfg.DateFormat = g.DateFormat
	}
	cfg.Types = g.Types
	return cfg
}

// Request applies the grid's defaults to req where it leaves them unset.
func (g Grid) Request(req grid.Request) grid.Request {
	if req.Rows <= 0 {
		req.Rows = g.Rows
	}
	if req.Sort == "" {
		req.Sort = g.Sort
		if req.Order == "" {
			req.Order = g.Order
		}
	}
	return req
}

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the grids found in a directory.
type LoadResult struct {
	Grids     []Grid
	FileCount int
}

// Lookup returns the grid named name.
func (r *LoadResult) Lookup(name string) (Grid, bool) {
	for _, g := range r.Grids {
		if g.Name == name {
			return g, true
		}
	}
	return Grid{}, false
}

// LoadError is a coded loading or validation failure.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeTable      = "E101" // Missing or invalid table
	ErrCodeColumns    = "E102" // No columns
	ErrCodeDateFormat = "E103" // Invalid date pattern
	ErrCodeRows       = "E104" // Negative page size
	ErrCodeSort       = "E105" // Invalid sort column or order
	ErrCodeType       = "E106" // Unknown column kind
)

// Load reads every grid definition in dir.
func Load(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Validate(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(files)}
	grids, errs := compileAll(value, mode)
	result.Grids = grids
	if len(result.Grids) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no grids found in specs"})
	}
	return result, errs
}

// Compile reads the grids of an already built CUE value.
func Compile(value cue.Value) ([]Grid, []error) {
	return compileAll(value, LoadModeCollectAll)
}

func compileAll(value cue.Value, mode LoadMode) ([]Grid, []error) {
	gridsVal := value.LookupPath(cue.ParsePath("grid"))
	if !gridsVal.Exists() {
		return nil, nil
	}
	iter, err := gridsVal.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating grids: %v", err)}}
	}

	var grids []Grid
	var errs []error
	for iter.Next() {
		g, err := compileGrid(iter.Label(), iter.Value())
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return grids, errs
			}
			continue
		}
		grids = append(grids, g)
	}
	sort.Slice(grids, func(i, j int) bool { return grids[i].Name < grids[j].Name })
	return grids, errs
}

func compileGrid(name string, v cue.Value) (Grid, error) {
	g := Grid{Name: name}

	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return g, &LoadError{Code: ErrCodeTable, Message: fmt.Sprintf("grid %s: table is required", name), Pos: v.Pos()}
	}
	table, err := tableVal.String()
	if err != nil || !querysql.ValidIdentifier(table) {
		return g, &LoadError{Code: ErrCodeTable, Message: fmt.Sprintf("grid %s: invalid table", name), Pos: tableVal.Pos()}
	}
	g.Table = table

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if colsVal.Exists() {
		if err := colsVal.Decode(&g.Columns); err != nil {
			return g, &LoadError{Code: ErrCodeColumns, Message: fmt.Sprintf("grid %s: columns: %v", name, err), Pos: colsVal.Pos()}
		}
	}
	if len(g.Columns) == 0 {
		return g, &LoadError{Code: ErrCodeColumns, Message: fmt.Sprintf("grid %s: at least one column is required", name), Pos: v.Pos()}
	}

	if f := v.LookupPath(cue.ParsePath("date_format")); f.Exists() {
		pattern, err := f.String()
		if err == nil {
			err = datefmt.Validate(pattern)
		}
		if err != nil {
			return g, &LoadError{Code: ErrCodeDateFormat, Message: fmt.Sprintf("grid %s: date_format: %v", name, err), Pos: f.Pos()}
		}
		g.DateFormat = pattern
	}

	if r := v.LookupPath(cue.ParsePath("rows")); r.Exists() {
		n, err := r.Int64()
		if err != nil || n < 0 {
			return g, &LoadError{Code: ErrCodeRows, Message: fmt.Sprintf("grid %s: rows must be a non-negative integer", name), Pos: r.Pos()}
		}
		g.Rows = int(n)
	}

	if s := v.LookupPath(cue.ParsePath("sort")); s.Exists() {
		col, err := s.String()
		if err != nil || !querysql.ValidIdentifier(col) {
			return g, &LoadError{Code: ErrCodeSort, Message: fmt.Sprintf("grid %s: invalid sort column", name), Pos: s.Pos()}
		}
		g.Sort = col
	}
	if o := v.LookupPath(cue.ParsePath("order")); o.Exists() {
		order, err := o.String()
		if err != nil || (order != "asc" && order != "desc") {
			return g, &LoadError{Code: ErrCodeSort, Message: fmt.Sprintf("grid %s: order must be asc or desc", name), Pos: o.Pos()}
		}
		g.Order = order
	}

	if t := v.LookupPath(cue.ParsePath("types")); t.Exists() {
		types, err := compileTypes(name, t)
		if err != nil {
			return g, err
		}
		g.Types = types
	}
	return g, nil
}

func compileTypes(name string, v cue.Value) (coerce.ColumnTypes, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeType, Message: fmt.Sprintf("grid %s: types: %v", name, err), Pos: v.Pos()}
	}
	types := coerce.ColumnTypes{}
	for iter.Next() {
		s, err := iter.Value().String()
		kind, ok := ir.ParseKind(s)
		if err != nil || !ok || kind == ir.KindNull {
			return nil, &LoadError{
				Code:    ErrCodeType,
				Message: fmt.Sprintf("grid %s: column %s: unknown kind %q", name, iter.Label(), s),
				Pos:     iter.Value().Pos(),
			}
		}
		types[iter.Label()] = kind
	}
	return types, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
