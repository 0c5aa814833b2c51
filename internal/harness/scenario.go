package harness

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/filter"
	"github.com/roach88/jqgrid/internal/grid"
	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/record"
)

// Scenario is one grid request over a small record set.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// DateFormat is the strftime pattern for date values, filters and
	// cells. Empty means the grid default.
	DateFormat string `yaml:"date_format,omitempty"`

	// Schema maps a field to the kind its YAML values are converted to.
	Schema map[string]string `yaml:"schema,omitempty"`

	// Records are the table rows.
	Records []map[string]any `yaml:"records"`

	// Columns are the accessor paths of the grid cells.
	Columns []string `yaml:"columns"`

	Request RequestSpec  `yaml:"request,omitempty"`
	Filters []FilterStep `yaml:"filters,omitempty"`

	// Expect is checked by Run. If nil, the scenario only has to execute.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// RequestSpec holds the paging and sorting parameters.
type RequestSpec struct {
	Page  int    `yaml:"page,omitempty"`
	Rows  int    `yaml:"rows,omitempty"`
	Sort  string `yaml:"sort,omitempty"`
	Order string `yaml:"order,omitempty"`

	// Search defaults to true when the scenario has filters.
	Search *bool `yaml:"search,omitempty"`
}

// FilterStep is one toolbar filter term.
type FilterStep struct {
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}

// ExpectClause lists the expected outcome. Unset fields are not checked.
type ExpectClause struct {
	Body    string   `yaml:"body,omitempty"`
	Page    *int     `yaml:"page,omitempty"`
	Total   *int     `yaml:"total,omitempty"`
	Records *int     `yaml:"records,omitempty"`
	Skipped []string `yaml:"skipped,omitempty"`
}

// Field is a column of the scenario table.
type Field struct {
	Name string
	Kind ir.Kind
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("columns list is required and must be non-empty")
	}
	if s.DateFormat != "" {
		if err := datefmt.Validate(s.DateFormat); err != nil {
			return fmt.Errorf("date_format: %w", err)
		}
	}
	for field, name := range s.Schema {
		if k, ok := ir.ParseKind(name); !ok || k == ir.KindNull {
			return fmt.Errorf("schema.%s: unknown kind %q", field, name)
		}
	}
	for i, f := range s.Filters {
		if f.Column == "" {
			return fmt.Errorf("filters[%d]: column is required", i)
		}
	}
	if s.Request.Page < 0 || s.Request.Rows < 0 {
		return fmt.Errorf("request: page and rows must be non-negative")
	}
	return nil
}

func (s *Scenario) dateFormat() string {
	if s.DateFormat == "" {
		return datefmt.Default
	}
	return s.DateFormat
}

// Config returns the grid configuration the scenario runs with.
func (s *Scenario) Config() grid.Config {
	return grid.Config{DateFormat: s.dateFormat()}
}

// GridRequest builds the grid request.
func (s *Scenario) GridRequest() grid.Request {
	req := grid.Request{
		Page:  s.Request.Page,
		Rows:  s.Request.Rows,
		Sort:  s.Request.Sort,
		Order: s.Request.Order,
	}
	for _, f := range s.Filters {
		req.Filters = append(req.Filters, filter.Term{Column: f.Column, Value: f.Value})
	}
	if s.Request.Search != nil {
		req.Search = *s.Request.Search
	} else {
		req.Search = len(req.Filters) > 0
	}
	return req
}

// Table converts the records into typed rows and describes their fields.
//
// Fields are sorted by name with "id" first. A field without a schema
// entry is typed from its first non-nil value.
func (s *Scenario) Table() ([]Field, []record.Record, error) {
	declared := map[string]ir.Kind{}
	for field, name := range s.Schema {
		declared[field], _ = ir.ParseKind(name)
	}

	kinds := map[string]ir.Kind{}
	for field, kind := range declared {
		kinds[field] = kind
	}
	rows := make([]record.Record, len(s.Records))
	for i, raw := range s.Records {
		values := make(map[string]any, len(raw))
		for field, v := range raw {
			kind, ok := declared[field]
			if !ok {
				values[field] = v
				if _, seen := kinds[field]; !seen && v != nil {
					kinds[field] = fieldKind(v)
				}
				continue
			}
			val, err := convert(kind, v, s.dateFormat())
			if err != nil {
				return nil, nil, fmt.Errorf("records[%d].%s: %w", i, field, err)
			}
			values[field] = val
		}
		rows[i] = record.Object{Values: values}
	}

	for _, raw := range s.Records {
		for field := range raw {
			if _, ok := kinds[field]; !ok {
				kinds[field] = ir.KindString
			}
		}
	}
	fields := make([]Field, 0, len(kinds))
	for name, kind := range kinds {
		fields = append(fields, Field{Name: name, Kind: kind})
	}
	sort.Slice(fields, func(i, j int) bool {
		a, b := fields[i].Name, fields[j].Name
		if (a == "id") != (b == "id") {
			return a == "id"
		}
		return a < b
	})
	return fields, rows, nil
}

func fieldKind(v any) ir.Kind {
	if k := ir.KindOf(v); k != ir.KindNull {
		return k
	}
	return ir.KindString
}

// convert turns a YAML scalar into a value of kind.
func convert(kind ir.Kind, v any, dateFormat string) (any, error) {
	if v == nil {
		return nil, nil
	}
	text := ir.Text(v, dateFormat)
	switch kind {
	case ir.KindInt:
		if n, ok := ir.AsInt64(v); ok {
			return n, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", text)
		}
		return n, nil
	case ir.KindFloat:
		if f, ok := ir.AsFloat64(v); ok {
			return f, nil
		}
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", text)
		}
		return d.InexactFloat64(), nil
	case ir.KindDecimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("not a decimal: %q", text)
		}
		return d, nil
	case ir.KindDate:
		if t, ok := ir.AsTime(v); ok {
			return ir.NewIRDate(t).Time, nil
		}
		return datefmt.Parse(dateFormat, text)
	default:
		return text, nil
	}
}
