package harness

import (
	"fmt"
	"slices"
)

// checkExpect compares result against every set field of expect.
func checkExpect(result *Result, expect *ExpectClause) {
	if expect.Body != "" && expect.Body != result.Body {
		result.AddError(fmt.Sprintf("body mismatch:\n  want %s\n  got  %s", expect.Body, result.Body))
	}
	checkInt(result, "page", expect.Page, result.Page)
	checkInt(result, "total", expect.Total, result.Total)
	checkInt(result, "records", expect.Records, result.Records)
	if expect.Skipped != nil && !slices.Equal(expect.Skipped, result.Skipped) {
		result.AddError(fmt.Sprintf("skipped mismatch: want %v, got %v", expect.Skipped, result.Skipped))
	}
}

func checkInt(result *Result, name string, want *int, got int) {
	if want != nil && *want != got {
		result.AddError(fmt.Sprintf("%s mismatch: want %d, got %d", name, *want, got))
	}
}
