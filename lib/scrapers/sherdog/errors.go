package sherdog

import (
	"fmt"
	"strings"
)

// ParseError reports a row or document a required field could not be
// extracted from. The raw document is still cached by the fetch layer, so
// a fixed parser can reprocess it without refetching.
type ParseError struct {
	// index of the offending row within its table, -1 when the error
	// concerns the document as a whole
	Row     int
	Missing []string
}

func (e *ParseError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("row %d: missing fields: %s", e.Row, strings.Join(e.Missing, ", "))
}
