// Package ddl builds the small set of SQL statements the engines issue on
// their own behalf: catalog attachment, extension loading, and sampling.
package ddl

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierRe allows alphanumerics and underscores, starting with a letter or underscore.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// maxIdentifierLen is the maximum length allowed for a bare identifier.
const maxIdentifierLen = 128

// ValidateIdentifier checks that name can be used unquoted: non-empty, at
// most 128 characters, and matching [a-zA-Z_][a-zA-Z0-9_]*.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("name must be at most %d characters", maxIdentifierLen)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("name must match [a-zA-Z_][a-zA-Z0-9_]*")
	}
	return nil
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
// Table names coming from the dataset are quoted rather than validated, so
// names with spaces still work.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral wraps value in single quotes, doubling embedded quotes.
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
