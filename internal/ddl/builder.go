package ddl

import "fmt"

// LoadExtension returns the DuckDB statement installing and loading an extension.
func LoadExtension(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid extension name: %w", err)
	}
	return fmt.Sprintf("INSTALL %s; LOAD %s;", name, name), nil
}

// AttachSQLite returns a DuckDB statement attaching a SQLite file as catalog
// alias. readOnly attaches with READ_ONLY. The statement is a no-op when the
// alias is already attached, so every pooled connection may run it.
func AttachSQLite(alias, path string, readOnly bool) (string, error) {
	if err := ValidateIdentifier(alias); err != nil {
		return "", fmt.Errorf("invalid catalog name: %w", err)
	}
	if path == "" {
		return "", fmt.Errorf("dataset path is required")
	}
	opts := "TYPE sqlite"
	if readOnly {
		opts += ", READ_ONLY"
	}
	return fmt.Sprintf("ATTACH IF NOT EXISTS %s AS %s (%s)", QuoteLiteral(path), QuoteIdentifier(alias), opts), nil
}

// UseCatalog returns a DuckDB USE statement setting the default catalog.
func UseCatalog(alias string) (string, error) {
	if err := ValidateIdentifier(alias); err != nil {
		return "", fmt.Errorf("invalid catalog name: %w", err)
	}
	return fmt.Sprintf("USE %s", QuoteIdentifier(alias)), nil
}

// SampleRows returns a SELECT of the first limit rows of table.
func SampleRows(table string, limit int) (string, error) {
	if table == "" {
		return "", fmt.Errorf("table name is required")
	}
	if limit < 0 {
		return "", fmt.Errorf("limit must not be negative")
	}
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", QuoteIdentifier(table), limit), nil
}
