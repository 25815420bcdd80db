package common

// ConversionConfig stores configuration options for one conversion run.
// It is built once from the CLI/config layer and treated as read-only afterwards.
type ConversionConfig struct {
	Delimiter       rune     // Field delimiter of the CSV source
	Encoding        string   // IANA name of the source text encoding; empty means UTF-8
	TableName       string   // Name of the target table
	Headers         bool     // First row of the source holds the column names
	Columns         []string // Explicit column names, override the header row when non-empty
	Chunk           uint     // Insert statements per transaction, 0 for a single transaction
	ChunkInsert     uint     // Rows per insert statement, 0 for one row per statement
	Prefix          string   // Template file rendered before the statements
	Suffix          string   // Template file rendered after the statements
	WithTransaction bool     // Wrap statements in begin transaction/commit
	Typed           bool     // Infer NULL, numeric and boolean literals
}

// UseTransaction reports whether statements are wrapped in transactions.
// A positive Chunk always implies a transaction.
func (c *ConversionConfig) UseTransaction() bool {
	return c.WithTransaction || c.Chunk > 0
}
