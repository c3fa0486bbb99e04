package tablesnap

// TableExtractor finds tabular data in HTML documents.
type TableExtractor interface {
	// ExtractFirstTable returns the first table of the document as a Dataset.
	// Returns ENOTABLE when the document has no table and EMALFORMED when
	// the input cannot be parsed as markup.
	ExtractFirstTable(html string) (*Dataset, error)
}
