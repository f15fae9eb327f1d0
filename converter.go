package deepdoc

// Converter turns markup into Markdown so that it can be excerpted into a
// digest as readable text.
type Converter interface {
	// Convert returns the Markdown form of html. Whitespace-only input
	// yields "" and no error.
	Convert(html string) (string, error)
}
