package mock

import "github.com/alqudimi/deepdoc"

var _ deepdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of deepdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
