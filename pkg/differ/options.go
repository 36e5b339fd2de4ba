package differ

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithComparator replaces the equality test for the comparison field.
func WithComparator(c Comparator) Option {
	return func(d *differ) {
		d.comparator = c
	}
}

// WithTypeDecoding compares canonical type sets instead of raw text, so a
// legacy blob and its readable label are equal.
func WithTypeDecoding() Option {
	return func(d *differ) {
		d.decodeTypes = true
	}
}

// WithFoldCase forces case-insensitive, trimmed comparison on or off
// regardless of the field being compared.
func WithFoldCase(enabled bool) Option {
	return func(d *differ) {
		d.foldCase = &enabled
	}
}
