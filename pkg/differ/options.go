package differ

// Option configures a Differ.
type Option func(*Differ)

// WithIgnoredFields skips the given json field paths.
func WithIgnoredFields(fields ...string) Option {
	return func(d *Differ) {
		for _, field := range fields {
			d.ignored[field] = true
		}
	}
}

// WithMaxWidth truncates formatted values longer than n bytes. Zero disables
// truncation.
func WithMaxWidth(n int) Option {
	return func(d *Differ) {
		d.maxWidth = n
	}
}
