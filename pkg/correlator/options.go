package correlator

// DocumentOrder decides which open document a test-run-finished closes.
type DocumentOrder int

const (
	// LastIn closes the most recently parsed document.
	LastIn DocumentOrder = iota
	// FirstIn closes the oldest open document.
	FirstIn
)

// Option configures a Correlator.
type Option func(*Correlator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(c *Correlator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDocumentOrder sets how test-run-finished pairs with open documents.
func WithDocumentOrder(order DocumentOrder) Option {
	return func(c *Correlator) {
		c.order = order
	}
}
