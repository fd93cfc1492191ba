package formdata

const (
	// DefaultMaxMemory is the default cap on bytes buffered in memory while
	// parsing a form (10MB).
	DefaultMaxMemory = 10 << 20

	// DefaultMaxParts is the default cap on the number of parts in one form.
	DefaultMaxParts = 1000

	defaultChunkSize = 32 << 10
)

// Option configures form parsing.
type Option func(*config)

type config struct {
	maxParts  int
	maxMemory int64
	chunkSize int
}

func defaultConfig() *config {
	return &config{
		maxParts:  DefaultMaxParts,
		maxMemory: DefaultMaxMemory,
		chunkSize: defaultChunkSize,
	}
}

// WithMaxParts caps the number of parts (fields plus files) accepted before
// parsing fails with ErrTooManyParts. Non-positive values are ignored.
func WithMaxParts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxParts = n
		}
	}
}

// WithMaxMemory caps the number of payload bytes buffered in memory before
// parsing fails with ErrFormTooLarge. For ParseStream this covers field
// values only, since file payloads go straight to the caller's writers; for
// Parse it covers file contents as well. Non-positive values are ignored.
func WithMaxMemory(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxMemory = n
		}
	}
}

// WithChunkSize sets the read granularity used when draining the input
// stream. Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}
