package analysis

// Client abstracts the LLM provider used for fleet usage commentary.
// Implementations must be safe for sequential reuse across batches.
type Client interface {
	// Summarize takes a JSON fragment describing a vehicle batch and
	// returns a short natural-language commentary.
	Summarize(batchJSON string) (string, error)
	// SourceName returns a short provider label for logging.
	SourceName() string
}
