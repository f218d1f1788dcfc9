package analysis

// StubClient is a deterministic Client for tests and local runs without an
// API key.
type StubClient struct {
	Response string
	Calls    []string
}

func (s *StubClient) Summarize(batchJSON string) (string, error) {
	s.Calls = append(s.Calls, batchJSON)
	if s.Response != "" {
		return s.Response, nil
	}
	return "No anomalies detected.", nil
}

func (s *StubClient) SourceName() string {
	return "Stub"
}
