package storage

import "context"

// NoopStore discards everything.  Reads find nothing.
type NoopStore struct {
}

func (s *NoopStore) Open() error {
	return nil
}

func (s *NoopStore) Close() error {
	return nil
}

func (s *NoopStore) AddRun(ctx context.Context, r *RunRecord) error {
	return nil
}

func (s *NoopStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	return nil, nil
}

func (s *NoopStore) ListRuns(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (s *NoopStore) AddFiring(ctx context.Context, runId string, f *FiringRecord) error {
	return nil
}

func (s *NoopStore) Firings(ctx context.Context, runId string) ([]*FiringRecord, error) {
	return nil, nil
}
