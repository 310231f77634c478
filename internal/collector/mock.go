package collector

import (
	"context"
	"fmt"
	"sync"

	"MarketVault/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Tables   map[string]model.Table
	FastMeta map[string]model.Metadata
	FullMeta map[string]model.Metadata
	Fail     map[string]error // per-symbol history failures

	mu        sync.Mutex
	FastCalls []string
	FullCalls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, _, _ model.Date) (model.Table, error) {
	if err, ok := m.Fail[symbol]; ok {
		return model.Table{}, err
	}
	if t, ok := m.Tables[symbol]; ok {
		return t, nil
	}
	return model.Table{}, fmt.Errorf("mock: no data for %s", symbol)
}

func (m *MockFetcher) FetchFastMetadata(_ context.Context, symbol string) (model.Metadata, error) {
	m.mu.Lock()
	m.FastCalls = append(m.FastCalls, symbol)
	m.mu.Unlock()
	if meta, ok := m.FastMeta[symbol]; ok {
		return meta, nil
	}
	return model.Metadata{}, fmt.Errorf("mock: no fast metadata for %s", symbol)
}

func (m *MockFetcher) FetchFullMetadata(_ context.Context, symbol string) (model.Metadata, error) {
	m.mu.Lock()
	m.FullCalls = append(m.FullCalls, symbol)
	m.mu.Unlock()
	if meta, ok := m.FullMeta[symbol]; ok {
		return meta, nil
	}
	return model.Metadata{}, fmt.Errorf("mock: no full metadata for %s", symbol)
}
