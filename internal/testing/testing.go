// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
)

var _ services.Backend = (*MockBackend)(nil)

// MockBackend is a test double for [services.Backend].
//
// Each operation calls its Func field when set and otherwise succeeds with an empty value.
// Requests are recorded so tests can assert on what was sent.
type MockBackend struct {
	CollectionsFunc       func(ctx context.Context) ([]models.CollectionSummary, error)
	CollectionFunc        func(ctx context.Context, id string) (*models.Collection, error)
	RemoveAlbumFunc       func(ctx context.Context, req services.RemoveAlbumRequest) error
	ReorderCollectionFunc func(ctx context.Context, req services.ReorderRequest) error
	AddAlbumFunc          func(ctx context.Context, req services.AddAlbumRequest) error
	DevicesFunc           func(ctx context.Context) ([]models.Device, error)
	PlayCollectionFunc    func(ctx context.Context, req services.PlayRequest) error
	SearchFunc            func(ctx context.Context, req services.SearchRequest) (*services.SearchResponse, error)

	mu       sync.Mutex
	removes  []services.RemoveAlbumRequest
	reorders []services.ReorderRequest
	adds     []services.AddAlbumRequest
	plays    []services.PlayRequest
	searches []services.SearchRequest
	devices  int
}

func (m *MockBackend) Collections(ctx context.Context) ([]models.CollectionSummary, error) {
	if m.CollectionsFunc != nil {
		return m.CollectionsFunc(ctx)
	}
	return []models.CollectionSummary{}, nil
}

func (m *MockBackend) Collection(ctx context.Context, id string) (*models.Collection, error) {
	if m.CollectionFunc != nil {
		return m.CollectionFunc(ctx, id)
	}
	return nil, shared.ErrCollectionNotFound
}

func (m *MockBackend) RemoveAlbum(ctx context.Context, req services.RemoveAlbumRequest) error {
	m.mu.Lock()
	m.removes = append(m.removes, req)
	m.mu.Unlock()
	if m.RemoveAlbumFunc != nil {
		return m.RemoveAlbumFunc(ctx, req)
	}
	return nil
}

func (m *MockBackend) ReorderCollection(ctx context.Context, req services.ReorderRequest) error {
	m.mu.Lock()
	m.reorders = append(m.reorders, req)
	m.mu.Unlock()
	if m.ReorderCollectionFunc != nil {
		return m.ReorderCollectionFunc(ctx, req)
	}
	return nil
}

func (m *MockBackend) AddAlbum(ctx context.Context, req services.AddAlbumRequest) error {
	m.mu.Lock()
	m.adds = append(m.adds, req)
	m.mu.Unlock()
	if m.AddAlbumFunc != nil {
		return m.AddAlbumFunc(ctx, req)
	}
	return nil
}

func (m *MockBackend) Devices(ctx context.Context) ([]models.Device, error) {
	m.mu.Lock()
	m.devices++
	m.mu.Unlock()
	if m.DevicesFunc != nil {
		return m.DevicesFunc(ctx)
	}
	return []models.Device{}, nil
}

func (m *MockBackend) PlayCollection(ctx context.Context, req services.PlayRequest) error {
	m.mu.Lock()
	m.plays = append(m.plays, req)
	m.mu.Unlock()
	if m.PlayCollectionFunc != nil {
		return m.PlayCollectionFunc(ctx, req)
	}
	return nil
}

func (m *MockBackend) Search(ctx context.Context, req services.SearchRequest) (*services.SearchResponse, error) {
	m.mu.Lock()
	m.searches = append(m.searches, req)
	m.mu.Unlock()
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, req)
	}
	return &services.SearchResponse{}, nil
}

// Removes returns a copy of the recorded remove requests.
func (m *MockBackend) Removes() []services.RemoveAlbumRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.RemoveAlbumRequest(nil), m.removes...)
}

// Reorders returns a copy of the recorded reorder requests.
func (m *MockBackend) Reorders() []services.ReorderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.ReorderRequest(nil), m.reorders...)
}

// Adds returns a copy of the recorded add requests.
func (m *MockBackend) Adds() []services.AddAlbumRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.AddAlbumRequest(nil), m.adds...)
}

// Plays returns a copy of the recorded play requests.
func (m *MockBackend) Plays() []services.PlayRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.PlayRequest(nil), m.plays...)
}

// Searches returns a copy of the recorded search requests.
func (m *MockBackend) Searches() []services.SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.SearchRequest(nil), m.searches...)
}

// DeviceCalls returns how many times Devices was called.
func (m *MockBackend) DeviceCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.devices
}

// FakeConfirmer answers every confirmation with Answer and remembers the prompts.
type FakeConfirmer struct {
	Answer  bool
	mu      sync.Mutex
	prompts []string
}

func (f *FakeConfirmer) Confirm(prompt string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.Answer
}

func (f *FakeConfirmer) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// FakeRecorder collects journaled activity in memory. Err is returned from every Record call.
type FakeRecorder struct {
	Err     error
	mu      sync.Mutex
	entries []models.Activity
}

func (f *FakeRecorder) Record(ctx context.Context, a models.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, a)
	return f.Err
}

func (f *FakeRecorder) Entries() []models.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Activity(nil), f.entries...)
}

// SampleCollection returns a collection of four albums where the third is incomplete.
func SampleCollection() *models.Collection {
	return &models.Collection{
		ID:   "c1",
		Name: "Road Trip",
		Albums: []models.Album{
			{ID: "a1", Name: "Blue", Artists: "Joni Mitchell", Link: "https://open.spotify.com/album/a1", Complete: true},
			{ID: "a2", Name: "Hejira", Artists: "Joni Mitchell", Link: "https://open.spotify.com/album/a2", Complete: true},
			{ID: "a3", Name: "Court and Spark", Artists: "Joni Mitchell", Link: "https://open.spotify.com/album/a3", Complete: false},
			{ID: "a4", Name: "Ladies of the Canyon", Artists: "Joni Mitchell", Link: "https://open.spotify.com/album/a4", Complete: true},
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
