package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agenthands/casefile/internal/core/assistant"
	"github.com/agenthands/casefile/internal/core/model"
	"github.com/agenthands/casefile/internal/llm"
)

// MockExtractor returns canned results keyed by document name and records
// how many calls overlap.
type MockExtractor struct {
	Results map[string]model.AnalysisResult
	Errors  map[string]error
	Delay   time.Duration
	// Gate, when set, blocks every call until it is closed.
	Gate chan struct{}

	mu       sync.Mutex
	Calls    []string
	inFlight int32
	MaxSeen  int32
}

func (m *MockExtractor) Analyze(ctx context.Context, doc llm.Document) (model.AnalysisResult, error) {
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)

	m.mu.Lock()
	m.Calls = append(m.Calls, doc.Name)
	if n > m.MaxSeen {
		m.MaxSeen = n
	}
	m.mu.Unlock()

	if m.Gate != nil {
		<-m.Gate
	}
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if err := m.Errors[doc.Name]; err != nil {
		return model.AnalysisResult{}, err
	}
	return m.Results[doc.Name], nil
}

func (m *MockExtractor) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

type MockAssistant struct {
	Answer  string
	LastCtx []assistant.ContextFile
}

func (m *MockAssistant) Ask(ctx context.Context, query string, files []assistant.ContextFile) string {
	m.LastCtx = files
	return m.Answer
}

type MockMirror struct {
	mu     sync.Mutex
	Boards []model.Board
	Clears int
	Err    error
}

func (m *MockMirror) Sync(ctx context.Context, board model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Boards = append(m.Boards, board)
	return m.Err
}

func (m *MockMirror) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	return m.Err
}

func textUpload(name, content string) Upload {
	return Upload{
		Name:     name,
		MimeType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}

func brokenUpload(name string) Upload {
	return Upload{
		Name:     name,
		MimeType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("disk gone")
		},
	}
}
