package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bintangp/dermalens/internal/domain/analysis"
)

// scriptedServer answers /chat/completions with a canned status per model id
// and records the order in which models were attempted. Models in drop get
// their connection severed before any status is written; models in empty get
// a 200 reply with no choices.
type scriptedServer struct {
	mu       sync.Mutex
	statuses map[string]int // model -> HTTP status; 200 answers with content
	drop     map[string]bool
	empty    map[string]bool
	content  string
	attempts []string
}

func (s *scriptedServer) handler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model string `json:"model"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.attempts = append(s.attempts, body.Model)
	status := s.statuses[body.Model]
	drop := s.drop[body.Model]
	empty := s.empty[body.Model]
	s.mu.Unlock()

	if drop {
		panic(http.ErrAbortHandler)
	}

	if status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error": {"message": "scripted failure for %s", "type": "invalid_request_error"}}`, body.Model)
		return
	}

	choices := []map[string]any{
		{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": s.content},
		},
	}
	if empty {
		choices = []map[string]any{}
	}

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   body.Model,
		"choices": choices,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newScripted(t *testing.T, statuses map[string]int, content string) (*scriptedServer, *Client) {
	t.Helper()
	s := &scriptedServer{statuses: statuses, content: content}
	srv := httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(srv.Close)
	return s, NewClient("test-key", srv.URL+"/v1", 0.2)
}

func TestCompleteSkipsUnavailableModel(t *testing.T) {
	s, c := newScripted(t, map[string]int{
		"model-a": http.StatusNotFound,
		"model-b": http.StatusOK,
		"model-c": http.StatusOK,
	}, `{"isSkin": true}`)

	out, err := c.Complete(context.Background(), "look", []string{"img"}, []string{"model-a", "model-b", "model-c"})
	require.NoError(t, err)

	assert.Equal(t, `{"isSkin": true}`, out)
	assert.Equal(t, []string{"model-a", "model-b"}, s.attempts, "model-c must never be contacted")
}

func TestCompleteCredentialErrorAbortsCascade(t *testing.T) {
	s, c := newScripted(t, map[string]int{
		"model-a": http.StatusUnauthorized,
		"model-b": http.StatusOK,
	}, `{}`)

	_, err := c.Complete(context.Background(), "look", []string{"img"}, []string{"model-a", "model-b"})
	require.Error(t, err)

	var cerr *domain.CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, domain.KindCredential, cerr.Kind)
	assert.Equal(t, http.StatusUnauthorized, cerr.Status)
	assert.Equal(t, []string{"model-a"}, s.attempts, "model-b must never be contacted")
}

func TestCompleteForbiddenIsCredential(t *testing.T) {
	_, c := newScripted(t, map[string]int{"model-a": http.StatusForbidden}, `{}`)

	_, err := c.Complete(context.Background(), "look", nil, []string{"model-a", "model-b"})

	var cerr *domain.CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, domain.KindCredential, cerr.Kind)
}

func TestCompleteUnknownStatusAbortsCascade(t *testing.T) {
	s, c := newScripted(t, map[string]int{
		"model-a": http.StatusInternalServerError,
		"model-b": http.StatusOK,
	}, `{}`)

	_, err := c.Complete(context.Background(), "look", nil, []string{"model-a", "model-b"})
	require.Error(t, err)

	var cerr *domain.CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, domain.KindUnknown, cerr.Kind)
	assert.Equal(t, []string{"model-a"}, s.attempts)
}

func TestCompleteExhaustionReturnsLastError(t *testing.T) {
	s, c := newScripted(t, map[string]int{
		"model-a": http.StatusNotFound,
		"model-b": http.StatusBadRequest,
	}, `{}`)

	_, err := c.Complete(context.Background(), "look", nil, []string{"model-a", "model-b"})
	require.Error(t, err)

	var cerr *domain.CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, domain.KindModelUnavailable, cerr.Kind)
	assert.Equal(t, "model-b", cerr.Model, "the most recent failure wins")
	assert.Equal(t, []string{"model-a", "model-b"}, s.attempts)
}

func TestCompleteDroppedConnectionAdvancesToNextModel(t *testing.T) {
	s := &scriptedServer{
		statuses: map[string]int{"model-b": http.StatusOK},
		drop:     map[string]bool{"model-a": true},
		content:  `{"isSkin": true}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(srv.Close)
	c := NewClient("test-key", srv.URL+"/v1", 0.2)

	out, err := c.Complete(context.Background(), "look", []string{"img"}, []string{"model-a", "model-b"})
	require.NoError(t, err, "a severed connection must not abort the cascade")

	assert.Equal(t, `{"isSkin": true}`, out)
	assert.Equal(t, []string{"model-a", "model-b"}, s.attempts)
}

func TestCompleteEmptyChoicesAdvancesToNextModel(t *testing.T) {
	s := &scriptedServer{
		statuses: map[string]int{"model-a": http.StatusOK, "model-b": http.StatusOK},
		empty:    map[string]bool{"model-a": true},
		content:  `{"isSkin": true}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(srv.Close)
	c := NewClient("test-key", srv.URL+"/v1", 0.2)

	out, err := c.Complete(context.Background(), "look", nil, []string{"model-a", "model-b"})
	require.NoError(t, err)

	assert.Equal(t, `{"isSkin": true}`, out)
	assert.Equal(t, []string{"model-a", "model-b"}, s.attempts)
}

func TestCompleteNetworkErrorIsTransport(t *testing.T) {
	// nothing listens here
	c := NewClient("test-key", "http://127.0.0.1:1/v1", 0)

	_, err := c.Complete(context.Background(), "look", nil, []string{"model-a"})
	require.Error(t, err)

	var cerr *domain.CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, domain.KindTransport, cerr.Kind)
}

func TestCompleteRejectsEmptyModelList(t *testing.T) {
	_, c := newScripted(t, nil, `{}`)

	_, err := c.Complete(context.Background(), "look", nil, nil)
	require.Error(t, err)

	var cerr *domain.CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, domain.KindUnknown, cerr.Kind)
}
