package evalclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/engpractice/internal/config"
	"github.com/abhisek/engpractice/internal/evaluation"
	"github.com/abhisek/engpractice/internal/llm"
	"github.com/abhisek/engpractice/internal/server"
)

func fakeEndpoint(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/api/evaluate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestEvaluateReturnsEvaluationUnchanged(t *testing.T) {
	ts, _ := fakeEndpoint(t, http.StatusOK, `{"evaluation":{"score":71,"extra":{"kept":true}}}`)

	got, err := New(ts.URL).Evaluate(context.Background(), evaluation.KindWriting, "text", "prompt", "b1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":71,"extra":{"kept":true}}`, string(got))
}

func TestEvaluateSendsRequestBody(t *testing.T) {
	var got evaluation.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"evaluation":{"score":1}}`)
	}))
	defer ts.Close()

	_, err := New(ts.URL+"/").Evaluate(context.Background(), evaluation.KindSpeaking, "hello there", "Greet", "a2")
	require.NoError(t, err)
	assert.Equal(t, evaluation.Request{Type: evaluation.KindSpeaking, Content: "hello there", Prompt: "Greet", Level: "a2"}, got)
}

func TestEvaluateMissingField(t *testing.T) {
	ts, calls := fakeEndpoint(t, http.StatusOK, `{}`)
	c := New(ts.URL)

	tests := []struct {
		kind                   evaluation.Kind
		content, prompt, level string
		want                   string
	}{
		{"", "", "", "", "type"},
		{evaluation.KindWriting, "", "", "", "content"},
		{evaluation.KindWriting, "c", "", "", "prompt"},
		{evaluation.KindWriting, "c", "p", "", "level"},
	}
	for _, tt := range tests {
		_, err := c.Evaluate(context.Background(), tt.kind, tt.content, tt.prompt, tt.level)
		var mf *MissingFieldError
		require.ErrorAs(t, err, &mf)
		assert.Equal(t, tt.want, mf.Field)
	}
	assert.Zero(t, *calls)
}

func TestEvaluateFailureStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error body", http.StatusTooManyRequests, `{"error":"Rate limit exceeded. Please try again later."}`, "Rate limit exceeded. Please try again later."},
		{"unparseable body", http.StatusBadGateway, `<html>bad gateway</html>`, "Evaluation failed with status 502"},
		{"empty error", http.StatusInternalServerError, `{"error":""}`, "Evaluation failed with status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := fakeEndpoint(t, tt.status, tt.body)
			_, err := New(ts.URL).Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")

			var fe *EvaluationFailedError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.status, fe.Status)
			assert.Equal(t, tt.wantMsg, fe.Message)
		})
	}
}

func TestEvaluateMalformedSuccess(t *testing.T) {
	for _, body := range []string{`{"result":{}}`, `not json`, `{"evaluation":null}`} {
		ts, _ := fakeEndpoint(t, http.StatusOK, body)
		_, err := New(ts.URL).Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}

func TestEvaluateNetworkError(t *testing.T) {
	ts, _ := fakeEndpoint(t, http.StatusOK, `{}`)
	url := ts.URL
	ts.Close()

	_, err := New(url).Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")
	var ne *NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestEvaluateTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	_, err := New(ts.URL, WithTimeout(50*time.Millisecond)).Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")
	var ne *NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestTimeoutLeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{}

	c := New("http://localhost", WithHTTPClient(shared), WithTimeout(5*time.Second))
	assert.Zero(t, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	c = New("http://localhost", WithTimeout(5*time.Second), WithHTTPClient(shared))
	assert.Zero(t, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	c = New("http://localhost", WithHTTPClient(shared))
	assert.Same(t, shared, c.http)

	assert.Equal(t, DefaultTimeout, New("http://localhost").http.Timeout)
}

func TestEvaluateInFlightGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(entered)
			<-release
		}
		io.WriteString(w, `{"evaluation":{"score":5}}`)
	}))
	defer ts.Close()

	c := New(ts.URL)
	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = c.Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")
	}()

	<-entered
	_, err := c.Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")
	assert.ErrorIs(t, err, ErrEvaluationInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	// The guard is released once the first call returns.
	_, err = c.Evaluate(context.Background(), evaluation.KindWriting, "c", "p", "l")
	assert.NoError(t, err)
}

func TestEvaluateAgainstServer(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"score":88,"grammar":{"assessment":"İyi","errors":[],"examples":[]},"feedback":"Harika"}`)},
		llm.MockResponse{Err: &llm.ErrAuthentication{Err: errors.New("bad key")}},
		llm.MockResponse{Content: json.RawMessage("great job")},
	)
	srv := server.New(config.ServerConfig{Mode: "test"}, evaluation.NewService(mock, nil))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := New(ts.URL)
	w, err := c.EvaluateWriting(context.Background(), "My text", "Write something", "b2")
	require.NoError(t, err)
	assert.Equal(t, 88.0, w.Score)
	assert.Equal(t, "İyi", w.Grammar.Assessment)
	assert.Equal(t, "Harika", w.Feedback)

	_, err = c.EvaluateSpeaking(context.Background(), "transcript", "Talk", "b2")
	var fe *EvaluationFailedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusUnauthorized, fe.Status)
	assert.Equal(t, evaluation.MsgInvalidAPIKey, fe.Message)

	_, err = c.EvaluateWriting(context.Background(), "My text", "Write something", "b2")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Equal(t, evaluation.MsgInvalidFormat, fe.Message)
}
