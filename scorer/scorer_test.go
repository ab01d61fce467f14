package scorer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TFMV/codereview/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStatic(t *testing.T) {
	s := scorer.Static(0.42)
	got, err := s.Score(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 0.42, got)
}

func TestFunc(t *testing.T) {
	s := scorer.Func(func(ctx context.Context, text string) (float64, error) {
		return float64(len(text)) / 10, nil
	})
	got, err := s.Score(context.Background(), "abcde")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
}

func TestWithTimeout(t *testing.T) {
	slow := scorer.Func(func(ctx context.Context, text string) (float64, error) {
		time.Sleep(200 * time.Millisecond)
		return 0.1, nil
	})

	_, err := scorer.WithTimeout(slow, 10*time.Millisecond).Score(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeout_PassesThrough(t *testing.T) {
	fails := scorer.Func(func(ctx context.Context, text string) (float64, error) {
		return 0, errors.New("model offline")
	})

	_, err := scorer.WithTimeout(fails, time.Second).Score(context.Background(), "x")
	assert.EqualError(t, err, "model offline")

	got, err := scorer.WithTimeout(scorer.Static(0.3), time.Second).Score(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 0.3, got)

	assert.Equal(t, scorer.Static(0.3), scorer.WithTimeout(scorer.Static(0.3), 0))
}

func TestNewHTTP_RequiresURL(t *testing.T) {
	_, err := scorer.NewHTTP(scorer.HTTPConfig{})
	assert.Error(t, err)
}

func TestHTTP_Score(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received = req.Text

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score": 0.81}`))
	}))
	defer srv.Close()

	s, err := scorer.NewHTTP(scorer.HTTPConfig{URL: srv.URL})
	require.NoError(t, err)

	got, err := s.Score(context.Background(), "def foo():\n    pass\n")
	require.NoError(t, err)
	assert.Equal(t, 0.81, got)
	assert.Equal(t, "def foo():\n    pass\n", received)
}

func TestHTTP_Truncates(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		received = req.Text
		_, _ = w.Write([]byte(`{"score": 0.5}`))
	}))
	defer srv.Close()

	s, err := scorer.NewHTTP(scorer.HTTPConfig{URL: srv.URL, MaxChars: 3})
	require.NoError(t, err)

	_, err = s.Score(context.Background(), "héllo")
	require.NoError(t, err)
	assert.Equal(t, "hél", received)
}

func TestHTTP_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "model crashed", wantErr: "status 500"},
		{name: "bad json", status: http.StatusOK, body: "not json", wantErr: "decode"},
		{name: "missing score", status: http.StatusOK, body: `{"label": "complex"}`, wantErr: "no score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := scorer.NewHTTP(scorer.HTTPConfig{URL: srv.URL})
			require.NoError(t, err)

			_, err = s.Score(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTP_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s, err := scorer.NewHTTP(scorer.HTTPConfig{URL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = s.Score(context.Background(), "x")
	assert.Error(t, err)
}

func TestHTTP_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s, err := scorer.NewHTTP(scorer.HTTPConfig{URL: srv.URL})
	require.NoError(t, err)

	_, err = s.Score(context.Background(), "x")
	require.Error(t, err)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	last := spans[len(spans)-1]
	assert.Equal(t, "HTTPScorer.Score", last.Name())
	assert.Equal(t, codes.Error, last.Status().Code)
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "static:0.5", scorer.Static(0.5).Identity())

	remote, err := scorer.NewHTTP(scorer.HTTPConfig{URL: "http://model:9000/score/", MaxChars: 512})
	require.NoError(t, err)
	assert.Equal(t, "http:http://model:9000/score;max_chars=512", remote.Identity())

	wrapped := scorer.WithTimeout(remote, time.Second).(interface{ Identity() string })
	assert.Equal(t, remote.Identity(), wrapped.Identity())
}
