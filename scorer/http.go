package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("codereview.scorer")

const maxResponseBytes = 1 << 20

// HTTPConfig configures a remote model-server scorer.
type HTTPConfig struct {
	// URL receives POST {"text": ...} and answers {"score": <float>}.
	URL string

	// Timeout bounds each HTTP round trip. Default: 30s.
	Timeout time.Duration

	// MaxChars truncates the text before sending. Zero sends everything
	// and leaves windowing to the server.
	MaxChars int
}

// HTTP scores text by calling a model server.
type HTTP struct {
	httpClient *http.Client
	url        string
	maxChars   int
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Score *float64 `json:"score"`
}

// NewHTTP creates an HTTP scorer.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.URL == "" {
		return nil, errors.New("scorer URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTP{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimSuffix(cfg.URL, "/"),
		maxChars:   cfg.MaxChars,
	}, nil
}

// Identity names the endpoint and input window.
func (h *HTTP) Identity() string {
	return fmt.Sprintf("http:%s;max_chars=%d", h.url, h.maxChars)
}

func (h *HTTP) Score(ctx context.Context, text string) (float64, error) {
	ctx, span := tracer.Start(ctx, "HTTPScorer.Score")
	defer span.End()

	text = truncate(text, h.maxChars)
	span.SetAttributes(attribute.Int("scorer.input_bytes", len(text)))

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return 0, fail(span, fmt.Errorf("failed to marshal score request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return 0, fail(span, fmt.Errorf("failed to create score request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, fail(span, fmt.Errorf("score request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, fail(span, fmt.Errorf("failed to read score response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fail(span, fmt.Errorf("scorer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var parsed scoreResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, fail(span, fmt.Errorf("failed to decode score response: %w", err))
	}
	if parsed.Score == nil {
		return 0, fail(span, errors.New("score response has no score"))
	}

	span.SetAttributes(attribute.Float64("scorer.score", *parsed.Score))
	return *parsed.Score, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// truncate cuts text to at most n characters. n <= 0 disables truncation.
func truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
