// Package fetch retrieves a page (or a local document) and turns its
// paragraph text into a word sequence.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/metcalfc/wrr/internal/reader"
)

// Defaults applied to zero Config fields.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultUserAgent    = "wrr/1.0 (speed reader)"
	DefaultMaxBodyBytes = 10 << 20
)

// ErrNoURL is returned (wrapped in a FetchError) for an empty URL.
var ErrNoURL = errors.New("no URL given")

// FetchError reports why a page could not be turned into words.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config represents fetcher configuration.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher fetches pages over HTTP(S) and reads local documents.
type Fetcher struct {
	config     Config
	httpClient *http.Client

	mu   sync.RWMutex
	last []string
}

// New creates a Fetcher. Zero fields in config take the package defaults.
func New(config Config) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		config:     config,
		httpClient: &http.Client{},
	}
}

// Fetch returns the words of every paragraph at rawURL. Any failure is
// returned as a *FetchError; Fetch never panics.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (words []string, err error) {
	rawURL = strings.TrimSpace(rawURL)
	logger := zlog.With().Str("fetch_id", uuid.NewString()).Str("url", rawURL).Logger()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			words = nil
			err = &FetchError{URL: rawURL, Err: errors.Newf("failed to read page: %v", r)}
		}
		if err != nil {
			logger.Warn().Err(err).Dur("took", time.Since(start)).Msg("Fetch failed")
			return
		}
		logger.Info().Int("words", len(words)).Dur("took", time.Since(start)).Msg("Fetched page")

		f.mu.Lock()
		f.last = words
		f.mu.Unlock()
	}()

	text, err := f.text(ctx, rawURL, logger)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return reader.ParseText(text), nil
}

// Last returns the words of the most recent successful fetch.
func (f *Fetcher) Last() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.last...)
}

func (f *Fetcher) text(ctx context.Context, rawURL string, logger zerolog.Logger) (string, error) {
	if rawURL == "" {
		return "", ErrNoURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid URL")
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.get(ctx, rawURL, logger)
	case "file":
		return reader.ExtractText(u.Path)
	case "":
		if _, statErr := os.Stat(rawURL); statErr == nil {
			return reader.ExtractText(rawURL)
		}
		return "", errors.Newf("invalid URL %q: no scheme supplied, perhaps you meant https://%s", rawURL, rawURL)
	default:
		return "", errors.Newf("unsupported URL scheme %q", u.Scheme)
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string, logger zerolog.Logger) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	logger.Debug().
		Int("status", resp.StatusCode).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("Response received")

	// Error pages are read like any other page.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn().Str("status", statusText(resp)).Msg("Non-success status, reading body anyway")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read page")
	}
	if int64(len(body)) > f.config.MaxBodyBytes {
		body = trimPartial(body[:f.config.MaxBodyBytes])
		logger.Warn().Int64("max_body_bytes", f.config.MaxBodyBytes).Msg("Page truncated")
	}

	text, err := reader.ExtractParagraphs(bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to read page")
	}
	return text, nil
}

// trimPartial cuts a truncated body back to the last tag or whitespace
// boundary so the cut never yields a fragment of a word or a tag.
func trimPartial(body []byte) []byte {
	i := bytes.LastIndexAny(body, "<> \t\n\r\f")
	switch {
	case i < 0:
		return nil
	case body[i] == '<':
		return body[:i]
	default:
		return body[:i+1]
	}
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
