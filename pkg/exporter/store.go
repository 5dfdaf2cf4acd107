package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
)

// Store is a remote timeseries backend. Encode must be pure so a dry run can
// print exactly what Write would have been given.
type Store interface {
	// Encode returns the request body carrying every sample of one series.
	Encode(name string, series ledgermetrics.Series) ([]byte, error)
	// DeleteSeries removes every series with the metric name.
	DeleteSeries(ctx context.Context, name string) error
	// Write sends a body produced by Encode.
	Write(ctx context.Context, body []byte) error
	// ResetCache is called once after a full export.
	ResetCache(ctx context.Context) error
}

// StatusError is returned for any non 2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

const maxErrorBody = 512

func doRequest(ctx context.Context, client *http.Client, method, url, contentType string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rs, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s %s: %w", method, url, err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(rs.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: rs.StatusCode,
			Body:       string(excerpt),
		}
	}

	_, err = io.Copy(io.Discard, rs.Body)
	return err
}
