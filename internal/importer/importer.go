// Package importer downloads contact records from a remote JSON endpoint.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

var (
	ErrNotArray     = errors.New("response body is not a JSON array")
	ErrTrailingData = errors.New("response body has data after the JSON array")
)

// Record is one element of the remote array after coercion. Nil fields were
// missing, null, non-scalar or blank.
type Record struct {
	Name  *string
	Phone *string
	Email *string
}

func (r Record) NameValue() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

func (r Record) PhoneValue() string {
	if r.Phone == nil {
		return ""
	}
	return *r.Phone
}

func (r Record) EmailValue() string {
	if r.Email == nil {
		return ""
	}
	return *r.Email
}

// FetchError covers network, HTTP status and body shape failures.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("fetching %s failed", e.URL)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Client fetches import payloads.
type Client struct {
	HTTP *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// Fetch GETs url and decodes the body into records, in source order.
func (c *Client) Fetch(ctx context.Context, url string) ([]Record, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("fetching import payload", "url", url)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}

	records, err := Parse(body)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}

	slog.Debug("import payload decoded", "url", url, "records", len(records))

	return records, nil
}

// Parse decodes a JSON array of contact-like objects.
func Parse(body []byte) ([]Record, error) {
	var items []json.RawMessage

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var probe json.RawMessage
	if err := decoder.Decode(&probe); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	trimmed := bytes.TrimSpace(probe)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decoding array: %w", err)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, parseRecord(item))
	}

	return records, nil
}

func parseRecord(raw json.RawMessage) Record {
	var fields map[string]json.RawMessage

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil || fields == nil {
		return Record{}
	}

	return Record{
		Name:  coerce(fields["name"]),
		Phone: coerce(fields["phone"]),
		Email: coerce(fields["email"]),
	}
}

// coerce turns a JSON scalar into trimmed text. Strings are used as is,
// numbers keep their literal form, booleans become "true"/"false".
func coerce(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil
	}

	var text string
	switch v := value.(type) {
	case string:
		text = v
	case json.Number:
		text = v.String()
	case bool:
		if v {
			text = "true"
		} else {
			text = "false"
		}
	default:
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}
