package ssb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eivindmo/statbank/internal/frame"
	"github.com/eivindmo/statbank/internal/jsonstat"
)

const (
	// DefaultBaseURL is Statistics Norway's Statbank API root.
	DefaultBaseURL = "https://data.ssb.no/api/v0"

	defaultUserAgent = "statbank/0.1"
	defaultTimeout   = 15 * time.Second
)

// Client talks to the Statbank HTTP API. It is safe for concurrent use;
// the resolve cache is the only mutable state and is mutex-guarded.
type Client struct {
	baseURL   string
	lang      Language
	http      *http.Client
	userAgent string

	mu       sync.Mutex
	resolved map[string]*Table
}

// NewClient builds a Client for the given API root and language. An
// empty baseURL uses the provider default; a zero timeout uses 15s.
func NewClient(baseURL string, lang Language, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !lang.Valid() {
		return nil, fmt.Errorf("unsupported language %q (want %q or %q)", lang, LanguageEN, LanguageNO)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   trimmed,
		lang:      lang,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		resolved:  make(map[string]*Table),
	}, nil
}

// Language returns the locale the client queries in.
func (c *Client) Language() Language { return c.lang }

// PadTableID normalizes a table identifier to the provider's
// fixed-width form: 4-digit ids gain a leading zero, 5-digit ids pass
// through. Input that is not an integer fails with InvalidTableIDError.
func PadTableID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return "", &InvalidTableIDError{Input: id}
	}
	s := strconv.Itoa(n)
	if len(s) == 4 {
		s = "0" + s
	}
	return s, nil
}

// Search queries the table list for a free-text phrase. Zero matches
// yield ErrNoResults so callers can tell "nothing found" from a failed
// lookup.
func (c *Client) Search(ctx context.Context, phrase string) ([]TableSummary, error) {
	searchURL := fmt.Sprintf("%s/%s/table/?query=%s", c.baseURL, c.lang, EncodePhrase(phrase))

	var entries []tableListEntry
	if err := c.getJSON(ctx, searchURL, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoResults
	}

	tables := make([]TableSummary, 0, len(entries))
	for _, e := range entries {
		tables = append(tables, splitTitle(e.Title))
	}
	return tables, nil
}

// Resolve fetches the variable metadata for a table and returns it as a
// Table value. Results are cached per padded id, so resolving the same
// table again within one client costs no network round-trip. The cached
// metadata URL is the one later data fetches must POST to.
func (c *Client) Resolve(ctx context.Context, tableID string) (*Table, error) {
	padded, err := PadTableID(tableID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if t, ok := c.resolved[padded]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	metadataURL := fmt.Sprintf("%s/%s/table/%s", c.baseURL, c.lang, padded)
	var meta tableMetadata
	if err := c.getJSON(ctx, metadataURL, &meta); err != nil {
		return nil, err
	}

	table := &Table{
		ID:          padded,
		Title:       meta.Title,
		MetadataURL: metadataURL,
		Variables:   meta.Variables,
	}

	c.mu.Lock()
	c.resolved[padded] = table
	c.mu.Unlock()
	return table, nil
}

// Fetch validates the selections, POSTs the query document to the
// table's metadata URL and decodes the json-stat response into a frame.
// It returns the frame and the dataset's human-readable label. An empty
// valueColumn defaults to "value".
func (c *Client) Fetch(ctx context.Context, table *Table, selections []Selection, valueColumn string) (*frame.Frame, string, error) {
	if err := checkComplete(table, selections); err != nil {
		return nil, "", err
	}

	query := BuildQuery(table, selections)
	body, err := json.Marshal(query)
	if err != nil {
		return nil, "", fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, table.MetadataURL, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &TransportError{Op: "POST", URL: table.MetadataURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		detail := readDetail(resp.Body)
		return nil, "", fmt.Errorf("%w: status %d: %s", ErrSelectionRequired, resp.StatusCode, detail)
	}
	if resp.StatusCode >= 500 {
		return nil, "", &TransportError{
			Op:  "POST",
			URL: table.MetadataURL,
			Err: fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Op: "POST", URL: table.MetadataURL, Err: err}
	}

	dataset, err := jsonstat.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode data response: %w", err)
	}
	return dataset.Frame(valueColumn), dataset.Label, nil
}

// checkComplete rejects selections that leave a mandatory variable
// empty. Variables with elimination=true may be omitted; the provider
// aggregates them away.
func checkComplete(table *Table, selections []Selection) error {
	chosen := make(map[string]int, len(selections))
	for _, sel := range selections {
		chosen[sel.Code] = len(sel.Values)
	}

	var missing []string
	for _, v := range table.Variables {
		if v.Elimination {
			continue
		}
		if chosen[v.Code] == 0 {
			missing = append(missing, v.Code)
		}
	}
	if len(missing) > 0 {
		return &IncompleteSelectionError{Missing: missing}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: "GET", URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &TransportError{
			Op:  "GET",
			URL: rawURL,
			Err: fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return "(unreadable response body)"
	}
	detail := strings.TrimSpace(string(data))
	if detail == "" {
		return "(empty response body)"
	}
	return detail
}
