// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref queries the CrossRef works API for bibliographic metadata.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/citecheck/internal/httputil"
	"github.com/pdiddy/citecheck/pkg/types"
)

// crossrefAPIBase is a var so tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// ErrNotFound is returned when CrossRef has no record for a DOI or query.
var ErrNotFound = errors.New("no CrossRef record found")

const (
	defaultTimeout           = 15 * time.Second
	defaultRequestsPerSecond = 5.0
	defaultUserAgent         = "citecheck/0.1"

	// DefaultSuggestions is the number of DOI suggestions returned when the
	// caller passes a non-positive limit.
	DefaultSuggestions = 5
)

// Client is a throttled CrossRef client. It is safe for concurrent use.
type Client struct {
	HTTP       *http.Client
	Mailto     string
	UserAgent  string
	MaxRetries int

	limiter *rate.Limiter
}

// New builds a Client from cfg, applying defaults for zero values.
func New(cfg types.CrossRefConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		Mailto:     cfg.Mailto,
		UserAgent:  ua,
		MaxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Suggestion is a DOI autocomplete candidate.
type Suggestion struct {
	DOI     string `json:"doi" yaml:"doi"`
	Title   string `json:"title" yaml:"title"`
	Year    string `json:"year" yaml:"year"`
	Authors string `json:"authors" yaml:"authors"`
}

// CrossRef API JSON structures.
type workResponse struct {
	Message work `json:"message"`
}

type listResponse struct {
	Message struct {
		Items []work `json:"items"`
	} `json:"message"`
}

type work struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	Publisher      string   `json:"publisher"`
	Author         []author `json:"author"`
	Issued         date     `json:"issued"`
}

type author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type date struct {
	DateParts [][]*int `json:"date-parts"`
}

// LookupDOI fetches the metadata registered for doi.
func (c *Client) LookupDOI(ctx context.Context, doi string) (types.WorkMetadata, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return types.WorkMetadata{}, errors.New("looking up DOI: empty DOI")
	}

	var wr workResponse
	if err := c.get(ctx, crossrefAPIBase+"/"+doi, nil, &wr); err != nil {
		return types.WorkMetadata{}, fmt.Errorf("looking up DOI %s: %w", doi, err)
	}
	meta := wr.Message.metadata()
	meta.DOI = doi
	return meta, nil
}

// SearchTitle returns the best bibliographic match for title.
func (c *Client) SearchTitle(ctx context.Context, title string) (types.WorkMetadata, error) {
	q := url.Values{"query.bibliographic": {title}, "rows": {"1"}}
	var lr listResponse
	if err := c.get(ctx, crossrefAPIBase, q, &lr); err != nil {
		return types.WorkMetadata{}, fmt.Errorf("searching title: %w", err)
	}
	if len(lr.Message.Items) == 0 {
		return types.WorkMetadata{}, fmt.Errorf("searching title %q: %w", title, ErrNotFound)
	}
	return lr.Message.Items[0].metadata(), nil
}

// SearchKeywords returns up to limit works matching a free-text query.
func (c *Client) SearchKeywords(ctx context.Context, query string, limit int) ([]types.WorkMetadata, error) {
	if limit <= 0 {
		limit = 3
	}
	q := url.Values{"query": {query}, "rows": {strconv.Itoa(limit)}}
	var lr listResponse
	if err := c.get(ctx, crossrefAPIBase, q, &lr); err != nil {
		return nil, fmt.Errorf("searching keywords: %w", err)
	}
	metas := make([]types.WorkMetadata, 0, len(lr.Message.Items))
	for _, w := range lr.Message.Items {
		metas = append(metas, w.metadata())
	}
	return metas, nil
}

// SuggestDOI returns autocomplete candidates for a partial DOI or query.
// An empty prefix yields no suggestions and no request.
func (c *Client) SuggestDOI(ctx context.Context, prefix string, limit int) ([]Suggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	}
	q := url.Values{"query": {prefix}, "rows": {strconv.Itoa(limit)}}
	var lr listResponse
	if err := c.get(ctx, crossrefAPIBase, q, &lr); err != nil {
		return nil, fmt.Errorf("suggesting DOI: %w", err)
	}

	out := make([]Suggestion, 0, len(lr.Message.Items))
	for _, w := range lr.Message.Items {
		var families []string
		for i, a := range w.Author {
			if i == 2 {
				break
			}
			families = append(families, a.Family)
		}
		title := "N/A"
		if len(w.Title) > 0 {
			title = w.Title[0]
		}
		out = append(out, Suggestion{
			DOI:     w.DOI,
			Title:   title,
			Year:    w.Issued.year(),
			Authors: strings.Join(families, ", "),
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, into any) error {
	if c.Mailto != "" {
		if q == nil {
			q = url.Values{}
		}
		q.Set("mailto", c.Mailto)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("parsing CrossRef response: %w", err)
	}
	return nil
}

func (w work) metadata() types.WorkMetadata {
	meta := types.WorkMetadata{
		DOI:       w.DOI,
		Year:      w.Issued.year(),
		Publisher: w.Publisher,
		Authors:   []string{},
	}
	if len(w.Title) > 0 {
		meta.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		meta.Journal = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		if name := a.display(); name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}
	return meta
}

// display renders "Family, Given". Organisations carry only a name.
func (a author) display() string {
	switch {
	case a.Family != "" && a.Given != "":
		return a.Family + ", " + a.Given
	case a.Family != "":
		return a.Family
	case a.Given != "":
		return a.Given
	default:
		return strings.TrimSpace(a.Name)
	}
}

func (d date) year() string {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] == nil {
		return ""
	}
	return strconv.Itoa(*d.DateParts[0][0])
}
