package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/telespotter/internal/model"
)

// searchEndpoints maps each search engine to its results page.
// DuckDuckGo's html endpoint serves results without JavaScript, which
// is the only variant worth scraping.
var searchEndpoints = map[model.Source]string{
	model.SourceGoogle:     "https://www.google.com/search",
	model.SourceBing:       "https://www.bing.com/search",
	model.SourceDuckDuckGo: "https://html.duckduckgo.com/html/",
}

// maxQueryVariants bounds how many textual forms of the number go into
// one query. The first few variants cover the punctuation styles pages
// actually use; the rest only bloat the URL.
const maxQueryVariants = 4

// SearchEngineClient queries one web search engine for pages that
// mention the phone number in any of its common textual forms.
type SearchEngineClient struct {
	source   model.Source
	endpoint string
	fetcher  *Fetcher
}

// EngineOption configures a SearchEngineClient.
type EngineOption func(*SearchEngineClient)

// WithSearchEndpoint overrides the engine's results URL. Intended for
// tests.
func WithSearchEndpoint(endpoint string) EngineOption {
	return func(c *SearchEngineClient) {
		c.endpoint = endpoint
	}
}

// NewSearchEngineClient creates a client for one search engine source.
func NewSearchEngineClient(src model.Source, f *Fetcher, opts ...EngineOption) (*SearchEngineClient, error) {
	endpoint, ok := searchEndpoints[src]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a search engine", ErrUnsupportedSource, src)
	}
	c := &SearchEngineClient{
		source:   src,
		endpoint: endpoint,
		fetcher:  f,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Source returns the engine this client queries.
func (c *SearchEngineClient) Source() model.Source {
	return c.source
}

// Fetch runs one phrase search and returns the result page's text.
func (c *SearchEngineClient) Fetch(ctx context.Context, phone model.PhoneNumber) (*model.RawResult, error) {
	u := c.endpoint + "?q=" + url.QueryEscape(searchQuery(phone))
	texts, err := c.fetcher.get(ctx, c.source, u)
	if err != nil {
		return nil, err
	}
	return &model.RawResult{Source: c.source, Texts: texts}, nil
}

// searchQuery builds a quoted OR query over the number's textual
// variants, so a page using any punctuation style matches as an exact
// phrase.
func searchQuery(phone model.PhoneNumber) string {
	variants := phone.FormatVariants()
	if len(variants) > maxQueryVariants {
		variants = variants[:maxQueryVariants]
	}
	quoted := make([]string, 0, len(variants))
	for _, v := range variants {
		quoted = append(quoted, `"`+v+`"`)
	}
	return strings.Join(quoted, " OR ")
}

var _ Client = (*SearchEngineClient)(nil)
