package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nao1215/telespotter/internal/model"
)

// peopleEndpoints maps each people-search site to its base URL.
var peopleEndpoints = map[model.Source]string{
	model.SourceWhitepages:       "https://www.whitepages.com",
	model.SourceTruePeopleSearch: "https://www.truepeoplesearch.com",
	model.SourceFastPeopleSearch: "https://www.fastpeoplesearch.com",
	model.SourceSpokeo:           "https://www.spokeo.com",
	model.SourceBeenVerified:     "https://www.beenverified.com",
}

// PeopleSearchClient queries one people-search site's reverse phone
// lookup page.
type PeopleSearchClient struct {
	source  model.Source
	baseURL string
	fetcher *Fetcher
}

// PeopleOption configures a PeopleSearchClient.
type PeopleOption func(*PeopleSearchClient)

// WithPeopleBaseURL overrides the site's base URL. Intended for tests.
func WithPeopleBaseURL(baseURL string) PeopleOption {
	return func(c *PeopleSearchClient) {
		c.baseURL = baseURL
	}
}

// NewPeopleSearchClient creates a client for one people-search source.
func NewPeopleSearchClient(src model.Source, f *Fetcher, opts ...PeopleOption) (*PeopleSearchClient, error) {
	baseURL, ok := peopleEndpoints[src]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a people-search site", ErrUnsupportedSource, src)
	}
	c := &PeopleSearchClient{
		source:  src,
		baseURL: baseURL,
		fetcher: f,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Source returns the site this client queries.
func (c *PeopleSearchClient) Source() model.Source {
	return c.source
}

// Fetch loads the site's reverse lookup page for the number and returns
// its text.
func (c *PeopleSearchClient) Fetch(ctx context.Context, phone model.PhoneNumber) (*model.RawResult, error) {
	u := c.baseURL + lookupPath(c.source, phone)
	texts, err := c.fetcher.get(ctx, c.source, u)
	if err != nil {
		return nil, err
	}
	return &model.RawResult{Source: c.source, Texts: texts}, nil
}

// lookupPath builds the site-specific reverse lookup path. Each site
// has its own URL shape; the shapes below match what the sites serve
// for direct navigation.
func lookupPath(src model.Source, phone model.PhoneNumber) string {
	national := phone.National()
	dashed := national
	if len(national) == 10 {
		dashed = national[:3] + "-" + national[3:6] + "-" + national[6:]
	}

	switch src {
	case model.SourceWhitepages:
		return "/phone/1-" + dashed
	case model.SourceTruePeopleSearch:
		return "/resultphone?phoneno=" + url.QueryEscape(dashed)
	case model.SourceFastPeopleSearch:
		return "/" + dashed
	case model.SourceSpokeo:
		return "/search?q=" + url.QueryEscape(national)
	case model.SourceBeenVerified:
		return "/phone/" + national
	default:
		return "/" + national
	}
}

var _ Client = (*PeopleSearchClient)(nil)
