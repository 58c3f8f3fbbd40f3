/*
PURPOSE:
  Query client for the external search endpoint.
  Sends one relevance query per call and parses the ranked result list.

REQUIREMENTS:
  User-specified:
  - Title goes out as the free-text query; every knob as its own parameter.
  - Per-request timeout; exceeding it is a transport failure, not a crash.
  - Non-200 is a protocol failure, distinct from transport failure.
  - An empty JSON array is a valid answer.

  Implementation-discovered:
  - Needs http.Client with timeouts.
  - Records are validated field by field: a record without an integer id
    or a string title makes the whole response a protocol failure.
  - Optional client-side throttling so a sweep cannot flood a dev server.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Tuner), internal/cli (probe)
  - Uses: internal/config, internal/model

ERROR HANDLING:
  - Errors carry model.ErrTransport or model.ErrProtocol marks.
  - No retries. A failed query is reported once and the caller decides.

IMPLEMENTATION RULES:
  - Use net/http.
  - Enforce timeouts through the request context.
  - Stateless across calls apart from immutable configuration.

USAGE:
  c, err := engine.NewClient(cfg)
  records, err := c.Search(ctx, "The Great Escape", params)

SELF-HEALING INSTRUCTIONS:
  - If the search service renames its query parameter, change query_param in config.
*/

package engine

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/model"
)

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 512

// Client queries the search endpoint.
type Client struct {
	endpoint   *url.URL
	queryParam string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client from the run configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "parse endpoint %s", cfg.Endpoint)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout
	if cfg.Concurrency > transport.MaxIdleConnsPerHost {
		transport.MaxIdleConnsPerHost = cfg.Concurrency
	}

	c := &Client{
		endpoint:   u,
		queryParam: cfg.QueryParam,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
	if cfg.MaxQPS > 0 {
		burst := max(1, int(math.Ceil(cfg.MaxQPS)))
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MaxQPS), burst)
	}
	return c, nil
}

// Search runs one query and returns the ranked records, best first.
func (c *Client) Search(ctx context.Context, query string, params model.ParameterSet) ([]model.ResultRecord, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "rate limiter"), model.ErrTransport)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.endpoint
	q := u.Query()
	q.Set(c.queryParam, query)
	params.Encode(q)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Mark(errors.Wrapf(err, "query timed out after %s", c.timeout), model.ErrTransport)
		}
		return nil, errors.Mark(errors.Wrap(err, "network/connection error"), model.ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.Mark(errors.Newf("bad status: %s: %s", resp.Status, snippet(body)), model.ErrProtocol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to read response body"), model.ErrTransport)
	}

	return parseResults(body)
}

// parseResults decodes a JSON array of {id, title} records. Only the top
// record must be well formed; malformed records further down are dropped.
func parseResults(body []byte) ([]model.ResultRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.Mark(errors.Newf("search returned invalid JSON (body: %s)", snippet(body)), model.ErrProtocol)
	}

	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, errors.Mark(errors.Newf("search returned %s, want a JSON array", res.Type), model.ErrProtocol)
	}

	records := []model.ResultRecord{}
	var perr error
	rank := 0
	res.ForEach(func(_, v gjson.Result) bool {
		rec, err := decodeRecord(v)
		switch {
		case err == nil:
			records = append(records, rec)
		case rank == 0:
			perr = errors.Wrap(err, "top record")
			return false
		}
		rank++
		return true
	})
	if perr != nil {
		return nil, errors.Mark(perr, model.ErrProtocol)
	}
	return records, nil
}

func decodeRecord(v gjson.Result) (model.ResultRecord, error) {
	id := v.Get("id")
	title := v.Get("title")
	switch {
	case id.Type != gjson.Number || id.Num != math.Trunc(id.Num):
		return model.ResultRecord{}, errors.New("id missing or not an integer")
	case id.Num < float64(math.MinInt) || id.Num >= float64(math.MaxInt):
		return model.ResultRecord{}, errors.Newf("id %s out of range", id.Raw)
	case title.Type != gjson.String:
		return model.ResultRecord{}, errors.New("title missing or not a string")
	}
	return model.ResultRecord{ID: int(id.Int()), Title: title.Str}, nil
}

func snippet(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
