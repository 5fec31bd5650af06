package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/elo"
)

// endpoints maps match kinds to their single-match routes.
var endpoints = map[service.Kind]string{ //nolint:gochecknoglobals // route table
	service.KindDuel:           "/v1/duel",
	service.KindFreeForAll:     "/v1/free-for-all",
	service.KindTeamMatch:      "/v1/team-match",
	service.KindMultiTeamMatch: "/v1/multi-team-match",
}

// answer is what the server said about one match.
type answer struct {
	Results []elo.Result
	Code    string // error code when the match was refused
	Err     error  // transport or protocol failure
}

type outcomeBody struct {
	MatchID string       `json:"match_id"`
	Results []elo.Result `json:"results"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type batchBody struct {
	Items []struct {
		Results []elo.Result `json:"results"`
		Error   *errorBody   `json:"error"`
	} `json:"items"`
}

// httpClient wraps http.Client with the base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (c *httpClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// health checks GET /healthz.
func (c *httpClient) health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// rate posts one match to its endpoint.
func (c *httpClient) rate(ctx context.Context, req service.Request) answer {
	path, ok := endpoints[req.Kind]
	if !ok {
		return answer{Err: fmt.Errorf("no endpoint for kind %q", req.Kind)}
	}
	status, data, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return answer{Err: err}
	}

	if status != http.StatusOK {
		var e errorBody
		if err := json.Unmarshal(data, &e); err != nil {
			return answer{Err: fmt.Errorf("status %d with unreadable body: %w", status, err)}
		}
		return answer{Code: e.Code}
	}

	var out outcomeBody
	if err := json.Unmarshal(data, &out); err != nil {
		return answer{Err: fmt.Errorf("decode outcome: %w", err)}
	}
	return answer{Results: out.Results}
}

// rateBatch posts reqs to /v1/batch and returns one answer per match.
func (c *httpClient) rateBatch(ctx context.Context, reqs []service.Request) []answer {
	answers := make([]answer, len(reqs))
	fail := func(err error) []answer {
		for i := range answers {
			answers[i].Err = err
		}
		return answers
	}

	status, data, err := c.do(ctx, http.MethodPost, "/v1/batch", map[string]any{"matches": reqs})
	if err != nil {
		return fail(err)
	}
	if status != http.StatusOK {
		return fail(fmt.Errorf("batch returned status %d: %s", status, bytes.TrimSpace(data)))
	}

	var body batchBody
	if err := json.Unmarshal(data, &body); err != nil {
		return fail(fmt.Errorf("decode batch: %w", err))
	}
	if len(body.Items) != len(reqs) {
		return fail(fmt.Errorf("batch returned %d items for %d matches", len(body.Items), len(reqs)))
	}
	for i, item := range body.Items {
		if item.Error != nil {
			answers[i].Code = item.Error.Code
			continue
		}
		answers[i].Results = item.Results
	}
	return answers
}
