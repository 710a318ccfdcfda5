package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.aladhan.com/v1"
	userAgent      = "jadwal-sholat"
)

// Client communicates with the Al Adhan prayer times API directly.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchTimings fetches prayer times for the given date and coordinates.
// A negative method lets the API choose one for the location.
func (c *Client) FetchTimings(ctx context.Context, date time.Time, lat, lon float64, method int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))
	return doRequest(ctx, c.httpClient, endpoint, coordinateParams(lat, lon, method))
}

// ProxyClient calls the same-origin /prayer-times proxy served by `jadwal-sholat serve`.
type ProxyClient struct {
	httpClient *http.Client
	// BaseURL is the proxy API root, e.g. "http://localhost:8080/api".
	BaseURL string
}

// NewProxyClient creates a client for the proxy rooted at baseURL.
func NewProxyClient(baseURL string) *ProxyClient {
	return &ProxyClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: baseURL,
	}
}

// FetchTimings issues GET {base}/prayer-times?date=D-M-YYYY&latitude=..&longitude=..&method=..
func (c *ProxyClient) FetchTimings(ctx context.Context, date time.Time, lat, lon float64, method int) (*Response, error) {
	params := coordinateParams(lat, lon, method)
	params.Set("date", ProxyDate(date))
	return doRequest(ctx, c.httpClient, c.BaseURL+"/prayer-times", params)
}

// ProxyDate formats a date the way the proxy expects it: D-M-YYYY, unpadded.
func ProxyDate(date time.Time) string {
	return date.Format("2-1-2006")
}

// ParseProxyDate parses the D-M-YYYY form accepted by the proxy.
// Zero-padded days and months are accepted too.
func ParseProxyDate(s string) (time.Time, error) {
	t, err := time.Parse("2-1-2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want D-M-YYYY", s)
	}
	return t, nil
}

func coordinateParams(lat, lon float64, method int) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))
	if method >= 0 {
		params.Set("method", strconv.Itoa(method))
	}
	return params
}

func doRequest(ctx context.Context, hc *http.Client, endpoint string, params url.Values) (*Response, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	if !apiResp.OK() {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	return &apiResp, nil
}
