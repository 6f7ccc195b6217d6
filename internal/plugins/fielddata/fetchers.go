package fielddata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxPayloadBytes caps what we accept from an upstream before parsing.
const maxPayloadBytes = 1 << 20

// HTTPFetcher fetches a plugin payload from an upstream HTTP endpoint. The
// buildURL hook turns the org and request params into the final URL, which
// keeps one fetcher implementation for every HTTP-backed plugin.
type HTTPFetcher struct {
	client   *http.Client
	buildURL func(ctx context.Context, orgID string, params map[string]string) (string, error)
	rawBody  bool // serve the body as a JSON string instead of parsing it
}

func (f *HTTPFetcher) Fetch(ctx context.Context, orgID string, params map[string]string) (json.RawMessage, error) {
	target, err := f.buildURL(ctx, orgID, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	if f.rawBody {
		encoded, err := json.Marshal(string(body))
		if err != nil {
			return nil, fmt.Errorf("encoding upstream body: %w", err)
		}
		return encoded, nil
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("upstream returned invalid JSON")
	}
	return body, nil
}

// NewWeatherFetcher fetches current conditions for the coordinates in the
// request params.
func NewWeatherFetcher(client *http.Client, baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		client: client,
		buildURL: func(_ context.Context, _ string, params map[string]string) (string, error) {
			lat, lon := params["lat"], params["lon"]
			if lat == "" || lon == "" {
				return "", fmt.Errorf("weather fetch requires lat and lon")
			}
			q := url.Values{}
			q.Set("latitude", lat)
			q.Set("longitude", lon)
			q.Set("current_weather", "true")
			return baseURL + "?" + q.Encode(), nil
		},
	}
}

// NewFuelFetcher fetches the regional fuel price feed.
func NewFuelFetcher(client *http.Client, baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		client: client,
		buildURL: func(_ context.Context, _ string, params map[string]string) (string, error) {
			q := url.Values{}
			if region := params["region"]; region != "" {
				q.Set("region", region)
			}
			if len(q) == 0 {
				return baseURL, nil
			}
			return baseURL + "?" + q.Encode(), nil
		},
	}
}

// NewRouteFetcher fetches a driving route between two coordinate pairs.
func NewRouteFetcher(client *http.Client, baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		client: client,
		buildURL: func(_ context.Context, _ string, params map[string]string) (string, error) {
			for _, key := range []string{"from_lat", "from_lon", "to_lat", "to_lon"} {
				if params[key] == "" {
					return "", fmt.Errorf("route fetch requires %s", key)
				}
			}
			// Coordinate path in lon,lat order.
			return fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=false",
				baseURL, params["from_lon"], params["from_lat"], params["to_lon"], params["to_lat"]), nil
		},
	}
}

// NewCalendarICSFetcher fetches the org's configured ICS feed. The feed URL
// lives in org settings; an org without one configured has no calendar.
func NewCalendarICSFetcher(client *http.Client, settings SettingsProvider) *HTTPFetcher {
	return &HTTPFetcher{
		client:  client,
		rawBody: true,
		buildURL: func(ctx context.Context, orgID string, _ map[string]string) (string, error) {
			feedURL, found, err := settings.Value(ctx, orgID, SettingCalendarURL)
			if err != nil {
				return "", fmt.Errorf("reading calendar feed setting: %w", err)
			}
			if !found || feedURL == "" {
				return "", fmt.Errorf("no calendar feed configured")
			}
			return feedURL, nil
		},
	}
}
