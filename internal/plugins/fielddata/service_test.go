package fielddata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// --- Mocks ---

// mockFetcher implements Fetcher with a scripted response, counting calls.
type mockFetcher struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (m *mockFetcher) Fetch(ctx context.Context, orgID string, params map[string]string) (json.RawMessage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

// mockSettings implements SettingsProvider over a plain map.
type mockSettings struct {
	values map[string]string
}

func (m *mockSettings) Value(ctx context.Context, orgID, key string) (string, bool, error) {
	v, ok := m.values[orgID+"/"+key]
	return v, ok, nil
}

func newTestService(t *testing.T, fetchers map[string]Fetcher, settings *mockSettings) (FieldDataService, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client)
	if settings == nil {
		settings = &mockSettings{values: map[string]string{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFieldDataService(cache, fetchers, settings, time.Second, logger), cache
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != code {
		t.Errorf("expected status %d, got %d", code, appErr.Code)
	}
}

// --- Tests ---

func TestGetServesFreshCacheWithoutFetching(t *testing.T) {
	fetcher := &mockFetcher{payload: json.RawMessage(`{"temp":21}`)}
	svc, cache := newTestService(t, map[string]Fetcher{PluginWeather: fetcher}, nil)

	payload := json.RawMessage(`{"temp":18}`)
	if err := cache.Put(context.Background(), "org-1", PluginWeather, payload, time.Now().UTC().Add(-10*time.Minute)); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	result, err := svc.Get(context.Background(), "org-1", PluginWeather, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Source != SourceCache {
		t.Errorf("expected source %q, got %q", SourceCache, result.Source)
	}
	if string(result.Data) != `{"temp":18}` {
		t.Errorf("expected cached payload, got %s", result.Data)
	}
	if fetcher.calls != 0 {
		t.Errorf("fresh cache must not trigger a fetch, got %d calls", fetcher.calls)
	}
}

func TestGetRefreshesStaleCache(t *testing.T) {
	fetcher := &mockFetcher{payload: json.RawMessage(`{"temp":21}`)}
	svc, cache := newTestService(t, map[string]Fetcher{PluginWeather: fetcher}, nil)

	if err := cache.Put(context.Background(), "org-1", PluginWeather, json.RawMessage(`{"temp":5}`), time.Now().UTC().Add(-3*time.Hour)); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	result, err := svc.Get(context.Background(), "org-1", PluginWeather, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Source != SourceLive {
		t.Errorf("expected source %q, got %q", SourceLive, result.Source)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected exactly one fetch, got %d", fetcher.calls)
	}

	// The fresh payload was written back.
	cached, err := cache.Get(context.Background(), "org-1", PluginWeather)
	if err != nil || cached == nil {
		t.Fatalf("expected recached payload, got %v, %v", cached, err)
	}
	if string(cached.Data) != `{"temp":21}` {
		t.Errorf("expected recached live payload, got %s", cached.Data)
	}
}

func TestWeatherFallbackPrefersStaleCache(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}
	svc, cache := newTestService(t, map[string]Fetcher{PluginWeather: fetcher}, nil)

	stale := json.RawMessage(`{"temp":5}`)
	if err := cache.Put(context.Background(), "org-1", PluginWeather, stale, time.Now().UTC().Add(-3*time.Hour)); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	result, err := svc.Get(context.Background(), "org-1", PluginWeather, nil)
	if err != nil {
		t.Fatalf("expected stale fallback, got %v", err)
	}
	if result.Source != SourceStaleCache {
		t.Errorf("expected source %q, got %q", SourceStaleCache, result.Source)
	}
	if string(result.Data) != string(stale) {
		t.Errorf("expected stale payload, got %s", result.Data)
	}
}

func TestWeatherFallbackManualThenUnavailable(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}

	// With a manual org value, fallback serves it.
	settings := &mockSettings{values: map[string]string{
		"org-1/" + SettingWeatherManual: `{"temp":12,"entered_by":"dispatcher"}`,
	}}
	svc, _ := newTestService(t, map[string]Fetcher{PluginWeather: fetcher}, settings)

	result, err := svc.Get(context.Background(), "org-1", PluginWeather, nil)
	if err != nil {
		t.Fatalf("expected manual fallback, got %v", err)
	}
	if result.Source != SourceManual {
		t.Errorf("expected source %q, got %q", SourceManual, result.Source)
	}

	// Without cache or manual value, the failure surfaces as a 503.
	svc2, _ := newTestService(t, map[string]Fetcher{PluginWeather: fetcher}, nil)
	_, err = svc2.Get(context.Background(), "org-1", PluginWeather, nil)
	assertCode(t, err, http.StatusServiceUnavailable)
}

func TestFuelFallbackOrgSettingThenStatic(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}

	settings := &mockSettings{values: map[string]string{
		"org-1/" + SettingFuelPrice: `{"price_per_liter":1.62}`,
	}}
	svc, _ := newTestService(t, map[string]Fetcher{PluginFuel: fetcher}, settings)

	result, err := svc.Get(context.Background(), "org-1", PluginFuel, nil)
	if err != nil {
		t.Fatalf("expected org setting fallback, got %v", err)
	}
	if result.Source != SourceOrgSetting {
		t.Errorf("expected source %q, got %q", SourceOrgSetting, result.Source)
	}

	// An org without a configured price gets the static default.
	result, err = svc.Get(context.Background(), "org-2", PluginFuel, nil)
	if err != nil {
		t.Fatalf("expected static fallback, got %v", err)
	}
	if result.Source != SourceStatic {
		t.Errorf("expected source %q, got %q", SourceStatic, result.Source)
	}
}

func TestRouteFallbackComputesHaversine(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("router down")}
	svc, _ := newTestService(t, map[string]Fetcher{PluginRoute: fetcher}, nil)

	params := map[string]string{
		"from_lat": "52.5200", "from_lon": "13.4050",
		"to_lat": "48.1351", "to_lon": "11.5820",
	}
	result, err := svc.Get(context.Background(), "org-1", PluginRoute, params)
	if err != nil {
		t.Fatalf("expected computed fallback, got %v", err)
	}
	if result.Source != SourceComputed {
		t.Errorf("expected source %q, got %q", SourceComputed, result.Source)
	}

	var payload struct {
		DistanceKm float64 `json:"distance_km"`
		Method     string  `json:"method"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		t.Fatalf("unmarshaling computed payload: %v", err)
	}
	if payload.Method != "haversine" || payload.DistanceKm < 450 || payload.DistanceKm > 550 {
		t.Errorf("unexpected computed payload: %+v", payload)
	}

	// Missing coordinates cannot be computed around.
	_, err = svc.Get(context.Background(), "org-1", PluginRoute, map[string]string{"from_lat": "52.5"})
	assertCode(t, err, http.StatusBadRequest)
}

func TestCalendarNeverCachesAndFailsHard(t *testing.T) {
	fetcher := &mockFetcher{payload: json.RawMessage(`"BEGIN:VCALENDAR"`)}
	svc, cache := newTestService(t, map[string]Fetcher{PluginCalendarICS: fetcher}, nil)

	for i := 0; i < 3; i++ {
		result, err := svc.Get(context.Background(), "org-1", PluginCalendarICS, nil)
		if err != nil {
			t.Fatalf("expected live fetch, got %v", err)
		}
		if result.Source != SourceLive {
			t.Errorf("expected source %q, got %q", SourceLive, result.Source)
		}
	}
	if fetcher.calls != 3 {
		t.Errorf("every calendar request must fetch live, got %d calls", fetcher.calls)
	}

	if cached, _ := cache.Get(context.Background(), "org-1", PluginCalendarICS); cached != nil {
		t.Error("calendar payloads must never be cached")
	}

	// No fallback: upstream failure is the caller's problem.
	fetcher.err = errors.New("feed down")
	_, err := svc.Get(context.Background(), "org-1", PluginCalendarICS, nil)
	assertCode(t, err, http.StatusServiceUnavailable)
}

func TestGetUnknownPlugin(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	_, err := svc.Get(context.Background(), "org-1", "tide_tables", nil)
	assertCode(t, err, http.StatusNotFound)
}
