package fielddata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// FieldDataService resolves a plugin key for an org: fresh cache when
// available, live fetch otherwise, registered fallback when the upstream
// fails.
type FieldDataService interface {
	Get(ctx context.Context, orgID, plugin string, params map[string]string) (*Result, error)
}

type fieldDataService struct {
	cache        *Cache
	fetchers     map[string]Fetcher
	settings     SettingsProvider
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewFieldDataService creates a field data service. fetchers maps plugin
// keys to their upstream fetchers; a registered key with no fetcher can
// still be served from cache and fallback.
func NewFieldDataService(cache *Cache, fetchers map[string]Fetcher, settings SettingsProvider, fetchTimeout time.Duration, logger *slog.Logger) FieldDataService {
	return &fieldDataService{
		cache:        cache,
		fetchers:     fetchers,
		settings:     settings,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *fieldDataService) Get(ctx context.Context, orgID, plugin string, params map[string]string) (*Result, error) {
	policy, err := lookupPolicy(plugin)
	if err != nil {
		return nil, apperror.NewNotFound("unknown field data plugin")
	}

	// Fresh cache wins. A zero-TTL plugin never has a fresh entry, so it
	// always falls through to the live fetch.
	var cached *cachedPayload
	if policy.TTL > 0 {
		cached, err = s.cache.Get(ctx, orgID, plugin)
		if err != nil {
			// A broken cache is not fatal; the live path still works.
			s.logger.Warn("field data cache read failed", "plugin", plugin, "error", err)
			cached = nil
		}
		if cached != nil {
			expired, err := isExpiredAt(plugin, cached.FetchedAt, s.now())
			if err == nil && !expired {
				return &Result{Plugin: plugin, Data: cached.Data, FetchedAt: cached.FetchedAt, Source: SourceCache}, nil
			}
		}
	}

	data, err := s.fetchLive(ctx, orgID, plugin, params)
	if err == nil {
		fetchedAt := s.now()
		if policy.TTL > 0 {
			if cacheErr := s.cache.Put(ctx, orgID, plugin, data, fetchedAt); cacheErr != nil {
				s.logger.Warn("field data cache write failed", "plugin", plugin, "error", cacheErr)
			}
		}
		return &Result{Plugin: plugin, Data: data, FetchedAt: fetchedAt, Source: SourceLive}, nil
	}

	s.logger.Warn("field data fetch failed, applying fallback",
		"plugin", plugin, "fallback", policy.Fallback, "error", err)
	return s.fallback(ctx, orgID, plugin, policy.Fallback, params, cached, err)
}

// fetchLive runs the plugin's fetcher under the configured timeout.
func (s *fieldDataService) fetchLive(ctx context.Context, orgID, plugin string, params map[string]string) (json.RawMessage, error) {
	fetcher, ok := s.fetchers[plugin]
	if !ok {
		return nil, fmt.Errorf("no fetcher for plugin %q", plugin)
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return fetcher.Fetch(ctx, orgID, params)
}

// fallback applies the registered strategy after a failed live fetch.
func (s *fieldDataService) fallback(ctx context.Context, orgID, plugin string, strategy FallbackStrategy, params map[string]string, stale *cachedPayload, fetchErr error) (*Result, error) {
	switch strategy {
	case FallbackLastCacheOrManual:
		if stale != nil {
			return &Result{Plugin: plugin, Data: stale.Data, FetchedAt: stale.FetchedAt, Source: SourceStaleCache}, nil
		}
		if result := s.fromSetting(ctx, orgID, plugin, SettingWeatherManual, SourceManual); result != nil {
			return result, nil
		}
		return nil, apperror.NewUnavailable(fetchErr)

	case FallbackOrgSettingsOrStatic:
		if result := s.fromSetting(ctx, orgID, plugin, SettingFuelPrice, SourceOrgSetting); result != nil {
			return result, nil
		}
		return &Result{Plugin: plugin, Data: staticFuelPayload, FetchedAt: s.now(), Source: SourceStatic}, nil

	case FallbackHaversine:
		data, err := haversinePayload(params)
		if err != nil {
			return nil, err
		}
		return &Result{Plugin: plugin, Data: data, FetchedAt: s.now(), Source: SourceComputed}, nil

	case FallbackNone:
		return nil, apperror.NewUnavailable(fetchErr)

	default:
		return nil, apperror.NewInternal(fmt.Errorf("unknown fallback strategy %q", strategy))
	}
}

// fromSetting serves an org setting as a payload. The stored value is used
// verbatim when it is valid JSON and wrapped as a JSON string otherwise.
// Returns nil when the setting is absent or unreadable.
func (s *fieldDataService) fromSetting(ctx context.Context, orgID, plugin, key, source string) *Result {
	value, found, err := s.settings.Value(ctx, orgID, key)
	if err != nil || !found {
		return nil
	}

	data := json.RawMessage(value)
	if !json.Valid(data) {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		data = encoded
	}
	return &Result{Plugin: plugin, Data: data, FetchedAt: s.now(), Source: source}
}

// staticFuelPayload is the built-in last resort for fuel prices when the
// upstream is down and the org never configured a manual price.
var staticFuelPayload = json.RawMessage(`{"price_per_liter":1.80,"currency":"EUR","note":"static default"}`)

// haversinePayload computes the local route substitute from from/to
// coordinates in the request params.
func haversinePayload(params map[string]string) (json.RawMessage, error) {
	coords := make(map[string]float64, 4)
	for _, key := range []string{"from_lat", "from_lon", "to_lat", "to_lon"} {
		raw, ok := params[key]
		if !ok {
			return nil, apperror.NewBadRequest("missing coordinate parameter " + key)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperror.NewBadRequest("invalid coordinate parameter " + key)
		}
		coords[key] = value
	}

	distance := Haversine(coords["from_lat"], coords["from_lon"], coords["to_lat"], coords["to_lon"])
	payload := struct {
		DistanceKm float64 `json:"distance_km"`
		Method     string  `json:"method"`
	}{DistanceKm: distance, Method: "haversine"}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return data, nil
}
