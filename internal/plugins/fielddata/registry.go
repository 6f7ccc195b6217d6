// Package fielddata serves auxiliary data for field crews: weather, fuel
// prices, route distances, and calendar feeds. Each data plugin is an
// upstream fetch wrapped in a cache policy: how long a cached payload stays
// fresh and what to do when a live fetch fails.
package fielddata

import (
	"fmt"
	"time"
)

// FallbackStrategy identifies what the service does when a live fetch fails
// and the cache cannot answer.
type FallbackStrategy string

const (
	// FallbackLastCacheOrManual serves the stale cached payload if one
	// exists, otherwise a manually entered org setting.
	FallbackLastCacheOrManual FallbackStrategy = "last_cache_or_manual"

	// FallbackOrgSettingsOrStatic serves an org-configured value,
	// otherwise a built-in static default.
	FallbackOrgSettingsOrStatic FallbackStrategy = "org_settings_or_static"

	// FallbackHaversine computes a great-circle distance locally instead
	// of asking the routing upstream.
	FallbackHaversine FallbackStrategy = "haversine"

	// FallbackNone fails hard: no substitute data is acceptable.
	FallbackNone FallbackStrategy = "none"
)

// Registered plugin keys.
const (
	PluginWeather     = "weather"
	PluginFuel        = "fuel"
	PluginRoute       = "route"
	PluginCalendarICS = "calendar_ics"
)

// Policy is one registry entry: the freshness window and the fallback for
// a plugin key. TTL 0 means never cache, so every request is a live fetch.
type Policy struct {
	TTL      time.Duration
	Fallback FallbackStrategy
}

// registry is the fixed plugin table, built once and never mutated. Weather
// moves hourly, fuel prices daily, road distances essentially never, and a
// calendar feed is only useful live.
var registry = map[string]Policy{
	PluginWeather:     {TTL: time.Hour, Fallback: FallbackLastCacheOrManual},
	PluginFuel:        {TTL: 24 * time.Hour, Fallback: FallbackOrgSettingsOrStatic},
	PluginRoute:       {TTL: 7 * 24 * time.Hour, Fallback: FallbackHaversine},
	PluginCalendarICS: {TTL: 0, Fallback: FallbackNone},
}

// lookupPolicy returns the policy for a plugin key. An unknown key is a
// configuration error, not a data miss.
func lookupPolicy(key string) (Policy, error) {
	policy, ok := registry[key]
	if !ok {
		return Policy{}, fmt.Errorf("unknown field data plugin %q", key)
	}
	return policy, nil
}

// IsExpired reports whether a payload fetched at lastFetched has outlived
// the plugin's TTL. A zero TTL is always expired. Unknown keys error.
func IsExpired(key string, lastFetched time.Time) (bool, error) {
	return isExpiredAt(key, lastFetched, time.Now().UTC())
}

func isExpiredAt(key string, lastFetched time.Time, now time.Time) (bool, error) {
	policy, err := lookupPolicy(key)
	if err != nil {
		return false, err
	}
	if policy.TTL == 0 {
		return true, nil
	}
	return now.Sub(lastFetched) > policy.TTL, nil
}

// ResolveFallback returns the registered fallback strategy for a plugin key.
func ResolveFallback(key string) (FallbackStrategy, error) {
	policy, err := lookupPolicy(key)
	if err != nil {
		return "", err
	}
	return policy.Fallback, nil
}

// PluginKeys lists the registered plugin keys.
func PluginKeys() []string {
	return []string{PluginWeather, PluginFuel, PluginRoute, PluginCalendarICS}
}
