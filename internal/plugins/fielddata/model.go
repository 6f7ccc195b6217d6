package fielddata

import (
	"context"
	"encoding/json"
	"time"
)

// Result sources, reported so clients can tell live data from substitutes.
const (
	SourceLive       = "live"
	SourceCache      = "cache"
	SourceStaleCache = "stale_cache"
	SourceManual     = "manual"
	SourceOrgSetting = "org_setting"
	SourceStatic     = "static"
	SourceComputed   = "computed"
)

// Result is the served payload plus its provenance.
type Result struct {
	Plugin    string          `json:"plugin"`
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
	Source    string          `json:"source"`
}

// Fetcher performs a live fetch against a plugin's upstream. Params carry
// request-scoped inputs such as coordinates.
type Fetcher interface {
	Fetch(ctx context.Context, orgID string, params map[string]string) (json.RawMessage, error)
}

// SettingsProvider reads org-scoped settings for manual values and upstream
// configuration. found=false means the setting was never written.
// Implemented by the settings plugin.
type SettingsProvider interface {
	Value(ctx context.Context, orgID, key string) (value string, found bool, err error)
}

// Org setting keys consumed by the fallback strategies and fetchers.
const (
	SettingWeatherManual = "fielddata.weather.manual"
	SettingFuelPrice     = "fielddata.fuel.price"
	SettingCalendarURL   = "fielddata.calendar_ics.url"
)
