// Package settings stores org-scoped configuration as key-value pairs:
// manual field data values, upstream feed URLs, and whatever later plugins
// need to persist per organization. Keys are namespaced dotted paths
// ("fielddata.fuel.price"); values are opaque strings, often JSON.
package settings

import "time"

// OrgSetting is one org-scoped configuration entry.
type OrgSetting struct {
	OrgID     string    `json:"org_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetSettingRequest holds the data for writing a setting.
type SetSettingRequest struct {
	Value string `json:"value" validate:"required,max=4096"`
}
