package settings

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// SettingsService handles business logic for org settings. It doubles as
// the settings provider other plugins read through.
type SettingsService interface {
	// Value reads one setting. Satisfies fielddata.SettingsProvider.
	Value(ctx context.Context, orgID, key string) (value string, found bool, err error)

	Set(ctx context.Context, orgID, actorID, key, value string) error
	Delete(ctx context.Context, orgID, key string) error
	List(ctx context.Context, orgID string) ([]OrgSetting, error)
}

type settingsService struct {
	repo SettingsRepository
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// settingKeyRe constrains keys to namespaced dotted paths.
var settingKeyRe = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

func (s *settingsService) Value(ctx context.Context, orgID, key string) (string, bool, error) {
	return s.repo.Get(ctx, orgID, key)
}

func (s *settingsService) Set(ctx context.Context, orgID, actorID, key, value string) error {
	if !settingKeyRe.MatchString(key) || len(key) > 128 {
		return apperror.NewBadRequest("invalid setting key")
	}

	setting := &OrgSetting{
		OrgID:     orgID,
		Key:       key,
		Value:     value,
		UpdatedBy: actorID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Set(ctx, setting); err != nil {
		return apperror.NewInternal(fmt.Errorf("setting %q: %w", key, err))
	}
	return nil
}

func (s *settingsService) Delete(ctx context.Context, orgID, key string) error {
	return s.repo.Delete(ctx, orgID, key)
}

func (s *settingsService) List(ctx context.Context, orgID string) ([]OrgSetting, error) {
	settings, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return settings, nil
}
