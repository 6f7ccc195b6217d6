package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/audit"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/fielddata"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
	"github.com/jobdeck/jobdeck/internal/plugins/projects"
	"github.com/jobdeck/jobdeck/internal/plugins/settings"
	"github.com/jobdeck/jobdeck/internal/plugins/sharelinks"
	"github.com/jobdeck/jobdeck/internal/plugins/storagesync"
	"github.com/jobdeck/jobdeck/internal/plugins/visits"
)

// RegisterRoutes constructs every plugin bottom-up (repository, service,
// handler) and registers its routes. This is the single place where plugins
// are wired to each other; cross-plugin dependencies go through the narrow
// interfaces each consumer declares, never through another plugin's
// concrete types.
func (a *App) RegisterRoutes() {
	e := a.Echo
	logger := a.logger()

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "reason": "database"})
		}
		if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "reason": "redis"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- audit (consumed by most other plugins) ---
	auditService := audit.NewAuditService(audit.NewAuditRepository(a.DB), logger)

	// --- auth ---
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, a.Redis, a.Config.Auth.SessionTTL)
	auth.RegisterRoutes(e, auth.NewHandler(authService), authService)

	// --- orgs ---
	orgService := orgs.NewOrgService(
		orgs.NewOrgRepository(a.DB),
		orgs.NewMembershipRepository(a.DB),
		orgs.NewUserFinderAdapter(userRepo),
		auditService,
	)
	orgs.RegisterRoutes(e, orgs.NewHandler(orgService, authService), orgService, authService)

	// --- audit feed (needs the org gate, so registered after orgs) ---
	audit.RegisterRoutes(e, audit.NewHandler(auditService), orgService, authService)

	// --- settings ---
	settingsService := settings.NewSettingsService(settings.NewSettingsRepository(a.DB))
	settings.RegisterRoutes(e, settings.NewHandler(settingsService), orgService, authService)

	// --- projects ---
	projectService := projects.NewProjectService(projects.NewProjectRepository(a.DB))
	projects.RegisterRoutes(e, projects.NewHandler(projectService), orgService, authService)

	// --- visits ---
	visitService := visits.NewVisitService(visits.NewVisitRepository(a.DB))
	visits.RegisterRoutes(e, visits.NewHandler(visitService), orgService, authService)

	// --- sharelinks ---
	linkService := sharelinks.NewShareLinkService(
		sharelinks.NewShareLinkRepository(a.DB),
		orgService,
		auditService,
		a.Config.Auth.InviteTTL,
	)
	sharelinks.RegisterRoutes(e, sharelinks.NewHandler(linkService), orgService, authService)

	// --- fielddata ---
	httpClient := &http.Client{Timeout: a.Config.FieldData.FetchTimeout}
	fetchers := map[string]fielddata.Fetcher{
		fielddata.PluginWeather:     fielddata.NewWeatherFetcher(httpClient, "https://api.open-meteo.com/v1/forecast"),
		fielddata.PluginFuel:        fielddata.NewFuelFetcher(httpClient, "https://api.fuelpriceservice.example/v1/prices"),
		fielddata.PluginRoute:       fielddata.NewRouteFetcher(httpClient, "https://router.project-osrm.org"),
		fielddata.PluginCalendarICS: fielddata.NewCalendarICSFetcher(httpClient, settingsService),
	}
	fieldDataService := fielddata.NewFieldDataService(
		fielddata.NewCache(a.Redis),
		fetchers,
		settingsService,
		a.Config.FieldData.FetchTimeout,
		logger,
	)
	fielddata.RegisterRoutes(e, fielddata.NewHandler(fieldDataService), orgService, authService)

	// --- storagesync ---
	syncService := storagesync.NewSyncService(storagesync.NewStorageAccountRepository(a.DB), auditService)
	storagesync.RegisterRoutes(e, storagesync.NewHandler(syncService), orgService, authService)
}
