package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
	"go.uber.org/zap"
)

// Register mounts the HTML pages and the JSON API on app.
func Register(app *fiber.App, svc *service.Services, logger *zap.Logger) {
	app.Get("/", HomeHandler(svc, logger))
	app.Get("/territories", TerritoriesPageHandler(svc.Territories))

	api := app.Group("/api")

	t := api.Group("/territories")
	t.Get("/", ListTerritoriesHandler(svc.Territories))
	t.Post("/", CreateTerritoryHandler(svc.Territories))
	t.Get("/:id", GetTerritoryHandler(svc.Territories))
	t.Put("/:id", UpdateTerritoryHandler(svc.Territories))
	t.Delete("/:id", DeleteTerritoryHandler(svc.Territories))
	t.Post("/:id/status", TerritoryStatusHandler(svc.Territories))
	t.Post("/:id/assign", AssignTerritoryHandler(svc.Territories))
	t.Post("/:id/complete", CompleteTerritoryHandler(svc.Territories))
	t.Post("/:id/release", ReleaseTerritoryHandler(svc.Territories))

	s := api.Group("/schedules")
	s.Get("/", ListSchedulesHandler(svc.Schedules))
	s.Post("/", CreateScheduleHandler(svc.Schedules))
	s.Post("/delete", BulkDeleteSchedulesHandler(svc.Schedules))
	s.Post("/from-territories", SchedulesFromTerritoriesHandler(svc.Schedules))
	s.Put("/:id", UpdateScheduleHandler(svc.Schedules))
	s.Delete("/:id", DeleteScheduleHandler(svc.Schedules))
	s.Post("/:id/participants", JoinScheduleHandler(svc.Schedules))
	s.Delete("/:id/participants/:pid", LeaveScheduleHandler(svc.Schedules))
	api.Get("/calendar", CalendarHandler(svc.Schedules))

	n := api.Group("/notices")
	n.Get("/", ListNoticesHandler(svc.Notices))
	n.Post("/", CreateNoticeHandler(svc.Notices))
	n.Get("/current", CurrentNoticesHandler(svc.Notices))
	n.Put("/:id", UpdateNoticeHandler(svc.Notices))
	n.Delete("/:id", DeleteNoticeHandler(svc.Notices))

	p := api.Group("/publishers")
	p.Get("/", ListPublishersHandler(svc.Publishers))
	p.Post("/", CreatePublisherHandler(svc.Publishers))
	p.Put("/:id", UpdatePublisherHandler(svc.Publishers))
	p.Delete("/:id", DeletePublisherHandler(svc.Publishers))

	g := api.Group("/cleaning-groups")
	g.Get("/", ListCleaningGroupsHandler(svc.Cleaning))
	g.Post("/", CreateCleaningGroupHandler(svc.Cleaning))
	g.Get("/rotation", CleaningRotationHandler(svc.Cleaning))
	g.Put("/:id", UpdateCleaningGroupHandler(svc.Cleaning))
	g.Delete("/:id", DeleteCleaningGroupHandler(svc.Cleaning))

	a := api.Group("/areas")
	a.Get("/", ListAreasHandler(svc.Areas))
	a.Post("/", UploadAreaHandler(svc.Areas))
	a.Get("/:id", GetAreaHandler(svc.Areas))
	a.Get("/:id/file", AreaFileHandler(svc.Areas))
	a.Delete("/:id", DeleteAreaHandler(svc.Areas))
	a.Post("/:id/status", AreaStatusHandler(svc.Areas))

	api.Get("/cart", ListCartHandler(svc.Cart))
	api.Post("/cart/:scheduleId", ToggleCartHandler(svc.Cart))

	api.Get("/settings", GetSettingsHandler(svc.Settings))
	api.Put("/settings", PutSettingsHandler(svc.Settings))

	api.Get("/backup", BackupHandler(svc.Backup))
	api.Post("/restore", RestoreHandler(svc.Backup))
	api.Delete("/data", ClearDataHandler(svc.Backup))

	api.Get("/stats", StatsHandler(svc.Stats))
	api.Get("/reports/territories.xlsx", TerritoryReportHandler(svc.Reports))
}
