package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/jjenkins/fieldservice/internal/templates"
	"go.uber.org/zap"
)

func render(c *fiber.Ctx, page templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(page))
	return handler(c)
}

// HomeHandler renders the landing page. A section that fails to load is
// logged and left empty.
func HomeHandler(svc *service.Services, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		metrics := templates.HomeMetrics{}

		notices, err := svc.Notices.Current(ctx)
		if err != nil {
			logger.Error("failed to load notices", zap.Error(err))
		} else {
			metrics.Notices = notices
		}

		upcoming, err := svc.Schedules.Upcoming(ctx)
		if err != nil {
			logger.Error("failed to load upcoming schedules", zap.Error(err))
		} else {
			metrics.Upcoming = upcoming
		}

		sum, err := svc.Stats.Calculate(ctx)
		if err != nil {
			logger.Error("failed to calculate stats", zap.Error(err))
		} else {
			metrics.Counts = sum.TerritoriesBy
		}

		rot, err := svc.Cleaning.Rotation(ctx)
		if err != nil {
			logger.Error("failed to load cleaning rotation", zap.Error(err))
		} else {
			metrics.Cleaning = rot.Current
			metrics.NextClean = rot.Next
		}

		return render(c, templates.Home(metrics))
	}
}

// TerritoriesPageHandler renders the territory list. HTMX requests get only
// the table body.
func TerritoriesPageHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := territoryFilter(c)
		views, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}

		rows := make([]templates.TerritoryRow, len(views))
		for i, v := range views {
			rows[i] = templates.TerritoryRow{
				ID:            v.ID,
				Number:        v.Number,
				Name:          v.Name,
				Category:      v.Category,
				Status:        v.Status,
				AssigneeName:  v.AssigneeName,
				DueDate:       v.DueDate,
				LastCompleted: v.LastCompleted,
				Address:       v.Address,
			}
		}

		if c.Get("HX-Request") == "true" {
			return render(c, templates.TerritoryRows(rows))
		}
		return render(c, templates.Territories(rows, templates.TerritoryFilter{
			Status:   f.Status,
			Category: f.Category,
			Query:    f.Query,
		}))
	}
}
