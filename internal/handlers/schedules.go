package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/service"
)

type idsRequest struct {
	IDs []string `json:"ids"`
}

func ListSchedulesHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if c.QueryBool("upcoming") {
			items, err := svc.Upcoming(ctx)
			if err != nil {
				return err
			}
			return c.JSON(items)
		}
		items, err := svc.List(ctx, service.ScheduleFilter{
			From:     c.Query("from"),
			To:       c.Query("to"),
			Category: model.ScheduleCategory(c.Query("category")),
		})
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func CreateScheduleHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ScheduleInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		created, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func UpdateScheduleHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ScheduleInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		sc, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(sc)
	}
}

func DeleteScheduleHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func BulkDeleteSchedulesHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(err)
		}
		n, err := svc.DeleteMany(c.UserContext(), req.IDs)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": n})
	}
}

func SchedulesFromTerritoriesHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			TerritoryIDs []string `json:"territoryIds"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(err)
		}
		created, err := svc.CreateFromTerritories(c.UserContext(), req.TerritoryIDs)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func JoinScheduleHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Participant
		if err := c.BodyParser(&p); err != nil {
			return badRequest(err)
		}
		sc, err := svc.Join(c.UserContext(), c.Params("id"), p)
		if err != nil {
			return err
		}
		return c.JSON(sc)
	}
}

func LeaveScheduleHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sc, err := svc.Leave(c.UserContext(), c.Params("id"), c.Params("pid"))
		if err != nil {
			return err
		}
		return c.JSON(sc)
	}
}

func CalendarHandler(svc *service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cal, err := svc.Calendar(c.UserContext(), c.Query("month"), c.Query("selected"))
		if err != nil {
			return err
		}
		return c.JSON(cal)
	}
}
