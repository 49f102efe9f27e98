package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
)

type statusRequest struct {
	Status string `json:"status"`
}

func territoryFilter(c *fiber.Ctx) service.TerritoryFilter {
	return service.TerritoryFilter{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		PlaceType: c.Query("placeType"),
		Query:     c.Query("q"),
	}
}

func ListTerritoriesHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.List(c.UserContext(), territoryFilter(c))
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

func GetTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(view)
	}
}

func CreateTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TerritoryInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		t, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

func UpdateTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TerritoryInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		t, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(t)
	}
}

func DeleteTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func TerritoryStatusHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(err)
		}
		t, err := svc.ChangeStatus(c.UserContext(), c.Params("id"), req.Status)
		if err != nil {
			return err
		}
		return c.JSON(t)
	}
}

func AssignTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AssignInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		t, err := svc.Assign(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(t)
	}
}

func CompleteTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.Complete(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(t)
	}
}

func ReleaseTerritoryHandler(svc *service.TerritoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.Release(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(t)
	}
}
