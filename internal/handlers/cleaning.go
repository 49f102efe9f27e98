package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
)

func ListCleaningGroupsHandler(svc *service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func CleaningRotationHandler(svc *service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Rotation(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

func CreateCleaningGroupHandler(svc *service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CleaningGroupInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		g, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

func UpdateCleaningGroupHandler(svc *service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CleaningGroupInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		g, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(g)
	}
}

func DeleteCleaningGroupHandler(svc *service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
