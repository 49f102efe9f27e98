package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/service"
)

func ListCartHandler(svc *service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func ToggleCartHandler(svc *service.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		added, err := svc.Toggle(c.UserContext(), c.Params("scheduleId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"scheduleId": c.Params("scheduleId"), "inCart": added})
	}
}

func GetSettingsHandler(svc *service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Get(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}

func PutSettingsHandler(svc *service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Settings
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		s, err := svc.Put(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}
