package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
)

func ListPublishersHandler(svc *service.PublisherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := svc.List
		if c.QueryBool("captains") {
			list = svc.Captains
		}
		items, err := list(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func CreatePublisherHandler(svc *service.PublisherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.PublisherInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func UpdatePublisherHandler(svc *service.PublisherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.PublisherInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		p, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

func DeletePublisherHandler(svc *service.PublisherService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
