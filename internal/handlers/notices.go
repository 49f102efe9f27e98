package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
)

func ListNoticesHandler(svc *service.NoticeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func CurrentNoticesHandler(svc *service.NoticeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Current(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func CreateNoticeHandler(svc *service.NoticeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NoticeInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		n, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

func UpdateNoticeHandler(svc *service.NoticeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NoticeInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
		n, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return err
		}
		return c.JSON(n)
	}
}

func DeleteNoticeHandler(svc *service.NoticeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
