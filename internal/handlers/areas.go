package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
)

func ListAreasHandler(svc *service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func GetAreaHandler(svc *service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// AreaFileHandler serves the stored PDF inline.
func AreaFileHandler(svc *service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.File(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="area.pdf"`)
		return c.Send(b)
	}
}

// UploadAreaHandler accepts a multipart form with number, name and a PDF in
// the "file" field.
func UploadAreaHandler(svc *service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up := service.AreaUpload{
			Number: c.FormValue("number"),
			Name:   c.FormValue("name"),
		}

		fh, err := c.FormFile("file")
		if err == nil {
			f, err := fh.Open()
			if err != nil {
				return err
			}
			defer f.Close()

			up.Filename = fh.Filename
			if up.Content, err = io.ReadAll(f); err != nil {
				return err
			}
		}

		doc, err := svc.Upload(c.UserContext(), up)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func AreaStatusHandler(svc *service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(err)
		}
		doc, err := svc.ChangeStatus(c.UserContext(), c.Params("id"), req.Status)
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

func DeleteAreaHandler(svc *service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
