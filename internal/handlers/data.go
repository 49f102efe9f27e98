package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BackupHandler streams every collection as a downloadable JSON document.
func BackupHandler(svc *service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Export(c.UserContext())
		if err != nil {
			return err
		}
		c.Attachment("fieldservice-backup.json")
		return c.JSON(doc)
	}
}

func RestoreHandler(svc *service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Import(c.UserContext(), c.Body())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"written": stats.Written,
			"ignored": stats.Ignored,
		})
	}
}

func ClearDataHandler(svc *service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Clear(c.UserContext()); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func StatsHandler(svc *service.StatsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := svc.Calculate(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(sum)
	}
}

func TerritoryReportHandler(svc *service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.TerritoryWorkbook(c.UserContext())
		if err != nil {
			return fmt.Errorf("failed to build territory report: %w", err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Attachment("territories.xlsx")
		return c.Send(b)
	}
}
