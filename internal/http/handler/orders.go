package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stoneapi/internal/model"
	"stoneapi/internal/service"
)

// Root returns the API banner.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Steinmetz Auftragsverwaltung API"})
	}
}

// UploadOrder handles the PDF upload (multipart/form-data, field name: file)
// and returns the new order id plus the recognized fields.
func UploadOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		res, err := svc.Ingest(c.UserContext(), content, fh.Filename)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidFileType):
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "Nur PDF-Dateien sind erlaubt")
			case errors.Is(err, service.ErrEmptyDocument):
				return writeError(c, fiber.StatusBadRequest, "EMPTY_DOCUMENT", "Kein Text im PDF gefunden")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Fehler beim Hochladen des PDFs")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":        "PDF erfolgreich hochgeladen und verarbeitet",
			"order_id":       res.OrderID,
			"extracted_info": res.Extracted,
		})
	}
}

// SearchOrders runs a substring search over the recognized fields.
func SearchOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var query model.SearchQuery
		if err := c.BodyParser(&query); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Search(c.UserContext(), query)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Fehler bei der Suche")
		}
		return c.JSON(res)
	}
}

// ListOrders returns all orders, newest first, without the encoded payload.
func ListOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Fehler beim Laden der Aufträge")
		}
		return c.JSON(fiber.Map{"orders": orders})
	}
}

// GetOrder returns one order by id, including the encoded payload.
func GetOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		order, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Auftrag nicht gefunden")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Fehler beim Laden des Auftrags")
		}
		return c.JSON(order)
	}
}

// DeleteOrder removes one order by id.
func DeleteOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Auftrag nicht gefunden")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Fehler beim Löschen des Auftrags")
		}
		return c.JSON(fiber.Map{"message": "Auftrag erfolgreich gelöscht"})
	}
}
