package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stoneapi/internal/model"
	"stoneapi/internal/recognize"
	"stoneapi/internal/service"
	serviceMocks "stoneapi/internal/service/mocks"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestRoot(t *testing.T) {
	app := fiber.New()
	app.Get("/api/", Root())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "Steinmetz Auftragsverwaltung API", body["message"])
}

func multipartPDF(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadOrder(t *testing.T) {
	content := []byte("%PDF-1.4 test")

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		app := fiber.New()
		app.Post("/api/upload-pdf", UploadOrder(mockSvc))

		mockSvc.On("Ingest", mock.Anything, content, "auftrag.pdf").
			Return(&service.IngestResult{
				OrderID: "new-id",
				Extracted: recognize.Fields{
					OrderNumber:  "A-2023-001",
					CustomerName: "Max Mustermann",
					StoneType:    "Granit",
				},
			}, nil)

		body, ct := multipartPDF(t, "file", "auftrag.pdf", content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res struct {
			Message   string           `json:"message"`
			OrderID   string           `json:"order_id"`
			Extracted recognize.Fields `json:"extracted_info"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "new-id", res.OrderID)
		assert.Equal(t, "Granit", res.Extracted.StoneType)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file part", func(t *testing.T) {
		app := fiber.New()
		app.Post("/api/upload-pdf", UploadOrder(new(serviceMocks.MockOrderService)))

		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong file type", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		app := fiber.New()
		app.Post("/api/upload-pdf", UploadOrder(mockSvc))

		mockSvc.On("Ingest", mock.Anything, content, "auftrag.docx").
			Return(nil, service.ErrInvalidFileType)

		body, ct := multipartPDF(t, "file", "auftrag.docx", content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body2 errorPayload
		json.NewDecoder(resp.Body).Decode(&body2)
		assert.Equal(t, "INVALID_FILE_TYPE", body2.Error.Code)
		assert.Equal(t, "Nur PDF-Dateien sind erlaubt", body2.Error.Message)
	})

	t.Run("empty document", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		app := fiber.New()
		app.Post("/api/upload-pdf", UploadOrder(mockSvc))

		mockSvc.On("Ingest", mock.Anything, content, "leer.pdf").
			Return(nil, service.ErrEmptyDocument)

		body, ct := multipartPDF(t, "file", "leer.pdf", content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "Kein Text im PDF gefunden", payload.Error.Message)
	})

	t.Run("persistence failure stays generic", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		app := fiber.New()
		app.Post("/api/upload-pdf", UploadOrder(mockSvc))

		mockSvc.On("Ingest", mock.Anything, content, "auftrag.pdf").
			Return(nil, errors.New("db save failed: connection refused"))

		body, ct := multipartPDF(t, "file", "auftrag.pdf", content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(raw), "connection refused")
		assert.Contains(t, string(raw), "Fehler beim Hochladen des PDFs")
	})
}

func TestSearchOrders(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOrderService)
		app := fiber.New()
		app.Post("/api/search-orders", SearchOrders(mockSvc))

		mockSvc.On("Search", mock.Anything, model.SearchQuery{
			SearchTerm: "Granit",
			SearchType: model.SearchStoneType,
		}).Return(&service.SearchResult{
			Results: []model.Order{{ID: "1", StoneType: "Granit"}},
			Count:   1,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/search-orders",
			bytes.NewReader([]byte(`{"search_term":"Granit","search_type":"stone_type"}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res service.SearchResult
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, 1, res.Count)
		assert.Len(t, res.Results, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		app := fiber.New()
		app.Post("/api/search-orders", SearchOrders(new(serviceMocks.MockOrderService)))

		req := httptest.NewRequest(http.MethodPost, "/api/search-orders", bytes.NewReader([]byte(`{`)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListOrders(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Get("/api/orders", ListOrders(mockSvc))

	mockSvc.On("List", mock.Anything).Return([]model.Order{
		{ID: "1", OrderNumber: "A-1"},
		{ID: "2", OrderNumber: "A-2"},
	}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Orders []model.Order `json:"orders"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Len(t, body.Orders, 2)
	mockSvc.AssertExpectations(t)
}

func TestGetOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Get("/api/order/:id", GetOrder(mockSvc))

	t.Run("success includes payload", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).
			Return(&model.Order{ID: id, PDFContent: "JVBERi0="}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/order/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), "pdf_content")
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/order/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/order/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "Auftrag nicht gefunden", payload.Error.Message)
	})
}

func TestDeleteOrder(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Delete("/api/order/:id", DeleteOrder(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/order/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Auftrag erfolgreich gelöscht", body["message"])
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/order/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/order/123", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
