package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"stoneapi/internal/extract"
	"stoneapi/internal/model"
	"stoneapi/internal/recognize"
	"stoneapi/internal/repository"
	"stoneapi/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("order not found")
	// ErrInvalidFileType is returned when the uploaded filename does not
	// carry a .pdf extension.
	ErrInvalidFileType = errors.New("only PDF files are allowed")
	// ErrEmptyDocument is returned when no text could be extracted from the
	// uploaded document.
	ErrEmptyDocument = errors.New("no text found in document")
)

// maxResults caps list and search responses. This is a bound against
// unbounded response size, not a pagination mechanism.
const maxResults = 100

// archivePrefix is the object-store key prefix for original PDF bytes.
const archivePrefix = "orders"

// IngestResult is the client-facing summary of a successful ingestion. It
// never carries the raw text or the encoded payload.
type IngestResult struct {
	OrderID   string           `json:"order_id"`
	Extracted recognize.Fields `json:"extracted_info"`
}

// SearchResult is the service-level DTO for search responses. Orders have
// their payload stripped.
type SearchResult struct {
	Results []model.Order `json:"results"`
	Count   int           `json:"count"`
}

// OrderService defines the use cases for handling work orders.
type OrderService interface {
	// Ingest validates, extracts, recognizes, archives and persists one
	// uploaded document, returning the new id and the recognized fields.
	Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error)

	// Search runs a case-insensitive substring search over the recognized
	// fields, newest first, capped and with the payload stripped.
	Search(ctx context.Context, query model.SearchQuery) (*SearchResult, error)

	// List returns all orders with the same ordering, cap and payload
	// stripping as Search.
	List(ctx context.Context) ([]model.Order, error)

	// Get returns a single order by its ID, including the encoded payload.
	Get(ctx context.Context, id string) (*model.Order, error)

	// Delete removes an order by ID together with its archived object.
	Delete(ctx context.Context, id string) error
}

// orderService is a concrete implementation of OrderService.
type orderService struct {
	extractor  extract.TextExtractor
	recognizer *recognize.Recognizer
	store      storage.Storage
	repo       repository.OrderRepository
}

// NewOrderService constructs a new OrderService.
func NewOrderService(extractor extract.TextExtractor, recognizer *recognize.Recognizer, store storage.Storage, repo repository.OrderRepository) OrderService {
	return &orderService{
		extractor:  extractor,
		recognizer: recognizer,
		store:      store,
		repo:       repo,
	}
}

func (s *orderService) Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrInvalidFileType
	}

	// Extraction failures are recoverable: log and fall through to the
	// empty-text check instead of surfacing a distinct error.
	text, err := s.extractor.ExtractText(content)
	if err != nil {
		log.Printf("extract text from %q: %v", filename, err)
		text = ""
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	fields := s.recognizer.Recognize(text)

	id := uuid.New().String()
	key := archiveKey(id)

	// Archive the original bytes first, then persist; roll the archive back
	// if the insert fails so no orphaned object remains.
	_, err = s.store.Put(ctx, key, bytes.NewReader(content), storage.PutOptions{
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("archive upload: %w", err)
	}

	order := &model.Order{
		ID:            id,
		OrderNumber:   fields.OrderNumber,
		CustomerName:  fields.CustomerName,
		StoneType:     fields.StoneType,
		PDFContent:    model.EncodePDF(content),
		ExtractedText: text,
		UploadDate:    time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, order); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	return &IngestResult{OrderID: id, Extracted: fields}, nil
}

func (s *orderService) Search(ctx context.Context, query model.SearchQuery) (*SearchResult, error) {
	orders, err := s.repo.Search(ctx, repository.SearchFilter{
		Field: query.SearchType,
		Term:  query.SearchTerm,
		Limit: maxResults,
	})
	if err != nil {
		return nil, err
	}
	return &SearchResult{Results: stripPayload(orders), Count: len(orders)}, nil
}

func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.repo.List(ctx, maxResults)
	if err != nil {
		return nil, err
	}
	return stripPayload(orders), nil
}

func (s *orderService) Get(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	// The row is gone; removing the archived object is best-effort.
	if err := s.store.Delete(ctx, archiveKey(id)); err != nil {
		log.Printf("delete archived object for order %s: %v", id, err)
	}
	return nil
}

func archiveKey(id string) string {
	return archivePrefix + "/" + id + ".pdf"
}

// stripPayload clears pdf_content on every order so list responses stay
// bounded; the omitempty JSON tag then drops the field entirely.
func stripPayload(orders []model.Order) []model.Order {
	for i := range orders {
		orders[i].PDFContent = ""
	}
	return orders
}
