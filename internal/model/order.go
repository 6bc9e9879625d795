package model

import (
	"encoding/base64"
	"time"
)

// Order is the persisted unit for one ingested work order.
// This is a pure domain model with no database-specific dependencies or tags.
// Recognized fields are either a trimmed non-empty value or the recognizer's
// sentinel; they are never the empty string for a persisted record.
type Order struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	CustomerName  string    `json:"customer_name"`
	StoneType     string    `json:"stone_type"`
	PDFContent    string    `json:"pdf_content,omitempty"`
	ExtractedText string    `json:"extracted_text"`
	UploadDate    time.Time `json:"upload_date"`
}

// SearchField selects which recognized field a search predicate targets.
type SearchField string

const (
	SearchOrderNumber  SearchField = "order_number"
	SearchCustomerName SearchField = "customer_name"
	SearchStoneType    SearchField = "stone_type"
	SearchAll          SearchField = "all"
)

// Valid reports whether f is one of the four recognized selectors.
// Any other value builds a predicate that matches nothing.
func (f SearchField) Valid() bool {
	switch f {
	case SearchOrderNumber, SearchCustomerName, SearchStoneType, SearchAll:
		return true
	}
	return false
}

// SearchQuery is the ephemeral search request; it is never persisted.
type SearchQuery struct {
	SearchTerm string      `json:"search_term"`
	SearchType SearchField `json:"search_type"`
}

// EncodePDF encodes the original document bytes into the text-safe
// representation stored in Order.PDFContent.
func EncodePDF(content []byte) string {
	return base64.StdEncoding.EncodeToString(content)
}

// DecodePDF reverses EncodePDF byte-for-byte.
func DecodePDF(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
