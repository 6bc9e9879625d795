package recognize

import (
	"regexp"
	"strings"
)

// Unrecognized is the placeholder stored when no pattern in a field's
// cascade matches the extracted text.
const Unrecognized = "Nicht erkannt"

// Pattern is a single matching rule inside a cascade.
// Group selects which capture group holds the field value; 0 uses the
// entire matched span (pure keyword patterns).
type Pattern struct {
	expr  *regexp.Regexp
	group int
}

// MustPattern compiles expr and panics on error. Intended for cascade
// construction at init time.
func MustPattern(expr string, group int) Pattern {
	return Pattern{expr: regexp.MustCompile(expr), group: group}
}

// Cascade is an ordered list of patterns for one field, evaluated in list
// order; the first pattern that matches wins and later patterns are never
// tried, even if they would also match.
type Cascade []Pattern

// Apply runs the cascade against text and returns the trimmed value of the
// first matching pattern, or Unrecognized if no pattern matches or the
// matched value trims to the empty string.
func (c Cascade) Apply(text string) string {
	for _, p := range c {
		m := p.expr.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[0]
		if p.group > 0 && p.group < len(m) {
			v = m[p.group]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return Unrecognized
	}
	return Unrecognized
}

// Fields holds the three recognized values for one document.
type Fields struct {
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
	StoneType    string `json:"stone_type"`
}

// Recognizer applies one cascade per structured field. Cascades are data:
// the matching loop is the same for every field and custom cascades can be
// supplied without touching it.
type Recognizer struct {
	orderNumber  Cascade
	customerName Cascade
	stoneType    Cascade
}

// New builds a Recognizer from explicit cascades.
func New(orderNumber, customerName, stoneType Cascade) *Recognizer {
	return &Recognizer{
		orderNumber:  orderNumber,
		customerName: customerName,
		stoneType:    stoneType,
	}
}

// NewDefault returns a Recognizer with the stock cascades for German
// stonemasonry work orders.
func NewDefault() *Recognizer {
	return New(defaultOrderNumber, defaultCustomerName, defaultStoneType)
}

// Recognize extracts the three structured fields from text. Matching is
// purely textual; recognized values are not validated against any domain
// rules.
func (r *Recognizer) Recognize(text string) Fields {
	return Fields{
		OrderNumber:  r.orderNumber.Apply(text),
		CustomerName: r.customerName.Apply(text),
		StoneType:    r.stoneType.Apply(text),
	}
}

// Default cascades. Labels are matched case-insensitively and separated
// from the value by ":", "-" or whitespace. Name/stone value classes stop
// at the end of the line so a following labeled line is not swallowed.
var (
	defaultOrderNumber = Cascade{
		MustPattern(`(?i)Auftrag(?:s?nummer)?[:\-\s]+([A-Z0-9\-]+)`, 1),
		MustPattern(`(?i)Order[:\-\s]+([A-Z0-9\-]+)`, 1),
		MustPattern(`(?i)Nr[:\-\s]+([A-Z0-9\-]+)`, 1),
	}

	defaultCustomerName = Cascade{
		MustPattern(`(?i)Kunde[:\-\s]+([A-Za-zäöüß ]+)`, 1),
		MustPattern(`(?i)Auftraggeber[:\-\s]+([A-Za-zäöüß ]+)`, 1),
		MustPattern(`(?i)Customer[:\-\s]+([A-Za-z ]+)`, 1),
	}

	// The bare keyword alternation has no capture group: the field value is
	// the matched span itself, in whatever case it appears in the text.
	defaultStoneType = Cascade{
		MustPattern(`(?i)Stein(?:art)?[:\-\s]+([A-Za-zäöüß ]+)`, 1),
		MustPattern(`(?i)Material[:\-\s]+([A-Za-zäöüß ]+)`, 1),
		MustPattern(`(?i)Granit|Marmor|Kalkstein|Sandstein|Schiefer|Basalt|Travertin`, 0),
	}
)
