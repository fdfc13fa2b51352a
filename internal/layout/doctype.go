package layout

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/docket/internal/errors"
)

// DocumentType names one of the supported business documents.
type DocumentType string

const (
	Invoice           DocumentType = "invoice"
	DeliveryDocket    DocumentType = "delivery_docket"
	OrderConfirmation DocumentType = "order_confirmation"
	AvailabilityList  DocumentType = "availability_list"
	Quote             DocumentType = "quote"
)

// DocumentTypes returns every supported type in display order.
func DocumentTypes() []DocumentType {
	return []DocumentType{Invoice, DeliveryDocket, OrderConfirmation, AvailabilityList, Quote}
}

// ParseDocumentType accepts the canonical name, case-insensitively, with
// hyphens or spaces in place of underscores.
func ParseDocumentType(s string) (DocumentType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, t := range DocumentTypes() {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", errors.ErrUnknownDocumentType(s)
}

// Valid reports whether t is a supported type.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Title returns a human-readable name such as "Delivery Docket".
func (t DocumentType) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

func (t DocumentType) String() string {
	return string(t)
}
