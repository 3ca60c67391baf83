package enum

import (
	"database/sql/driver"
	"fmt"
)

// DocumentType identifies a numbered sales document. Its value is the
// prefix used in the running number.
type DocumentType string

const (
	DocumentTypeQuotation DocumentType = "QT"
	DocumentTypeInvoice   DocumentType = "IV"
	DocumentTypeReceipt   DocumentType = "RE"
)

func (t DocumentType) String() string {
	return string(t)
}

// Prefix returns the running-number prefix for t
func (t DocumentType) Prefix() string {
	return string(t)
}

func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeQuotation, DocumentTypeInvoice, DocumentTypeReceipt:
		return true
	}
	return false
}

func (t DocumentType) Value() (driver.Value, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid document type %q", string(t))
	}
	return string(t), nil
}

func (t *DocumentType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = DocumentType(v)
	case []byte:
		*t = DocumentType(string(v))
	case nil:
		*t = ""
	}
	return nil
}
