package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ReceiptStatus represents the lifecycle state of a receipt
type ReceiptStatus string

const (
	ReceiptStatusDraft  ReceiptStatus = "DRAFT"
	ReceiptStatusIssued ReceiptStatus = "ISSUED"
)

func (s ReceiptStatus) String() string {
	return string(s)
}

func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusDraft || s == ReceiptStatusIssued
}

func (s ReceiptStatus) IsLocked() bool {
	return s != ReceiptStatusDraft
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := ReceiptStatus(strings.ToUpper(strings.TrimSpace(str)))
	if !status.IsValid() {
		return fmt.Errorf("invalid receipt status %q", str)
	}
	*s = status
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusDraft
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ReceiptStatus(v)
	case []byte:
		*s = ReceiptStatus(string(v))
	}
	return nil
}
