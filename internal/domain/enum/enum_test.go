package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatus_UnmarshalJSON(t *testing.T) {
	var s InvoiceStatus
	require.NoError(t, json.Unmarshal([]byte(`" draft "`), &s))
	assert.Equal(t, InvoiceStatusDraft, s)

	assert.Error(t, json.Unmarshal([]byte(`"VOID"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestReceiptStatus_UnmarshalJSON(t *testing.T) {
	var s ReceiptStatus
	require.NoError(t, json.Unmarshal([]byte(`"issued"`), &s))
	assert.Equal(t, ReceiptStatusIssued, s)

	assert.Error(t, json.Unmarshal([]byte(`"PAID"`), &s))
}

func TestStatusLocks(t *testing.T) {
	assert.False(t, InvoiceStatusDraft.IsLocked())
	assert.True(t, InvoiceStatusSent.IsLocked())
	assert.True(t, InvoiceStatusPaid.IsLocked())
	assert.False(t, ReceiptStatusDraft.IsLocked())
	assert.True(t, ReceiptStatusIssued.IsLocked())
}

func TestStatusScan(t *testing.T) {
	var s InvoiceStatus
	require.NoError(t, s.Scan([]byte("PAID")))
	assert.Equal(t, InvoiceStatusPaid, s)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, InvoiceStatusDraft, s)
}

func TestDocumentType(t *testing.T) {
	assert.Equal(t, "IV", DocumentTypeInvoice.Prefix())
	assert.True(t, DocumentTypeReceipt.IsValid())
	assert.False(t, DocumentType("XX").IsValid())

	_, err := DocumentType("XX").Value()
	assert.Error(t, err)
	v, err := DocumentTypeQuotation.Value()
	require.NoError(t, err)
	assert.Equal(t, "QT", v)
}
