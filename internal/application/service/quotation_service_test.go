package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/crm-billing/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueQuotationNumber_Idempotent(t *testing.T) {
	f := newFixture(t)
	deal := f.createDeal(t)

	first, err := f.quotations.IssueQuotationNumber(context.Background(), deal.ID, f.owner)
	require.NoError(t, err)
	require.NotNil(t, first.QuotationNumber)
	assert.Equal(t, "QT-202401-0001", *first.QuotationNumber)
	require.NotNil(t, first.QuotationDate)
	assert.Equal(t, "2024-01-31", first.QuotationDate.Format("2006-01-02"))

	second, err := f.quotations.IssueQuotationNumber(context.Background(), deal.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "QT-202401-0001", *second.QuotationNumber)

	other := f.createDeal(t)
	third, err := f.quotations.IssueQuotationNumber(context.Background(), other.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "QT-202401-0002", *third.QuotationNumber)
}

func TestGetQuotation_RendersDeal(t *testing.T) {
	f := newFixture(t)
	deal := f.createDeal(t)

	q, err := f.quotations.GetQuotation(context.Background(), deal.ID, f.owner)
	require.NoError(t, err)

	assert.Nil(t, q.QuotationNumber)
	assert.Equal(t, "Acme Co., Ltd.", q.Company.Name)
	assert.Equal(t, "Jaidee Trading", q.Customer.Name)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "Annual license", q.Items[0].Description.Name)
	assertDecimal(t, "2000", q.Items[0].Amount, "line amount")
	assertDecimal(t, "1976", q.Totals.NetTotal, "net total")
}

func TestQuotation_Access(t *testing.T) {
	f := newFixture(t)
	deal := f.createDeal(t)

	_, err := f.quotations.GetQuotation(context.Background(), uuid.New(), f.owner)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	stranger := Actor{UserID: uuid.New()}
	_, err = f.quotations.GetQuotation(context.Background(), deal.ID, stranger)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
	_, err = f.quotations.IssueQuotationNumber(context.Background(), deal.ID, stranger)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)

	admin := Actor{UserID: uuid.New(), Roles: []string{RoleAdmin}}
	_, err = f.quotations.GetQuotation(context.Background(), deal.ID, admin)
	assert.NoError(t, err)
}
