package config

import (
	"testing"
	"time"

	"github.com/sangkips/crm-billing/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseRate(t *testing.T) {
	assert.True(t, decimal.NewFromFloat(7.5).Equal(parseRate("7.5")))
	assert.True(t, decimal.NewFromInt(pricing.DefaultVATPercent).Equal(parseRate("seven")))
}

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, loadLocation("Not/AZone"))
	assert.Equal(t, "UTC", loadLocation("UTC").String())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BILLING_ALLOCATION_RETRIES", "3")
	cfg := Load()

	assert.Equal(t, 3, cfg.Billing.AllocationRetries)
	assert.True(t, decimal.NewFromInt(pricing.DefaultVATPercent).Equal(cfg.Billing.DefaultVATRate),
		"got %s", cfg.Billing.DefaultVATRate)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "", cfg.Redis.Addr)
}
