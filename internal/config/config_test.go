package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.HTTPAddr)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.True(t, cfg.CommissionRatePct.Equal(decimal.NewFromInt(5)))
	require.Equal(t, 4, cfg.NotifierWorkers)
}

func TestLoadCommissionRate(t *testing.T) {
	t.Setenv("COMMISSION_RATE_PCT", "7.5")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.CommissionRatePct.Equal(decimal.RequireFromString("7.5")))
}

func TestLoadRejectsBadCommissionRate(t *testing.T) {
	t.Setenv("COMMISSION_RATE_PCT", "abc")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("COMMISSION_RATE_PCT", "-1")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("COMMISSION_RATE_PCT", "120")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsBadWorkerCount(t *testing.T) {
	t.Setenv("NOTIFIER_WORKERS", "0")
	_, err := Load()
	require.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitCSV(" a , b ,"))
	require.Empty(t, splitCSV(" , "))
}
