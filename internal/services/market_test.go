package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansathi-backend/internal/models"
)

func TestMarketRates_Defaults(t *testing.T) {
	got := NewMarketService().Rates("", "")

	assert.Equal(t, "Tomato", got.Crop)
	assert.Equal(t, "Thanjavur", got.District)
	assert.Len(t, got.Markets, 4)
	assert.Equal(t, 2450, got.BestPrice)
}

func TestMarketRates_ReturnsCopy(t *testing.T) {
	svc := NewMarketService()
	got := svc.Rates("Onion", "Madurai")
	got.Markets[0].Price = 1

	assert.Equal(t, 2400, svc.Rates("", "").Markets[0].Price)
}

func TestMarketProfit(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ProfitRequest
		profit  int64
		revenue int64
		wantErr bool
	}{
		{"basic", models.ProfitRequest{TransportCost: 1500, LoadWeight: 10}, 23000, 24500, false},
		{"fractional load", models.ProfitRequest{TransportCost: 0, LoadWeight: 2.5}, 6125, 6125, false},
		{"zero load", models.ProfitRequest{TransportCost: 100, LoadWeight: 0}, 0, 0, true},
		{"negative cost", models.ProfitRequest{TransportCost: -1, LoadWeight: 1}, 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewMarketService().Profit(tc.req)
			if tc.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.profit, got.Profit)
			assert.Equal(t, tc.revenue, got.Revenue)
			assert.Equal(t, 2450, got.BestPrice)
		})
	}
}
