package services

import (
	"fmt"
	"math"

	"kisansathi-backend/internal/models"
)

const (
	defaultCrop     = "Tomato"
	defaultDistrict = "Thanjavur"
)

// MarketService serves mandi rates from a static table.
type MarketService struct {
	markets []models.MandiPrice
}

func NewMarketService() *MarketService {
	return &MarketService{
		markets: []models.MandiPrice{
			{Name: "Kumbakonam Mandi", Price: 2400, Change: 50, Trend: "up"},
			{Name: "Thanjavur Market", Price: 2350, Change: 25, Trend: "up"},
			{Name: "Trichy APMC", Price: 2280, Change: -30, Trend: "down"},
			{Name: "Madurai Mandi", Price: 2450, Change: 75, Trend: "up"},
		},
	}
}

func (s *MarketService) Rates(crop, district string) models.MarketResponse {
	if crop == "" {
		crop = defaultCrop
	}
	if district == "" {
		district = defaultDistrict
	}

	markets := make([]models.MandiPrice, len(s.markets))
	copy(markets, s.markets)

	return models.MarketResponse{
		Crop:      crop,
		District:  district,
		Markets:   markets,
		BestPrice: s.bestPrice(),
	}
}

// Profit estimates the return of selling loadWeight at the best mandi price.
func (s *MarketService) Profit(req models.ProfitRequest) (models.ProfitResponse, error) {
	if req.LoadWeight <= 0 {
		return models.ProfitResponse{}, &ValidationError{Field: "loadWeight", Message: "load weight must be positive"}
	}
	if req.TransportCost < 0 {
		return models.ProfitResponse{}, &ValidationError{Field: "transportCost", Message: "transport cost cannot be negative"}
	}

	best := s.bestPrice()
	revenue := float64(best) * req.LoadWeight
	return models.ProfitResponse{
		BestPrice: best,
		Revenue:   int64(math.Round(revenue)),
		Profit:    int64(math.Round(revenue - req.TransportCost)),
	}, nil
}

func (s *MarketService) bestPrice() int {
	best := 0
	for _, m := range s.markets {
		if m.Price > best {
			best = m.Price
		}
	}
	return best
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
