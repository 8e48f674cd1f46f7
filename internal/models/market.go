package models

type MandiPrice struct {
	Name   string `json:"name"`
	Price  int    `json:"price"` // rupees per quintal
	Change int    `json:"change"`
	Trend  string `json:"trend"` // "up" or "down"
}

type MarketResponse struct {
	Crop      string       `json:"crop"`
	District  string       `json:"district"`
	Markets   []MandiPrice `json:"markets"`
	BestPrice int          `json:"bestPrice"`
}

type ProfitRequest struct {
	TransportCost float64 `json:"transportCost"`
	LoadWeight    float64 `json:"loadWeight"`
}

type ProfitResponse struct {
	BestPrice int   `json:"bestPrice"`
	Revenue   int64 `json:"revenue"`
	Profit    int64 `json:"profit"`
}
