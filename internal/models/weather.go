package models

type Weather struct {
	Location  string   `json:"location"`
	Name      string   `json:"name,omitempty"`
	Temp      int      `json:"temp"`
	Condition string   `json:"condition"`
	Humidity  *int     `json:"humidity,omitempty"`
	WindSpeed *float64 `json:"windSpeed,omitempty"`
}
