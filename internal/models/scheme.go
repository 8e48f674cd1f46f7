package models

type Scheme struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Desc     string `json:"desc"`
	Details  string `json:"details,omitempty"`
}

type SchemesResponse struct {
	Schemes    []Scheme `json:"schemes"`
	Categories []string `json:"categories"`
}
