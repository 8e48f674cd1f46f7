package services

import (
	"strings"

	"kisansathi-backend/internal/models"
)

var schemeCategories = []string{"All", "Subsidies", "Loans", "Insurance"}

type SchemeService struct {
	schemes []models.Scheme
}

func NewSchemeService() *SchemeService {
	return &SchemeService{
		schemes: []models.Scheme{
			{
				Title:    "Pradhan Mantri Fasal Bima Yojana",
				Category: "Insurance",
				Status:   "Open",
				Desc:     "Crop insurance scheme for farmers against crop failure",
				Details:  "This scheme provides financial support to farmers suffering crop loss/damage arising out of unforeseen events.",
			},
			{
				Title:    "PM-KISAN",
				Category: "Subsidies",
				Status:   "Open",
				Desc:     "Direct income support of ₹6,000 per year to farmers",
				Details:  "Under this scheme, all landholding farmers' families shall get ₹6,000 per year in three equal installments.",
			},
			{
				Title:    "Kisan Credit Card",
				Category: "Loans",
				Status:   "Open",
				Desc:     "Easy credit for agricultural needs at low interest",
				Details:  "KCC provides affordable credit for farmers for their cultivation needs, purchase of inputs and other farm expenses.",
			},
		},
	}
}

// List filters by category ("" or "All" matches everything) and a
// case-insensitive title search.
func (s *SchemeService) List(category, search string) models.SchemesResponse {
	search = strings.ToLower(strings.TrimSpace(search))

	out := []models.Scheme{}
	for _, sc := range s.schemes {
		if category != "" && category != "All" && !strings.EqualFold(sc.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(sc.Title), search) {
			continue
		}
		out = append(out, sc)
	}

	return models.SchemesResponse{
		Schemes:    out,
		Categories: append([]string(nil), schemeCategories...),
	}
}
