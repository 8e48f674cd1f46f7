package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemeList(t *testing.T) {
	tests := []struct {
		name     string
		category string
		search   string
		want     []string
	}{
		{"all", "", "", []string{"Pradhan Mantri Fasal Bima Yojana", "PM-KISAN", "Kisan Credit Card"}},
		{"all keyword", "All", "", []string{"Pradhan Mantri Fasal Bima Yojana", "PM-KISAN", "Kisan Credit Card"}},
		{"loans", "Loans", "", []string{"Kisan Credit Card"}},
		{"category case-insensitive", "insurance", "", []string{"Pradhan Mantri Fasal Bima Yojana"}},
		{"search", "", "kisan", []string{"PM-KISAN", "Kisan Credit Card"}},
		{"search and category", "Subsidies", "kisan", []string{"PM-KISAN"}},
		{"no match", "Loans", "bima", []string{}},
	}

	svc := NewSchemeService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.List(tc.category, tc.search)
			titles := []string{}
			for _, s := range got.Schemes {
				titles = append(titles, s.Title)
			}
			assert.Equal(t, tc.want, titles)
			assert.Equal(t, []string{"All", "Subsidies", "Loans", "Insurance"}, got.Categories)
		})
	}
}
