// Package testdata generates realistic lead records for seeding and for the
// in-memory development backend.
package testdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/leadhub/leadhub/pkg/models"
)

var jobTitles = []string{
	"Manager", "Developer", "Designer", "Product Manager", "CEO", "CTO",
	"CFO", "Sales Manager", "HR Manager", "Marketing Manager",
}

// GenerateLead produces one lead with plausible field values. The identifier
// is assigned here so generated sets can be used directly by the in-memory
// store; persistent stores overwrite it on insert.
func GenerateLead(i int) models.Lead {
	firstName := gofakeit.FirstName()
	lastName := gofakeit.LastName()
	stage := models.Stages[gofakeit.Number(0, len(models.Stages)-1)]

	now := time.Now().UTC()
	createdAt := now.Add(-time.Duration(gofakeit.Number(0, 180*24)) * time.Hour)
	lastContact := now.Add(-time.Duration(gofakeit.Number(0, 90*24)) * time.Hour)

	lead := models.Lead{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email: fmt.Sprintf("%s.%s%d@%s",
			strings.ToLower(firstName), strings.ToLower(lastName), i, gofakeit.DomainName()),
		Phone:           gofakeit.Phone(),
		Company:         gofakeit.Company(),
		JobTitle:        jobTitles[gofakeit.Number(0, len(jobTitles)-1)],
		Stage:           stage,
		Source:          models.Sources[gofakeit.Number(0, len(models.Sources)-1)],
		Status:          models.StatusActive,
		Value:           float64(gofakeit.Number(5000, 105000)),
		Notes:           gofakeit.Sentence(8),
		LastContactDate: &lastContact,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}

	if gofakeit.Float64() < 0.2 {
		lead.Status = models.StatusInactive
	}
	if stage == models.StageWon {
		converted := now.Add(-time.Duration(gofakeit.Number(0, 30*24)) * time.Hour)
		lead.ConvertedDate = &converted
	}
	return lead
}

// GenerateLeads produces n leads with unique emails.
func GenerateLeads(n int) []models.Lead {
	leads := make([]models.Lead, n)
	for i := range leads {
		leads[i] = GenerateLead(i)
	}
	return leads
}
