package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/pkg/models"
)

func TestSummarizeEmptySet(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalLeads)
	assert.Equal(t, 0, summary.ConvertedLeads)
	assert.Equal(t, "0%", summary.ConversionRate)
	assert.Equal(t, float64(0), summary.TotalValue)
	assert.Empty(t, summary.StageDistribution)
	assert.Empty(t, summary.SourceDistribution)
}

func TestSummarizeCountsAndRate(t *testing.T) {
	leads := []models.Lead{
		{FirstName: "Ann", Stage: models.StageWon, Source: models.SourceWebsite, Value: 100},
		{FirstName: "Bob", Stage: models.StageNew, Source: models.SourceReferral, Value: 50},
	}

	summary := Summarize(leads)

	assert.Equal(t, 2, summary.TotalLeads)
	assert.Equal(t, 1, summary.ConvertedLeads)
	assert.Equal(t, "50.00%", summary.ConversionRate)
	assert.Equal(t, float64(150), summary.TotalValue)
}

func TestSummarizeConversionRateFormatting(t *testing.T) {
	leads := []models.Lead{
		{Stage: models.StageWon, Source: models.SourceOther},
		{Stage: models.StageNew, Source: models.SourceOther},
		{Stage: models.StageNew, Source: models.SourceOther},
	}

	summary := Summarize(leads)

	assert.Equal(t, "33.33%", summary.ConversionRate)
}

func TestSummarizeDistributionsOrderedByCountDesc(t *testing.T) {
	leads := []models.Lead{
		{Stage: models.StageNew, Source: models.SourceWebsite},
		{Stage: models.StageNew, Source: models.SourceWebsite},
		{Stage: models.StageNew, Source: models.SourceEmail},
		{Stage: models.StageWon, Source: models.SourceWebsite},
	}

	summary := Summarize(leads)

	require.Len(t, summary.StageDistribution, 2)
	assert.Equal(t, models.DistributionEntry{Key: models.StageNew, Count: 3}, summary.StageDistribution[0])
	assert.Equal(t, models.DistributionEntry{Key: models.StageWon, Count: 1}, summary.StageDistribution[1])

	require.Len(t, summary.SourceDistribution, 2)
	assert.Equal(t, models.DistributionEntry{Key: models.SourceWebsite, Count: 3}, summary.SourceDistribution[0])
	assert.Equal(t, models.DistributionEntry{Key: models.SourceEmail, Count: 1}, summary.SourceDistribution[1])
}

func TestSummarizeDistributionTiesBreakByKey(t *testing.T) {
	leads := []models.Lead{
		{Stage: models.StageWon, Source: models.SourceEvent},
		{Stage: models.StageLost, Source: models.SourceEmail},
	}

	summary := Summarize(leads)

	require.Len(t, summary.StageDistribution, 2)
	assert.Equal(t, models.StageLost, summary.StageDistribution[0].Key)
	assert.Equal(t, models.StageWon, summary.StageDistribution[1].Key)
}

func TestSummarizeIsPure(t *testing.T) {
	leads := []models.Lead{
		{Stage: models.StageWon, Source: models.SourceWebsite, Value: 10},
	}

	first := Summarize(leads)
	second := Summarize(leads)

	assert.Equal(t, first, second)
}
