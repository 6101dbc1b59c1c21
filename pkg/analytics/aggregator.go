// Package analytics computes dashboard summary metrics over the full lead
// collection. The pure aggregator here backs the in-memory store; the MongoDB
// store produces the same summary with aggregation pipelines.
package analytics

import (
	"fmt"
	"sort"

	"github.com/leadhub/leadhub/pkg/models"
)

// Summarize aggregates the supplied records. An empty set is valid and yields
// zeroed counts, a "0%" conversion rate and empty distributions.
func Summarize(records []models.Lead) models.AnalyticsSummary {
	summary := models.AnalyticsSummary{
		ConversionRate:     "0%",
		StageDistribution:  []models.DistributionEntry{},
		SourceDistribution: []models.DistributionEntry{},
	}

	stages := make(map[string]int)
	sources := make(map[string]int)

	for _, l := range records {
		summary.TotalLeads++
		summary.TotalValue += l.Value
		if l.Stage == models.StageWon {
			summary.ConvertedLeads++
		}
		stages[l.Stage]++
		sources[l.Source]++
	}

	if summary.TotalLeads > 0 {
		rate := float64(summary.ConvertedLeads) / float64(summary.TotalLeads) * 100
		summary.ConversionRate = fmt.Sprintf("%.2f%%", rate)
	}

	summary.StageDistribution = distribution(stages)
	summary.SourceDistribution = distribution(sources)
	return summary
}

// distribution turns a count map into entries ordered by count descending,
// ties broken by key ascending so output is deterministic.
func distribution(counts map[string]int) []models.DistributionEntry {
	entries := make([]models.DistributionEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, models.DistributionEntry{Key: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}
