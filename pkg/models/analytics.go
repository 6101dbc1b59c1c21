package models

// DistributionEntry is a grouped count, keyed by stage or source.
type DistributionEntry struct {
	Key   string `json:"_id" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// AnalyticsSummary aggregates the whole lead collection.
type AnalyticsSummary struct {
	TotalLeads         int                 `json:"totalLeads"`
	ConvertedLeads     int                 `json:"convertedLeads"`
	ConversionRate     string              `json:"conversionRate"`
	TotalValue         float64             `json:"totalValue"`
	StageDistribution  []DistributionEntry `json:"stageDistribution"`
	SourceDistribution []DistributionEntry `json:"sourceDistribution"`
}

// AnalyticsResponse is the envelope for the analytics endpoint.
type AnalyticsResponse struct {
	Success bool             `json:"success"`
	Data    AnalyticsSummary `json:"data"`
}
