package models

import "time"

// Lead stages, in pipeline order.
const (
	StageNew         = "New"
	StageContacted   = "Contacted"
	StageQualified   = "Qualified"
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageWon         = "Won"
	StageLost        = "Lost"
)

// Lead acquisition sources.
const (
	SourceWebsite     = "Website"
	SourceEmail       = "Email"
	SourceSocialMedia = "Social Media"
	SourceReferral    = "Referral"
	SourceEvent       = "Event"
	SourceOther       = "Other"
)

// Lead statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Stages lists the valid pipeline stages.
var Stages = []string{StageNew, StageContacted, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost}

// Sources lists the valid acquisition channels.
var Sources = []string{SourceWebsite, SourceEmail, SourceSocialMedia, SourceReferral, SourceEvent, SourceOther}

// Statuses lists the valid lead statuses.
var Statuses = []string{StatusActive, StatusInactive}

// Lead is a prospective customer tracked through the sales pipeline.
type Lead struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	FirstName       string     `json:"firstName" bson:"firstName"`
	LastName        string     `json:"lastName" bson:"lastName"`
	Email           string     `json:"email" bson:"email"`
	Phone           string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Company         string     `json:"company,omitempty" bson:"company,omitempty"`
	JobTitle        string     `json:"jobTitle,omitempty" bson:"jobTitle,omitempty"`
	Stage           string     `json:"stage" bson:"stage"`
	Source          string     `json:"source" bson:"source"`
	Status          string     `json:"status" bson:"status"`
	Value           float64    `json:"value" bson:"value"`
	Notes           string     `json:"notes,omitempty" bson:"notes,omitempty"`
	LastContactDate *time.Time `json:"lastContactDate,omitempty" bson:"lastContactDate,omitempty"`
	ConvertedDate   *time.Time `json:"convertedDate,omitempty" bson:"convertedDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CreateLeadRequest is the payload for creating a lead. Stage, source and
// status fall back to their schema defaults when omitted.
type CreateLeadRequest struct {
	FirstName       string     `json:"firstName" validate:"required"`
	LastName        string     `json:"lastName" validate:"required"`
	Email           string     `json:"email" validate:"required,email"`
	Phone           string     `json:"phone"`
	Company         string     `json:"company"`
	JobTitle        string     `json:"jobTitle"`
	Stage           string     `json:"stage" validate:"omitempty,oneof=New Contacted Qualified Proposal Negotiation Won Lost"`
	Source          string     `json:"source" validate:"omitempty,oneof=Website Email 'Social Media' Referral Event Other"`
	Status          string     `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Value           float64    `json:"value" validate:"gte=0"`
	Notes           string     `json:"notes"`
	LastContactDate *time.Time `json:"lastContactDate"`
}

// UpdateLeadRequest is a partial update; nil fields are left untouched.
type UpdateLeadRequest struct {
	FirstName       *string    `json:"firstName" validate:"omitempty,min=1"`
	LastName        *string    `json:"lastName" validate:"omitempty,min=1"`
	Email           *string    `json:"email" validate:"omitempty,email"`
	Phone           *string    `json:"phone"`
	Company         *string    `json:"company"`
	JobTitle        *string    `json:"jobTitle"`
	Stage           *string    `json:"stage" validate:"omitempty,oneof=New Contacted Qualified Proposal Negotiation Won Lost"`
	Source          *string    `json:"source" validate:"omitempty,oneof=Website Email 'Social Media' Referral Event Other"`
	Status          *string    `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Value           *float64   `json:"value" validate:"omitempty,gte=0"`
	Notes           *string    `json:"notes"`
	LastContactDate *time.Time `json:"lastContactDate"`
}

// LeadListResponse is the envelope for paginated lead queries.
type LeadListResponse struct {
	Success    bool       `json:"success"`
	Data       []Lead     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// LeadResponse is the envelope for single-lead operations.
type LeadResponse struct {
	Success bool `json:"success"`
	Data    Lead `json:"data"`
}

// Pagination describes a result page's position within the full matched set.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}
