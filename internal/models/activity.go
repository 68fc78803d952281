package models

import (
	"time"
)

// Activity type constants. These are the source rows every data asset
// aggregates over.
const (
	ActivityCandidateCall = "candidate_call"
	ActivityClientCall    = "client_call"
	ActivityInterview     = "interview"
	ActivityCVSent        = "cv_sent"
	ActivityJobOrder      = "job_order"
	ActivityPlacement     = "placement"
)

// Pipeline stage constants, in funnel order.
const (
	StageSourced     = "sourced"
	StageContacted   = "contacted"
	StageInterviewed = "interviewed"
	StageOffered     = "offered"
	StagePlaced      = "placed"
)

// Activity is one recruitment action recorded against a consultant.
// Value carries the fee amount for revenue-bearing rows (placements) and is
// zero otherwise.
type Activity struct {
	ActivityID   string    `firestore:"activityId" json:"activityId"`
	ConsultantID string    `firestore:"consultantId" json:"consultantId"`
	TeamID       string    `firestore:"teamId" json:"teamId,omitempty"`
	Region       string    `firestore:"region" json:"region,omitempty"`
	Type         string    `firestore:"type" json:"type"`
	Stage        string    `firestore:"stage" json:"stage,omitempty"`
	Candidate    string    `firestore:"candidate" json:"candidate,omitempty"`
	ClientName   string    `firestore:"clientName" json:"clientName,omitempty"`
	JobTitle     string    `firestore:"jobTitle" json:"jobTitle,omitempty"`
	Date         string    `firestore:"date" json:"date"` // YYYY-MM-DD
	Value        float64   `firestore:"value" json:"value"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
