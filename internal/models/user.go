package models

import (
	"time"
)

// Consultant roles.
const (
	RoleConsultant = "consultant"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
)

// Hierarchy scopes, narrowest first.
const (
	ScopeSelf     = "self"
	ScopeTeam     = "team"
	ScopeRegion   = "region"
	ScopeNational = "national"
)

// Consultant is a recruiter profile tied to a Firebase identity.
type Consultant struct {
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	FirstName string    `firestore:"firstName" json:"firstName"`
	LastName  string    `firestore:"lastName" json:"lastName"`
	Role      string    `firestore:"role" json:"role"`
	TeamID    string    `firestore:"teamId" json:"teamId,omitempty"`
	Region    string    `firestore:"region" json:"region,omitempty"`
	IsActive  bool      `firestore:"isActive" json:"isActive"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
