package entity

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusTesting    ProjectStatus = "testing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusPlanning:   {ProjectStatusInProgress, ProjectStatusTesting, ProjectStatusCompleted},
	ProjectStatusInProgress: {ProjectStatusTesting, ProjectStatusCompleted},
	ProjectStatusTesting:    {ProjectStatusInProgress, ProjectStatusCompleted},
	ProjectStatusOnHold:     {ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusTesting},
	ProjectStatusCompleted:  nil,
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectTransitions[s]
	return ok
}

// CanTransitionTo allows forward moves, testing back to in-progress, and
// on-hold from anywhere. Staying put is always allowed.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next || next == ProjectStatusOnHold {
		return true
	}
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ProjectStatus) Active() bool {
	return s == ProjectStatusPlanning || s == ProjectStatusInProgress || s == ProjectStatusTesting
}

type ProjectPriority string

const (
	PriorityLow    ProjectPriority = "low"
	PriorityMedium ProjectPriority = "medium"
	PriorityHigh   ProjectPriority = "high"
	PriorityUrgent ProjectPriority = "urgent"
)

type Project struct {
	Base
	BookingID   *uuid.UUID      `db:"booking_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Status      ProjectStatus   `db:"status"`
	Priority    ProjectPriority `db:"priority"`
	Progress    int             `db:"progress"` // 0-100
	Budget      string          `db:"budget"`
	AssignedTo  string          `db:"assigned_to"`
	ClientEmail string          `db:"client_email"`
	StartDate   *time.Time      `db:"start_date"`
	DueDate     *time.Time      `db:"due_date"`
}

type ProjectUpdate struct {
	BaseSimple
	ProjectID       uuid.UUID     `db:"project_id"`
	Title           string        `db:"title"`
	Description     string        `db:"description"`
	Status          ProjectStatus `db:"status"`
	Progress        int           `db:"progress"`
	VisibleToClient bool          `db:"visible_to_client"`
}
