package request

import "time"

type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,notblank,max=200"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	ClientEmail string     `json:"clientEmail" validate:"required,basic_email"`
	BookingID   *string    `json:"bookingId,omitempty" validate:"omitempty,uuid"`
	Status      string     `json:"status" validate:"omitempty,oneof=planning in-progress testing completed on-hold"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Progress    int        `json:"progress" validate:"gte=0,lte=100"`
	Budget      string     `json:"budget" validate:"omitempty,max=100"`
	AssignedTo  string     `json:"assignedTo" validate:"omitempty,max=200"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// UpdateProjectRequest is a partial update. Note carries an optional
// description for the timeline entry written on status or progress changes.
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitnil,notblank,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=planning in-progress testing completed on-hold"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Progress    *int       `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	Budget      *string    `json:"budget,omitempty" validate:"omitempty,max=100"`
	AssignedTo  *string    `json:"assignedTo,omitempty" validate:"omitempty,max=200"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Note        *string    `json:"note,omitempty" validate:"omitempty,max=2000"`
	Internal    bool       `json:"internal"`
}

type SendMessageRequest struct {
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Body    string `json:"body" validate:"required,notblank,max=10000"`
}
