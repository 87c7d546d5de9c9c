package model

import (
	"time"
)

// Session status lifecycle. Only non-cancelled sessions occupy time on a
// coach's calendar.
const (
	SessionStatusPending     = "pending"
	SessionStatusConfirmed   = "confirmed"
	SessionStatusCancelled   = "cancelled"
	SessionStatusCompleted   = "completed"
	SessionStatusNoShow      = "no-show"
	SessionStatusRescheduled = "rescheduled"
)

const (
	SessionTypeVideo    = "video"
	SessionTypePhone    = "phone"
	SessionTypeInPerson = "in-person"
)

type CoachingSession struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CoachID      string    `json:"coach_id" bson:"coach_id" validate:"required,mongodb"`
	SessionTitle string    `json:"session_title" bson:"session_title" validate:"required,min=2,max=100"`
	BookerName   string    `json:"booker_name" bson:"booker_name" validate:"required,min=2,max=100"`
	BookerEmail  string    `json:"booker_email" bson:"booker_email" validate:"required,email"`
	ScheduledAt  time.Time `json:"scheduled_at" bson:"scheduled_at" validate:"required"`
	DurationMin  int       `json:"duration_min" bson:"duration_min" validate:"required,min=15,max=240"`
	TimeZone     string    `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed no-show rescheduled"`
	SessionType  string    `json:"session_type,omitempty" bson:"session_type" validate:"omitempty,oneof=video phone in-person"`
	Notes        string    `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=2000"`
	BookedAt     time.Time `json:"booked_at" bson:"booked_at" validate:"omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type CoachingSessionUpdate struct {
	SessionTitle string     `json:"session_title,omitempty" validate:"omitempty,min=2,max=100"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	DurationMin  *int       `json:"duration_min,omitempty" validate:"omitempty,min=15,max=240"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed no-show rescheduled"`
	SessionType  string     `json:"session_type,omitempty" validate:"omitempty,oneof=video phone in-person"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// OccupiedUntil returns the end of the session's occupied interval,
// [ScheduledAt, ScheduledAt + DurationMin).
func (s *CoachingSession) OccupiedUntil() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMin) * time.Minute)
}
