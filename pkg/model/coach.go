package model

import (
	"time"
)

// Day codes used by weekly availability rules.
const (
	DayMon = "mon"
	DayTue = "tue"
	DayWed = "wed"
	DayThu = "thu"
	DayFri = "fri"
	DaySat = "sat"
	DaySun = "sun"
)

// WeeklyAvailability is one recurring availability window: a day of week
// plus a local time-of-day range, interpreted in the coach's timezone.
type WeeklyAvailability struct {
	Day       string `json:"day" bson:"day" validate:"required,oneof=mon tue wed thu fri sat sun"`
	StartTime string `json:"start_time" bson:"start_time" validate:"required,time_of_day"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required,time_of_day"`
}

type CoachProfile struct {
	ID           string               `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DisplayName  string               `json:"display_name" bson:"display_name" validate:"required,min=2,max=100"`
	Slug         string               `json:"slug,omitempty" bson:"slug" validate:"omitempty,min=2,max=120"`
	Bio          string               `json:"bio,omitempty" bson:"bio" validate:"omitempty,max=2000"`
	TimeZone     string               `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	Availability []WeeklyAvailability `json:"availability,omitempty" bson:"availability" validate:"omitempty,max=50,dive"`
	IsActive     bool                 `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type CoachProfileUpdate struct {
	DisplayName  string                `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug         string                `json:"slug,omitempty" validate:"omitempty,min=2,max=120"`
	Bio          *string               `json:"bio,omitempty" validate:"omitempty,max=2000"`
	TimeZone     string                `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Availability *[]WeeklyAvailability `json:"availability,omitempty" validate:"omitempty,max=50,dive"`
	IsActive     *bool                 `json:"is_active,omitempty"`
}
