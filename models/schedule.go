package models

import "time"

// Weekday is the lowercase day-of-week symbol used in schedule documents.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Valid reports whether w is one of the seven weekday symbols.
func (w Weekday) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// WeekdayOf maps a calendar time to its schedule symbol.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// TimeSlot is a bookable window embedded in a Schedule document.
type TimeSlot struct {
	StartTime   string `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime     string `bson:"endTime" json:"endTime"`     // "HH:MM"
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
}

// Range formats the slot as "HH:MM-HH:MM", the shape stored on appointments.
func (ts TimeSlot) Range() string {
	return ts.StartTime + "-" + ts.EndTime
}

// Matches reports whether the slot covers the exact same window as other.
func (ts TimeSlot) Matches(other TimeSlot) bool {
	return ts.StartTime == other.StartTime && ts.EndTime == other.EndTime
}

// Schedule is the per-psychologist, per-weekday collection of timeslots.
// Uniqueness of (psychologistId, dayOfWeek) is enforced by a compound index.
type Schedule struct {
	ID             string     `bson:"id" json:"id"`
	PsychologistID string     `bson:"psychologistId" json:"psychologistId"`
	DayOfWeek      Weekday    `bson:"dayOfWeek" json:"dayOfWeek"`
	TimeSlots      []TimeSlot `bson:"timeSlots" json:"timeSlots"`
	IsRecurring    bool       `bson:"isRecurring" json:"isRecurring"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}
