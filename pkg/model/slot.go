package model

import (
	"fmt"
	"time"
)

// SlotTimeLayout renders UTC instants with millisecond precision and a Z
// suffix, matching what the booking calendar consumes.
const SlotTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Slot is a bookable UTC time interval. Slots are computed per request and
// never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"start":%q,"end":%q}`,
		s.Start.UTC().Format(SlotTimeLayout),
		s.End.UTC().Format(SlotTimeLayout),
	)), nil
}
