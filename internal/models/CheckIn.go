package models

import "time"

// CheckIn is the canonical record written for every accepted legacy row.
// A record is never mutated after insertion; (PersonID, SubmittedAt) identifies it.
type CheckIn struct {
	ID          string    `json:"id"`
	PersonID    string    `json:"person_id"`
	EventDate   time.Time `json:"event_date"`
	SubmittedAt time.Time `json:"submitted_at"`
	Weather     string    `json:"weather"`
	Moods       []string  `json:"moods"`
	Note        *string   `json:"note,omitempty"`
	Presence    int       `json:"presence"`
	Capacity    int       `json:"capacity"`

	// At most one of SupportPersonID and SupportLabel is set.
	SupportPersonID *string `json:"support_person_id,omitempty"`
	SupportLabel    *string `json:"support_label,omitempty"`

	Source        string    `json:"source"`
	ImportBatchID string    `json:"import_batch_id"`
	ImportedAt    time.Time `json:"imported_at"`
}

type CheckInKey struct {
	PersonID    string
	SubmittedAt int64 // unix millis
}

func (c *CheckIn) Key() CheckInKey {
	return KeyOf(c.PersonID, c.SubmittedAt)
}

func KeyOf(personID string, at time.Time) CheckInKey {
	return CheckInKey{PersonID: personID, SubmittedAt: at.UTC().UnixMilli()}
}
