// internal/models/candidate.go
package models

import (
	"encoding/json"
	"time"
)

// CanonicalDateLayout is the YYYY/M/D form dates are rendered in. Feeding the
// rendered text back through the date normalizer yields the same date.
const CanonicalDateLayout = "2006/1/2"

// Date is a naive calendar date that may be absent ("no date on record").
type Date struct {
	Time  time.Time
	Valid bool
}

// NoDate is the zero Date.
var NoDate = Date{}

// NewDate returns a valid Date at midnight UTC. Callers must pass a real
// calendar date; normalisation of out-of-range values is not checked here.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(CanonicalDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// Flag names a boolean predicate derived from a candidate's status text.
type Flag string

const (
	FlagAttended           Flag = "attended"
	FlagWanted             Flag = "wanted"
	FlagInterviewScheduled Flag = "interview_scheduled"
	FlagInterviewed        Flag = "interviewed"
	FlagPassed             Flag = "passed"
	FlagWithdrawnAny       Flag = "withdrawn_any"
	FlagOffered            Flag = "offered"
	FlagAccepted           Flag = "accepted"
	FlagConsidering        Flag = "considering"
	FlagSurveyConfirmed    Flag = "survey_confirmed"
	FlagPhoneConfirmed     Flag = "phone_confirmed"
	FlagEmailRead          Flag = "email_read"
	FlagDocumentsCollected Flag = "documents_collected"
)

// FlagSet holds the flags that evaluated true for one candidate.
type FlagSet map[Flag]bool

func (s FlagSet) Has(f Flag) bool {
	return s[f]
}

// CandidateRecord is one roster row after assembly. Dates and Flags are pure
// functions of Values and the run's configuration.
type CandidateRecord struct {
	Row         int             `json:"row"`
	DisplayName string          `json:"displayName"`
	Values      map[Role]string `json:"-"`
	Dates       map[Role]Date   `json:"dates,omitempty"`
	Flags       FlagSet         `json:"flags,omitempty"`
}

// Value returns the raw text of the cell bound to r ("" when unmapped or missing).
func (c CandidateRecord) Value(r Role) string {
	return c.Values[r]
}

// Date returns the parsed date for r, NoDate when r is unmapped or unparseable.
func (c CandidateRecord) Date(r Role) Date {
	return c.Dates[r]
}

func (c CandidateRecord) Has(f Flag) bool {
	return c.Flags.Has(f)
}
