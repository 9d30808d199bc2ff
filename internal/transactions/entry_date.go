package transactions

import (
	"bytes"
	"encoding/json"
	"time"

	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
)

// EntryDate is a transaction date as sent by a client: either a bare
// calendar date or an RFC3339 timestamp. The offset of a timestamp is kept
// so the entry stays on the client's calendar day.
type EntryDate struct {
	time.Time
}

// NewEntryDate wraps t without changing its location.
func NewEntryDate(t time.Time) *EntryDate {
	return &EntryDate{Time: t}
}

// Day is the calendar date in the zone the value was given in.
func (d EntryDate) Day() string {
	return d.Format(DateLayout)
}

func (d *EntryDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return pkgerrors.Validation("거래 날짜 형식이 올바르지 않습니다")
	}
	parsed, err := ParseEntryDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func (d EntryDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.RFC3339))
}

// ParseEntryDate accepts "2006-01-02" as midnight UTC or an RFC3339 timestamp.
func ParseEntryDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Validation("거래 날짜 형식이 올바르지 않습니다")
	}
	return t, nil
}
