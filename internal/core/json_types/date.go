package json_types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Vendor timestamps come in several layouts, frequently without a
// timezone. Dates without an offset are read in the local clinic zone.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

func parseDate(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, layout := range dateLayouts {
		if strings.Contains(layout, "Z07:00") {
			if parsed, err := time.Parse(layout, str); err == nil {
				return parsed, nil
			}
			continue
		}
		if parsed, err := time.ParseInLocation(layout, str, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}

// DateTimeOrEmpty decodes any of the supported layouts; null and the
// empty string decode to the zero time. Used for every optional vendor
// timestamp.
type DateTimeOrEmpty struct {
	Date time.Time
}

func (t *DateTimeOrEmpty) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if strings.TrimSpace(str) == "" {
		return nil
	}

	parsed, err := parseDate(str)
	if err != nil {
		return err
	}

	*t = DateTimeOrEmpty{Date: parsed}
	return nil
}

func (t DateTimeOrEmpty) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(t.Date.Format(time.RFC3339))
}

// Ptr returns nil for the zero time, letting parsed records distinguish
// "field not present" from a real timestamp.
func (t DateTimeOrEmpty) Ptr() *time.Time {
	if t.Date.IsZero() {
		return nil
	}
	d := t.Date
	return &d
}
