package types

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Text is a string field decoded leniently from model output: strings pass through,
// numbers and booleans keep their literal text, lists collapse to their first element,
// null and objects become empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}
	switch data[0] {
	case 'n':
		*t = ""
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = ""
		if len(items) > 0 {
			return t.UnmarshalJSON(items[0])
		}
	case '{':
		*t = ""
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Amount is a numeric field decoded leniently: numbers pass through, strings such as
// "¥150" or "120 min" yield their first number, anything else is zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*a = 0
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
	case 'n', 't', 'f', '[', '{':
		*a = 0
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*a = Amount(f)
	}
	return nil
}

// ParseAmount extracts the first number in s, or zero when there is none.
func ParseAmount(s string) Amount {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return Amount(f)
}
