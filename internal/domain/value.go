package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a candidate answer. Question banks mix numeric answers ("-3") with
// textual ones ("3/4"); a number never equals a string even if they print alike.
type Value struct {
	isText bool
	num    float64
	text   string
}

// Number builds a numeric answer.
func Number(n float64) Value {
	return Value{num: n}
}

// Text builds a textual answer.
func Text(s string) Value {
	return Value{isText: true, text: s}
}

// IsText reports whether the value is textual.
func (v Value) IsText() bool { return v.isText }

// Float returns the numeric content, zero for text.
func (v Value) Float() float64 { return v.num }

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.isText != o.isText {
		return false
	}
	if v.isText {
		return v.text == o.text
	}
	return v.num == o.num
}

func (v Value) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON keeps the JSON kind of the original bank entry.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("answer must be a number or string: %w", err)
	}
	*v = Number(n)
	return nil
}
