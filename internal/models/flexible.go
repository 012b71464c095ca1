package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexibleString decodes a JSON string or number into a string.
// Billing providers send numeric IDs that are stored as text.
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexibleString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexibleString(n.String())
	return nil
}

// String returns the plain string value
func (f FlexibleString) String() string {
	return string(f)
}
