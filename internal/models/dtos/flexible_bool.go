package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexibleBool accepts true/false or a sheet cell string ("x", "sim", "TRUE", "").
type FlexibleBool bool

func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	if fb == nil {
		return fmt.Errorf("FlexibleBool: nil receiver")
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*fb = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*fb = FlexibleBool(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "x", "true", "sim", "s", "1", "presente":
			*fb = true
		default:
			*fb = false
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*fb = n.String() != "0"
		return nil
	}

	return fmt.Errorf("FlexibleBool: expected bool or string, got %s", string(data))
}

func (fb FlexibleBool) Bool() bool {
	return bool(fb)
}
