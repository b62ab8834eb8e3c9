package json_types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The vendor gateways emit JSON converted from XML documents, so shapes
// drift: a repeated element arrives as a bare object or an array,
// booleans and numbers arrive as strings. These types normalize every
// variant at the decode boundary so nothing past the parser sees the
// ambiguity.

// FlexList decodes a bare object as a one-element slice and an array
// as-is. Null and absent both decode to nil.
type FlexList[T any] []T

func (l *FlexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = FlexList[T]{one}
	return nil
}

func (l FlexList[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]T(l))
}

// FlexBool accepts a JSON bool or the literal strings "true"/"false"
// (any case, "1"/"0" included). Absent or unparseable decodes to false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*b = false
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "s", "sim":
			*b = true
		default:
			*b = false
		}
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = FlexBool(v)
	return nil
}

func (b FlexBool) Bool() bool {
	return bool(b)
}

// FlexInt accepts a JSON number or a decimal string. Absent or empty
// decodes to zero.
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*i = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*i = FlexInt(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = FlexInt(n)
	return nil
}

func (i FlexInt) Int() int {
	return int(i)
}

// FlexString accepts a JSON string or number and keeps it as text,
// which is how loosely typed vendor fields (codes, quantities) are
// carried until a parser decides otherwise.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	*s = FlexString(data)
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// StatusCode is the vendor success discriminator: the literal integer 0
// and the string "0" both mean success.
type StatusCode string

func (c *StatusCode) UnmarshalJSON(data []byte) error {
	var fs FlexString
	if err := fs.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = StatusCode(strings.TrimSpace(string(fs)))
	return nil
}

func (c StatusCode) OK() bool {
	return string(c) == "0"
}

func (c StatusCode) String() string {
	return string(c)
}
