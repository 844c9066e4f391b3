package amap

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexKind tells which shape a FlexString arrived in.
type FlexKind int

const (
	FlexNull FlexKind = iota
	FlexScalar
	FlexList
)

// FlexString holds a provider field that may be a string, a list of strings, or null.
// AMap returns [] for many empty fields, so every loosely typed field decodes through here.
type FlexString struct {
	Kind   FlexKind
	Scalar string
	List   []string
}

func Scalar(s string) FlexString { return FlexString{Kind: FlexScalar, Scalar: s} }

func List(items ...string) FlexString { return FlexString{Kind: FlexList, List: items} }

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexString{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case 'n', '{':
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Scalar(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			var elem FlexString
			if err := elem.UnmarshalJSON(item); err != nil {
				return err
			}
			list = append(list, elem.String())
		}
		*f = FlexString{Kind: FlexList, List: list}
	default:
		*f = Scalar(string(data))
	}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FlexScalar:
		return json.Marshal(f.Scalar)
	case FlexList:
		if f.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(f.List)
	default:
		return []byte("null"), nil
	}
}

// String returns the scalar value, or the first list element.
func (f FlexString) String() string {
	switch f.Kind {
	case FlexScalar:
		return f.Scalar
	case FlexList:
		if len(f.List) > 0 {
			return f.List[0]
		}
	}
	return ""
}

// RawLocation is a coordinate pair as a provider sends it: a "lon,lat" string,
// a {"longitude","latitude"} object, a [lon, lat] list, or nothing.
// Missing components stay nil.
type RawLocation struct {
	Longitude *float64
	Latitude  *float64
}

func (l *RawLocation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = RawLocation{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parts := strings.Split(s, ",")
		if len(parts) == 2 {
			l.Longitude = parseCoord(parts[0])
			l.Latitude = parseCoord(parts[1])
		}
	case '{':
		var obj struct {
			Longitude *float64 `json:"longitude"`
			Latitude  *float64 `json:"latitude"`
			Lng       *float64 `json:"lng"`
			Lat       *float64 `json:"lat"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		l.Longitude, l.Latitude = obj.Longitude, obj.Latitude
		if l.Longitude == nil {
			l.Longitude = obj.Lng
		}
		if l.Latitude == nil {
			l.Latitude = obj.Lat
		}
	case '[':
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return nil
		}
		if len(pair) == 2 {
			l.Longitude, l.Latitude = &pair[0], &pair[1]
		}
	}
	return nil
}

func parseCoord(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
