package normalize

import "time"

// Coordinates is the single normalized shape for geographic position.
// Nil pointers mean the source document carried no usable value.
type Coordinates struct {
	Latitude  *float64
	Longitude *float64
}

// HasBoth reports whether both coordinates are present.
func (c Coordinates) HasBoth() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Fields is a normalized entity: a total mapping from canonical field name to
// value. Values are string, float64, bool, time.Time, or Coordinates. Every
// canonical field of the entity's kind is present, so consumers never need
// nil-guards for fields they expect.
type Fields map[string]any

// Str returns the string value of a canonical field, or "".
func (f Fields) Str(key string) string {
	v, _ := f[key].(string)
	return v
}

// Num returns the numeric value of a canonical field, or 0.
func (f Fields) Num(key string) float64 {
	v, _ := f[key].(float64)
	return v
}

// Bool returns the boolean value of a canonical field, or false.
func (f Fields) Bool(key string) bool {
	v, _ := f[key].(bool)
	return v
}

// Time returns the timestamp value of a canonical field, or the zero time.
func (f Fields) Time(key string) time.Time {
	v, _ := f[key].(time.Time)
	return v
}

// Coords returns the coordinates value of a canonical field.
func (f Fields) Coords(key string) Coordinates {
	v, _ := f[key].(Coordinates)
	return v
}
