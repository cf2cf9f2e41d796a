// Package normalize converts raw, schema-inconsistent documents into total
// canonical field maps. The same logical entity has been stored under several
// generations of field names; every list screen and the search engine go
// through this package instead of probing aliases themselves.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
)

// Entity normalizes one raw document of the given kind. The result is total
// over the kind's canonical field set: missing or malformed source values
// resolve to typed defaults, never to an absent key. Pure function; the input
// map is not modified.
func Entity(kind entity.Kind, raw map[string]any) Fields {
	rules := rulesFor(kind)
	out := make(Fields, len(rules))
	for _, r := range rules {
		out[r.key] = resolve(r, raw)
	}
	return out
}

func resolve(r rule, raw map[string]any) any {
	if r.kind == kindCoords {
		return resolveCoords(raw, r.aliases)
	}
	for _, alias := range r.aliases {
		v, ok := raw[alias]
		if !ok || v == nil {
			continue
		}
		if sub, isMap := v.(map[string]any); isMap {
			if r.subField == "" {
				continue
			}
			v, ok = sub[r.subField]
			if !ok || v == nil {
				continue
			}
		}
		if coerced, ok := coerce(r.kind, v); ok {
			return coerced
		}
	}
	return defaultFor(r.kind)
}

func defaultFor(k valueKind) any {
	switch k {
	case kindNumber:
		return float64(0)
	case kindBool:
		return false
	case kindTime:
		return time.Time{}
	case kindCoords:
		return Coordinates{}
	default:
		return ""
	}
}

func coerce(k valueKind, v any) (any, bool) {
	switch k {
	case kindString:
		return coerceString(v)
	case kindNumber:
		return coerceNumber(v)
	case kindBool:
		b, ok := v.(bool)
		return b, ok
	case kindTime:
		return coerceTime(v)
	}
	return nil, false
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func coerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func coerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case int64:
		// Unix milliseconds, the mobile client's export format.
		return time.UnixMilli(t), true
	case float64:
		return time.UnixMilli(int64(t)), true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// coordAliases lists the scalar fallbacks probed when no nested location
// object is present, paired lat/long.
var coordAliases = [][2]string{
	{"latitude", "longitude"},
	{"Lat", "Long"},
	{"lat", "long"},
}

func resolveCoords(raw map[string]any, objectAliases []string) Coordinates {
	for _, alias := range objectAliases {
		obj, ok := raw[alias].(map[string]any)
		if !ok {
			continue
		}
		c := Coordinates{
			Latitude:  numPtr(obj["latitude"]),
			Longitude: numPtr(obj["longitude"]),
		}
		if c.Latitude != nil || c.Longitude != nil {
			return c
		}
	}
	for _, pair := range coordAliases {
		c := Coordinates{
			Latitude:  numPtr(raw[pair[0]]),
			Longitude: numPtr(raw[pair[1]]),
		}
		if c.Latitude != nil || c.Longitude != nil {
			return c
		}
	}
	return Coordinates{}
}

func numPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	if f, ok := coerceNumber(v); ok {
		return &f
	}
	return nil
}
