package entity

import "strconv"

// RawBooking is one record as returned by the external booking source. The
// upstream is content-managed and its field naming has drifted across
// deployments, so no shape is guaranteed beyond "a key/value bag with an
// optional nested meta bag".
type RawBooking map[string]interface{}

// Meta returns the nested meta bag, or nil when the record has none.
func (r RawBooking) Meta() map[string]interface{} {
	if m, ok := r["meta"].(map[string]interface{}); ok {
		return m
	}
	return nil
}

// Lookup resolves the first present key, checking the record top level before
// the meta bag. The key order is the priority contract: callers pass legacy
// aliases oldest-convention-last.
func (r RawBooking) Lookup(keys ...string) (interface{}, bool) {
	meta := r.Meta()
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
		if meta != nil {
			if v, ok := meta[key]; ok && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

// StringValue resolves the first present key to its string form. Empty
// strings count as absent so the chain keeps falling through.
func (r RawBooking) StringValue(keys ...string) string {
	meta := r.Meta()
	for _, key := range keys {
		if s := ToString(r[key]); s != "" {
			return s
		}
		if meta != nil {
			if s := ToString(meta[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// ExternalID returns the record's stable identity, or "" when the record
// carries neither known identity key.
func (r RawBooking) ExternalID() string {
	return r.StringValue("id", "booking_id")
}

// ToString renders a loosely-typed source value as a string. JSON numbers
// arrive as float64; integral values must not pick up a ".000000" suffix
// because identities are compared as strings.
func ToString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ToFloat renders a loosely-typed source value as a float64, returning ok
// only for values that actually carry a number.
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
