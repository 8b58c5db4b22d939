package reports

import "time"

// Row value accessors. The gateway materializes rows as map[string]any with
// driver types; these helpers normalize the handful the reports read.

func rowInt(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func rowString(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func rowTime(row map[string]any, key string) (time.Time, bool) {
	if v, ok := row[key].(time.Time); ok {
		return v, true
	}
	return time.Time{}, false
}

// cents renders an integer cent amount as a two-decimal currency value.
func cents(v int64) float64 {
	return float64(v) / 100
}

// ratePercent computes an integer percentage, rounding half away from zero.
// A zero denominator yields zero.
func ratePercent(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	scaled := part * 100
	q := scaled / whole
	r := scaled % whole
	if 2*r >= whole {
		q++
	}
	return int(q)
}
