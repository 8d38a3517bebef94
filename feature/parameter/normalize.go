package parameter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Duration normalization. CockroachDB prints durations in compound
// form ("1h30m0s"), while desired values arrive in whatever spelling
// the caller used ("90m", "5400s"). Both sides are reduced to seconds
// before comparing.

var durationComponent = regexp.MustCompile(`(\d+(?:\.\d+)?)(ns|us|µs|ms|s|m|h|d)`)

var durationSeconds = map[string]float64{
	"ns": 1e-9,
	"us": 1e-6,
	"µs": 1e-6,
	"ms": 1e-3,
	"s":  1,
	"m":  60,
	"h":  3600,
	"d":  86400,
}

// NormalizeDuration reduces a duration string, compound or simple, to
// seconds. ok is false when the string contains no recognizable
// duration components.
func NormalizeDuration(v string) (seconds float64, ok bool) {
	v = strings.ToLower(strings.Join(strings.Fields(v), ""))
	if v == "" {
		return 0, false
	}

	// A bare number is taken as seconds.
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f, true
	}

	matches := durationComponent.FindAllStringSubmatchIndex(v, -1)
	if len(matches) == 0 {
		return 0, false
	}

	// Every character must belong to some component; "5x" or "1h???"
	// must not normalize.
	covered := 0
	total := 0.0
	for _, m := range matches {
		covered += m[1] - m[0]
		value, err := strconv.ParseFloat(v[m[2]:m[3]], 64)
		if err != nil {
			return 0, false
		}
		total += value * durationSeconds[v[m[4]:m[5]]]
	}
	if covered != len(v) {
		return 0, false
	}
	return total, true
}

// DurationsEqual compares two duration strings with a tolerance scaled
// to the magnitude: a fixed 0.01s under a minute, 0.1% of the larger
// value above. When exactly one side normalizes the values are
// different; when neither does, exact string equality decides.
func DurationsEqual(a, b string) bool {
	av, aok := NormalizeDuration(a)
	bv, bok := NormalizeDuration(b)

	switch {
	case aok && bok:
		larger := math.Max(math.Abs(av), math.Abs(bv))
		epsilon := 0.01
		if larger >= 60 {
			epsilon = larger * 0.001
		}
		return math.Abs(av-bv) <= epsilon
	case aok != bok:
		return false
	default:
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
}

// Byte-size normalization. No unit conversion happens: "1GiB" and
// "1024MiB" stay different on purpose, because the cluster echoes the
// spelling it was given and converting would hide a real diff.

var byteSizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([kmgt]i?b|b)$`)

// NormalizeByteSize canonicalizes a byte-size string: lower-cased,
// whitespace stripped, trailing fraction zeros trimmed ("1.0 GiB" ->
// "1gib", "1.50 GiB" -> "1.5gib"). ok is false when the string is not
// a byte size.
func NormalizeByteSize(v string) (string, bool) {
	s := strings.ToLower(strings.Join(strings.Fields(v), ""))
	m := byteSizePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	number, unit := m[1], m[2]
	if i := strings.IndexByte(number, '.'); i >= 0 {
		number = strings.TrimRight(number, "0")
		number = strings.TrimSuffix(number, ".")
	}
	return number + unit, true
}

// ByteSizesEqual compares two byte-size strings after normalization,
// with the same fallback policy as DurationsEqual.
func ByteSizesEqual(a, b string) bool {
	an, aok := NormalizeByteSize(a)
	bn, bok := NormalizeByteSize(b)

	switch {
	case aok && bok:
		return an == bn
	case aok != bok:
		return false
	default:
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
}
