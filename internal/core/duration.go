package core

// duration.go parses the free-form duration strings attendance exports
// write. Duration defects are tolerated: every input maps to a non-negative
// interval and unparseable values degrade to zero, in contrast to email and
// structural defects which fail the file.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// unitDurationRegex matches "(Nh)? (Nm)? (Ns)?" with any subset of the three
// units present and whitespace tolerated, e.g. "1h 2m 3s", "1m 13s", "45s".
var unitDurationRegex = regexp.MustCompile(
	`(?i)^\s*(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?\s*(?:(\d+)\s*s)?\s*$`)

// bareMinutesRegex matches a plain integer with an optional trailing minute
// word, e.g. "45", "45 min", "45 minutes".
var bareMinutesRegex = regexp.MustCompile(
	`(?i)^\s*(\d+)\s*(?:min|mins|minute|minutes)?\s*$`)

// ParseFlexibleDuration converts a duration field to a time.Duration.
// Formats are tried in precedence order:
//
//  1. hour/minute/second unit groups ("1m 13s" → 73s), when at least one
//     unit matched and the total is non-zero
//  2. a bare integer with optional minute words, counted as minutes
//     ("45" → 45m)
//  3. a clock-style interval ("1:02:03" or "02:03")
//
// Anything else returns zero; this function never fails.
func ParseFlexibleDuration(s string) time.Duration {
	if m := unitDurationRegex.FindStringSubmatch(s); m != nil {
		if d := unitTotal(m); d > 0 {
			return d
		}
	}

	if m := bareMinutesRegex.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return time.Duration(n) * time.Minute
		}
	}

	if d, ok := parseClockDuration(s); ok {
		return d
	}

	return 0
}

// unitTotal sums the matched hour/minute/second groups. An all-empty match
// (the regex accepts blank input) totals zero and is rejected by the caller.
func unitTotal(m []string) time.Duration {
	var total time.Duration
	if m[1] != "" {
		n, _ := strconv.Atoi(m[1])
		total += time.Duration(n) * time.Hour
	}
	if m[2] != "" {
		n, _ := strconv.Atoi(m[2])
		total += time.Duration(n) * time.Minute
	}
	if m[3] != "" {
		n, _ := strconv.Atoi(m[3])
		total += time.Duration(n) * time.Second
	}
	return total
}

// parseClockDuration parses "H:MM:SS" or "MM:SS" colon notation.
func parseClockDuration(s string) (time.Duration, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, false
		}
		nums[i] = n
	}

	if len(parts) == 2 {
		return time.Duration(nums[0])*time.Minute + time.Duration(nums[1])*time.Second, true
	}
	return time.Duration(nums[0])*time.Hour +
		time.Duration(nums[1])*time.Minute +
		time.Duration(nums[2])*time.Second, true
}
