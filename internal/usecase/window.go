package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"logfetch/internal/domain"
)

const (
	// DefaultWindowToken is the window length applied when none is given.
	DefaultWindowToken = "5m"

	// CurrentMarker selects the reference time's month or day in calendar mode.
	CurrentMarker = "current"
)

// rangeTimeLayout is the accepted shape for explicit range bounds, always UTC.
const rangeTimeLayout = "2006-01-02T15:04:05Z"

const (
	secondsPerMinute int64 = 60
	secondsPerHour   int64 = 3600
	secondsPerDay    int64 = 86400
	secondsPerWeek   int64 = 604800
)

// parseWindow converts a duration token such as "5m" or "2w" into a span in
// seconds. Units are m (minutes), h (hours), d (days) and w (weeks); the
// value must be a positive integer.
func parseWindow(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if len(token) < 2 {
		return 0, newError(ErrorInvalidWindow, "window_token_malformed", fmt.Errorf("unsupported window %q", token))
	}
	value, err := strconv.ParseInt(token[:len(token)-1], 10, 64)
	if err != nil {
		return 0, newError(ErrorInvalidWindow, "window_value_not_integer", fmt.Errorf("unsupported window %q", token))
	}
	if value <= 0 {
		return 0, newError(ErrorInvalidWindow, "window_value_not_positive", fmt.Errorf("unsupported window %q", token))
	}
	switch token[len(token)-1] {
	case 'm':
		return value * secondsPerMinute, nil
	case 'h':
		return value * secondsPerHour, nil
	case 'd':
		return value * secondsPerDay, nil
	case 'w':
		return value * secondsPerWeek, nil
	}
	return 0, newError(ErrorInvalidWindow, "window_unit_unknown", fmt.Errorf("unsupported window %q", token))
}

// resolveWindow turns the window fields of a fetch request into a concrete
// [start, end] millisecond range against the reference time now, plus a short
// human description of the window. Exactly one of three modes applies: an
// explicit start/end range, a calendar day selected by month/day, or the
// default relative offset back from now.
func resolveWindow(now time.Time, in FetchInput) (domain.TimeWindow, string, error) {
	now = now.UTC()

	token := strings.TrimSpace(in.Window)
	if token == "" {
		token = DefaultWindowToken
	}
	month := normalizeMarker(in.Month)
	day := normalizeMarker(in.Day)
	startText := strings.TrimSpace(in.StartTime)
	endText := strings.TrimSpace(in.EndTime)

	hasRange := startText != "" || endText != ""
	hasCalendar := month != CurrentMarker || day != CurrentMarker
	if hasRange && hasCalendar {
		return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "window_modes_conflict",
			errors.New("start/end times cannot be combined with month/day"))
	}
	if hasRange {
		return resolveRange(now, startText, endText)
	}

	seconds, err := parseWindow(token)
	if err != nil {
		return domain.TimeWindow{}, "", err
	}
	if hasCalendar {
		return resolveCalendar(now, token, seconds, month, day)
	}

	end := now.UnixMilli()
	return domain.TimeWindow{StartMS: clampStart(end - seconds*1000), EndMS: end}, "last " + token, nil
}

// resolveCalendar ends the window at 23:59:59 UTC of the selected day in the
// reference year, clamped to now so a future day never produces a future
// window.
func resolveCalendar(now time.Time, token string, seconds int64, monthName, dayText string) (domain.TimeWindow, string, error) {
	month := now.Month()
	if monthName != CurrentMarker {
		m, ok := monthByName(monthName)
		if !ok {
			return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "month_unknown", fmt.Errorf("unknown month %q", monthName))
		}
		month = m
	}
	day := now.Day()
	if dayText != CurrentMarker {
		d, err := strconv.Atoi(dayText)
		if err != nil || d < 1 || d > 31 {
			return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "day_out_of_range", fmt.Errorf("invalid day %q", dayText))
		}
		day = d
	}

	endOfDay := time.Date(now.Year(), month, day, 23, 59, 59, 0, time.UTC)
	// time.Date normalizes out-of-range dates: February 31 becomes March 3.
	if endOfDay.Month() != month || endOfDay.Day() != day {
		return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "calendar_date_impossible", fmt.Errorf("%s has no day %d", month, day))
	}

	end := endOfDay.UnixMilli()
	if nowMS := now.UnixMilli(); end > nowMS {
		end = nowMS
	}
	desc := fmt.Sprintf("%s window on %s", token, time.UnixMilli(end).UTC().Format("2006-01-02"))
	return domain.TimeWindow{StartMS: clampStart(end - seconds*1000), EndMS: end}, desc, nil
}

// resolveRange parses explicit UTC bounds; a missing end means now. The
// bounds are honored as given, so an already-elapsed range stays historical.
func resolveRange(now time.Time, startText, endText string) (domain.TimeWindow, string, error) {
	if startText == "" {
		return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "start_time_required",
			errors.New("end time given without a start time"))
	}
	start, err := time.Parse(rangeTimeLayout, startText)
	if err != nil {
		return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "start_time_malformed", err)
	}
	end := now
	if endText != "" {
		if end, err = time.Parse(rangeTimeLayout, endText); err != nil {
			return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "end_time_malformed", err)
		}
	}
	startMS, endMS := start.UnixMilli(), end.UnixMilli()
	if startMS >= endMS {
		return domain.TimeWindow{}, "", newError(ErrorInvalidWindow, "start_not_before_end",
			fmt.Errorf("start %s is not before the window end", startText))
	}
	return domain.TimeWindow{StartMS: clampStart(startMS), EndMS: endMS}, "explicit range", nil
}

func monthByName(name string) (time.Month, bool) {
	switch strings.ToLower(name) {
	case "january":
		return time.January, true
	case "february":
		return time.February, true
	case "march":
		return time.March, true
	case "april":
		return time.April, true
	case "may":
		return time.May, true
	case "june":
		return time.June, true
	case "july":
		return time.July, true
	case "august":
		return time.August, true
	case "september":
		return time.September, true
	case "october":
		return time.October, true
	case "november":
		return time.November, true
	case "december":
		return time.December, true
	}
	return 0, false
}

// normalizeMarker lowercases a month/day selector and maps blank to "current".
func normalizeMarker(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CurrentMarker
	}
	return s
}

// clampStart keeps a window inside the epoch when a long token reaches past it.
func clampStart(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}
