package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, code, ucErr.Code)
}

func TestParseWindow_Scales(t *testing.T) {
	cases := []struct {
		token string
		want  int64
	}{
		{token: "5m", want: 5 * 60},
		{token: "1h", want: 3600},
		{token: "12h", want: 12 * 3600},
		{token: "3d", want: 3 * 86400},
		{token: "4w", want: 4 * 604800},
		{token: "2h", want: 7200},
	}
	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := parseWindow(tc.token)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseWindow_Invalid(t *testing.T) {
	cases := []string{"5s", "5x", "5", "", "m", "h2", "abc", "0m", "-3h", "2.5h"}
	for _, token := range cases {
		t.Run(token, func(t *testing.T) {
			_, err := parseWindow(token)
			requireCode(t, err, ErrorInvalidWindow)
		})
	}
}

func TestResolveWindow_RelativeDefault(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	win, label, err := resolveWindow(now, FetchInput{Window: "2h"})
	require.NoError(t, err)
	require.Equal(t, int64(1_699_992_800_000), win.StartMS)
	require.Equal(t, int64(1_700_000_000_000), win.EndMS)
	require.Equal(t, "last 2h", label)
}

func TestResolveWindow_BlankTokenUsesDefault(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	win, label, err := resolveWindow(now, FetchInput{})
	require.NoError(t, err)
	require.Equal(t, now.UnixMilli()-5*60*1000, win.StartMS)
	require.Equal(t, "last "+DefaultWindowToken, label)
}

func TestResolveWindow_CalendarPastDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	win, _, err := resolveWindow(now, FetchInput{Window: "1h", Month: "January", Day: "5"})
	require.NoError(t, err)

	wantEnd := time.Date(2026, time.January, 5, 23, 59, 59, 0, time.UTC).UnixMilli()
	require.Equal(t, wantEnd, win.EndMS)
	require.Equal(t, wantEnd-3600*1000, win.StartMS)
}

func TestResolveWindow_CalendarFutureDayClampsToNow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	win, _, err := resolveWindow(now, FetchInput{Window: "5m", Month: "december", Day: "25"})
	require.NoError(t, err)
	require.Equal(t, now.UnixMilli(), win.EndMS)
	require.LessOrEqual(t, win.StartMS, win.EndMS)
}

func TestResolveWindow_CalendarCurrentMarkers(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	// "current" month with an explicit earlier day.
	win, _, err := resolveWindow(now, FetchInput{Window: "1d", Month: "current", Day: "3"})
	require.NoError(t, err)
	wantEnd := time.Date(2026, time.March, 3, 23, 59, 59, 0, time.UTC).UnixMilli()
	require.Equal(t, wantEnd, win.EndMS)
}

func TestResolveWindow_CalendarImpossibleDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		month string
		day   string
	}{
		{month: "february", day: "31"},
		{month: "april", day: "31"},
		{month: "february", day: "30"},
	}
	for _, tc := range cases {
		t.Run(tc.month+"-"+tc.day, func(t *testing.T) {
			_, _, err := resolveWindow(now, FetchInput{Window: "1h", Month: tc.month, Day: tc.day})
			requireCode(t, err, ErrorInvalidWindow)
		})
	}
}

func TestResolveWindow_CalendarBadSelectors(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	_, _, err := resolveWindow(now, FetchInput{Window: "1h", Month: "smarch"})
	requireCode(t, err, ErrorInvalidWindow)

	_, _, err = resolveWindow(now, FetchInput{Window: "1h", Day: "0"})
	requireCode(t, err, ErrorInvalidWindow)

	_, _, err = resolveWindow(now, FetchInput{Window: "1h", Day: "32"})
	requireCode(t, err, ErrorInvalidWindow)
}

func TestResolveWindow_Range(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	win, label, err := resolveWindow(now, FetchInput{
		StartTime: "2026-03-01T00:00:00Z",
		EndTime:   "2026-03-02T00:00:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), win.StartMS)
	require.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC).UnixMilli(), win.EndMS)
	require.Equal(t, "explicit range", label)
}

func TestResolveWindow_RangeBlankEndMeansNow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	win, _, err := resolveWindow(now, FetchInput{StartTime: "2026-03-10T00:00:00Z"})
	require.NoError(t, err)
	require.Equal(t, now.UnixMilli(), win.EndMS)
}

func TestResolveWindow_RangeInvalid(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	// start not before end
	_, _, err := resolveWindow(now, FetchInput{
		StartTime: "2026-03-02T00:00:00Z",
		EndTime:   "2026-03-01T00:00:00Z",
	})
	requireCode(t, err, ErrorInvalidWindow)

	// end without start
	_, _, err = resolveWindow(now, FetchInput{EndTime: "2026-03-01T00:00:00Z"})
	requireCode(t, err, ErrorInvalidWindow)

	// malformed timestamp
	_, _, err = resolveWindow(now, FetchInput{StartTime: "yesterday"})
	requireCode(t, err, ErrorInvalidWindow)
}

func TestResolveWindow_ModesConflict(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	_, _, err := resolveWindow(now, FetchInput{
		Month:     "january",
		StartTime: "2026-03-01T00:00:00Z",
	})
	requireCode(t, err, ErrorInvalidWindow)
}

func TestResolveWindow_StartNeverBeforeEpoch(t *testing.T) {
	now := time.UnixMilli(1000)

	win, _, err := resolveWindow(now, FetchInput{Window: "4w"})
	require.NoError(t, err)
	require.Equal(t, int64(0), win.StartMS)
	require.LessOrEqual(t, win.StartMS, win.EndMS)
}
