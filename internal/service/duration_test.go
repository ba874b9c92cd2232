package service_test

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/jfhernandez/parqueo-api/internal/service"
)

func TestStayBetween(t *testing.T) {
    cases := []struct {
        name  string
        start string
        end   string
        want  string
    }{
        {"typical stay", "2024-01-01T10:00:00Z", "2024-01-01T12:30:15Z", "2h 30m 15s"},
        {"zero elapsed", "2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z", "0h 0m 0s"},
        {"seconds only", "2024-01-01T10:00:00Z", "2024-01-01T10:00:05Z", "0h 0m 5s"},
        {"sub-second truncates down", "2024-01-01T10:00:00Z", "2024-01-01T10:00:59.900Z", "0h 0m 59s"},
        {"multi-day stay keeps whole hours", "2024-01-01T10:00:00Z", "2024-01-02T11:01:01Z", "25h 1m 1s"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            start, err := time.Parse(time.RFC3339, tc.start)
            require.NoError(t, err)
            end, err := time.Parse(time.RFC3339, tc.end)
            require.NoError(t, err)
            require.Equal(t, tc.want, service.StayBetween(start, end).String())
        })
    }
}

func TestSemesterEnd(t *testing.T) {
    now := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
    require.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), service.SemesterEnd(now))

    // The expiry tracks the year of the clock, nothing else.
    later := time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)
    require.Equal(t, 2031, service.SemesterEnd(later).Year())
}
