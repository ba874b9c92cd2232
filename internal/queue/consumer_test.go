package queue

import (
    "testing"

    "github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
    ev := ParkingActivityEvent{
        Action:        "visitor_checkout",
        ReservationID: 9,
        UserID:        "visita-9",
        ShiftID:       3,
        Duration:      "2h 30m 15s",
        OccurredAt:    "2024-01-01T12:30:15Z",
    }
    line := formatLine(ev)
    require.Equal(t, "[2024-01-01T12:30:15Z] visitor_checkout | reservation_id=9 | shift_id=3 | user_id=\"visita-9\" | stay=2h 30m 15s\n", line)
}

func TestFormatLineWithoutDuration(t *testing.T) {
    ev := ParkingActivityEvent{
        Action:        "reserved",
        ReservationID: 42,
        UserID:        "carnet-123",
        ShiftID:       7,
        OccurredAt:    "2024-01-01T08:00:00Z",
    }
    line := formatLine(ev)
    require.NotContains(t, line, "stay=")
    require.Contains(t, line, "reserved | reservation_id=42")
}
