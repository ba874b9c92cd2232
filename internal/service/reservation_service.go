// Package service implements the reservation state machine.  Every
// mutation runs inside a single database transaction: a read
// establishes the user-facing precondition, then a conditional
// update guarded on the expected state performs the transition.  A
// guard that matches zero rows means a concurrent request won the
// race between our read and our write; the operation surfaces
// repository.ErrRaceLost and the whole transaction rolls back, so a
// shift can never end up assigned to two open reservations.
package service

import (
    "context"
    "database/sql"
    "time"

    "github.com/jfhernandez/parqueo-api/internal/model"
    "github.com/jfhernandez/parqueo-api/internal/queue"
    "github.com/jfhernandez/parqueo-api/internal/repository"
)

// ReservationService wires the shift and reservation repositories
// into the four state transitions plus the availability listing.
// The service owns transaction boundaries; repositories only execute
// statements within them.
type ReservationService struct {
    db           *sql.DB
    shifts       *repository.ShiftRepo
    reservations *repository.ReservationRepo

    // Publish, when set, receives a ParkingActivityEvent after
    // each committed transition.  Failures are the publisher's
    // problem; the reservation outcome is already durable.
    Publish func(ctx context.Context, ev queue.ParkingActivityEvent) error
}

// NewReservationService constructs the service.  Both repositories
// must be non-nil and bound to the same database handle.
func NewReservationService(shifts *repository.ShiftRepo, reservations *repository.ReservationRepo) *ReservationService {
    if shifts == nil || reservations == nil {
        panic("nil repository passed to NewReservationService")
    }
    return &ReservationService{
        db:           shifts.DB(),
        shifts:       shifts,
        reservations: reservations,
    }
}

// Availability returns every shift of the given type in the given
// section together with the occupant of each occupied one.  An empty
// slice means no shift matched the filter, which the handler reports
// as not-found rather than as a server error.
func (s *ReservationService) Availability(ctx context.Context, shiftType, section string) ([]model.ShiftAvailability, error) {
    return s.shifts.Availability(ctx, shiftType, section)
}

// Reserve books a shift for a student or staff member.  The
// reservation opens now and expires at the end of the semester.
// Fails with repository.ErrShiftNotFound or ErrShiftUnavailable when
// the precondition read rejects the shift, and with ErrRaceLost when
// a concurrent reserver takes the shift between our read and the
// guarded update.
func (s *ReservationService) Reserve(ctx context.Context, userID string, shiftID uint64) (*repository.ReservationRecord, error) {
    end := SemesterEnd(time.Now().UTC())
    return s.open(ctx, userID, shiftID, &end, "reserved")
}

// CheckInVisitor books a shift for a visitor.  Unlike Reserve, the
// end timestamp stays NULL: the stay is open-ended until
// CheckOutVisitor records the exit.
func (s *ReservationService) CheckInVisitor(ctx context.Context, userID string, shiftID uint64) (*repository.ReservationRecord, error) {
    return s.open(ctx, userID, shiftID, nil, "visitor_checkin")
}

// open creates an OPEN reservation and flips the shift to OCCUPIED,
// both inside one transaction.  The shift-state read is unlocked;
// the conditional update is what closes the check-then-act gap.
func (s *ReservationService) open(ctx context.Context, userID string, shiftID uint64, end *time.Time, action string) (*repository.ReservationRecord, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    state, err := s.shifts.StateTx(ctx, tx, shiftID)
    if err != nil {
        return nil, err
    }
    if state != model.ShiftAvailable {
        return nil, repository.ErrShiftUnavailable
    }

    now := time.Now().UTC()
    rec := &repository.ReservationRecord{
        UserID:    userID,
        ShiftID:   shiftID,
        Start:     now,
        End:       end,
        CreatedAt: now,
    }
    if err := s.reservations.CreateTx(ctx, tx, rec); err != nil {
        return nil, err
    }
    if err := s.shifts.OccupyTx(ctx, tx, shiftID); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    s.emit(ctx, queue.ParkingActivityEvent{
        Action:        action,
        ReservationID: rec.ID,
        UserID:        userID,
        ShiftID:       shiftID,
        OccurredAt:    now.Format(time.RFC3339),
    })
    return rec, nil
}

// CheckoutResult is the outcome of a visitor check-out: who occupied
// the spot and for how long.
type CheckoutResult struct {
    UserID   string
    Duration StayDuration
}

// CheckOutVisitor closes an open visitor stay.  The reservation and
// its shift are both read with row locks, so concurrent attempts to
// settle the same reservation serialize; the guarded updates then
// flip reservation OPEN -> CLOSED and shift OCCUPIED -> AVAILABLE.
// The stay duration is computed from the timestamps read back inside
// the transaction.
func (s *ReservationService) CheckOutVisitor(ctx context.Context, reservationID uint64) (*CheckoutResult, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    shiftID, state, err := s.reservations.LockTx(ctx, tx, reservationID)
    if err != nil {
        return nil, err
    }
    if state != model.ReservationOpen {
        return nil, repository.ErrNotOpen
    }
    if _, err := s.shifts.StateForUpdateTx(ctx, tx, shiftID); err != nil {
        return nil, err
    }

    now := time.Now().UTC()
    if err := s.reservations.CloseTx(ctx, tx, reservationID, now); err != nil {
        return nil, err
    }
    if err := s.shifts.ReleaseTx(ctx, tx, shiftID); err != nil {
        return nil, err
    }
    start, end, userID, err := s.reservations.StayTx(ctx, tx, reservationID)
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    dur := StayBetween(start, end)
    s.emit(ctx, queue.ParkingActivityEvent{
        Action:        "visitor_checkout",
        ReservationID: reservationID,
        UserID:        userID,
        ShiftID:       shiftID,
        Duration:      dur.String(),
        OccurredAt:    now.Format(time.RFC3339),
    })
    return &CheckoutResult{UserID: userID, Duration: dur}, nil
}

// Cancel voids an open reservation and frees its shift.  Same
// locking and guard discipline as CheckOutVisitor; a reservation
// that is already CLOSED or CANCELLED fails the precondition with
// repository.ErrNotOpen and nothing is written.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uint64) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    shiftID, state, err := s.reservations.LockTx(ctx, tx, reservationID)
    if err != nil {
        return err
    }
    if state != model.ReservationOpen {
        return repository.ErrNotOpen
    }
    if err := s.reservations.CancelTx(ctx, tx, reservationID); err != nil {
        return err
    }
    if err := s.shifts.ReleaseTx(ctx, tx, shiftID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true

    s.emit(ctx, queue.ParkingActivityEvent{
        Action:        "cancelled",
        ReservationID: reservationID,
        ShiftID:       shiftID,
        OccurredAt:    time.Now().UTC().Format(time.RFC3339),
    })
    return nil
}

// emit publishes a parking activity event when a publisher is
// configured.  Publishing is best effort and never affects the
// already-committed outcome.
func (s *ReservationService) emit(ctx context.Context, ev queue.ParkingActivityEvent) {
    if s.Publish != nil {
        _ = s.Publish(ctx, ev)
    }
}
