package repository

import (
    "context"
    "database/sql"
    "time"
)

// ReservationRepo provides access to PAR_RESERVACION.  Reservations
// are insert-and-update only: rows are created by reserve/check-in,
// closed or cancelled by guarded conditional updates, and never
// deleted, so the table doubles as the reservation history.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationRecord carries the columns written on insert.  End is
// nil for visitor check-ins, where the checkout time is unknown.
// CreateTx populates ID from the generated key.
type ReservationRecord struct {
    ID        uint64
    UserID    string
    ShiftID   uint64
    Start     time.Time
    End       *time.Time
    CreatedAt time.Time
}

// CreateTx inserts a new open reservation within the transaction and
// stores the generated id on the record.  The caller must commit or
// roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
    const q = `INSERT INTO PAR_RESERVACION
               (RES_ID_USUARIO, RES_FECHA_INICIO, RES_FECHA_FIN, ERES_ESTADO_ID, RES_FECHA_CREACION, JOR_JORNADA_ID)
               VALUES (?, ?, ?, 1, ?, ?)`
    var end any
    if rec.End != nil {
        end = *rec.End
    }
    result, err := tx.ExecContext(ctx, q, rec.UserID, rec.Start, end, rec.CreatedAt, rec.ShiftID)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// LockTx reads a reservation's shift and state with a row lock,
// serializing concurrent attempts to settle the same reservation.
// Returns ErrReservationNotFound when the id does not exist.
func (r *ReservationRepo) LockTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (shiftID uint64, state int, err error) {
    const q = `SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION WHERE RES_RESERVACION_ID = ? FOR UPDATE`
    if err := tx.QueryRowContext(ctx, q, reservationID).Scan(&shiftID, &state); err != nil {
        if err == sql.ErrNoRows {
            return 0, 0, ErrReservationNotFound
        }
        return 0, 0, err
    }
    return shiftID, state, nil
}

// CloseTx settles an open reservation: state OPEN -> CLOSED with the
// checkout time as RES_FECHA_FIN.  The state guard in the WHERE
// clause returns ErrRaceLost when another transaction settled the
// reservation first.
func (r *ReservationRepo) CloseTx(ctx context.Context, tx *sql.Tx, reservationID uint64, end time.Time) error {
    const q = `UPDATE PAR_RESERVACION SET RES_FECHA_FIN = ?, ERES_ESTADO_ID = 3 WHERE RES_RESERVACION_ID = ? AND ERES_ESTADO_ID = 1`
    res, err := tx.ExecContext(ctx, q, end, reservationID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrRaceLost
    }
    return nil
}

// CancelTx settles an open reservation as CANCELLED under the same
// conditional-update contract as CloseTx.
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
    const q = `UPDATE PAR_RESERVACION SET ERES_ESTADO_ID = 2 WHERE RES_RESERVACION_ID = ? AND ERES_ESTADO_ID = 1`
    res, err := tx.ExecContext(ctx, q, reservationID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrRaceLost
    }
    return nil
}

// StayTx reads back the start/end stamps and occupant of a
// reservation inside the transaction.  The check-out path calls it
// after CloseTx so the stay duration is computed from the exact
// values the database holds, not from in-process copies.
func (r *ReservationRepo) StayTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (start, end time.Time, userID string, err error) {
    const q = `SELECT RES_FECHA_INICIO, RES_FECHA_FIN, RES_ID_USUARIO FROM PAR_RESERVACION WHERE RES_RESERVACION_ID = ?`
    if err := tx.QueryRowContext(ctx, q, reservationID).Scan(&start, &end, &userID); err != nil {
        if err == sql.ErrNoRows {
            return time.Time{}, time.Time{}, "", ErrReservationNotFound
        }
        return time.Time{}, time.Time{}, "", err
    }
    return start, end, userID, nil
}
