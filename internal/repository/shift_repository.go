package repository

import (
    "context"
    "database/sql"

    "github.com/jfhernandez/parqueo-api/internal/model"
)

// ShiftRepo provides read and state-transition access to PAR_JORNADA.
// Shifts are reference data: this repository never inserts or deletes
// rows, it only reads them and flips EJOR_ESTADO_ID between
// AVAILABLE and OCCUPIED.  State flips are guarded conditional
// updates so concurrent writers cannot both succeed.
type ShiftRepo struct {
    db *sql.DB
}

// NewShiftRepo returns a new ShiftRepo bound to the given database.
func NewShiftRepo(db *sql.DB) *ShiftRepo { return &ShiftRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *ShiftRepo) DB() *sql.DB { return r.db }

// Availability lists every shift of the given type whose spot sits in
// the given section, joined to the open reservation when one exists.
// It is a plain read outside any transaction; rows reflect the
// committed state at query time.  An empty slice is a valid outcome
// and is returned without error.
func (r *ShiftRepo) Availability(ctx context.Context, shiftType, section string) ([]model.ShiftAvailability, error) {
    const q = `SELECT PJ.JOR_JORNADA_ID, PP.PAR_NUMERO_PARQUEO, PJ.JOR_TIPO, PJ.EJOR_ESTADO_ID, PP.PAR_SECCION,
                      PR.RES_ID_USUARIO, PR.RES_RESERVACION_ID
               FROM PAR_JORNADA PJ
               INNER JOIN PAR_PARQUEO PP ON PJ.PAR_PARQUEO_ID = PP.PAR_PARQUEO_ID
               LEFT JOIN PAR_RESERVACION PR ON PJ.JOR_JORNADA_ID = PR.JOR_JORNADA_ID AND PR.ERES_ESTADO_ID = 1
               WHERE PJ.JOR_TIPO = ? AND PP.PAR_SECCION = ?`
    rows, err := r.db.QueryContext(ctx, q, shiftType, section)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]model.ShiftAvailability, 0)
    for rows.Next() {
        var it model.ShiftAvailability
        var occupant sql.NullString
        var resID sql.NullInt64
        if err := rows.Scan(&it.ShiftID, &it.SpotNumber, &it.ShiftType, &it.ShiftState, &it.Section, &occupant, &resID); err != nil {
            return nil, err
        }
        if occupant.Valid {
            o := occupant.String
            it.OccupantID = &o
        }
        if resID.Valid {
            id := uint64(resID.Int64)
            it.ReservationID = &id
        }
        items = append(items, it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return items, nil
}

// StateTx reads a shift's state inside the transaction without
// locking the row.  Returns ErrShiftNotFound when the id does not
// exist.  Used by the reserve path, where the guarded update is the
// mechanism that closes the read-to-write gap.
func (r *ShiftRepo) StateTx(ctx context.Context, tx *sql.Tx, shiftID uint64) (int, error) {
    const q = `SELECT EJOR_ESTADO_ID FROM PAR_JORNADA WHERE JOR_JORNADA_ID = ?`
    var state int
    if err := tx.QueryRowContext(ctx, q, shiftID).Scan(&state); err != nil {
        if err == sql.ErrNoRows {
            return 0, ErrShiftNotFound
        }
        return 0, err
    }
    return state, nil
}

// StateForUpdateTx reads a shift's state with a row lock, serializing
// concurrent check-outs and cancellations touching the same shift
// until the transaction ends.
func (r *ShiftRepo) StateForUpdateTx(ctx context.Context, tx *sql.Tx, shiftID uint64) (int, error) {
    const q = `SELECT EJOR_ESTADO_ID FROM PAR_JORNADA WHERE JOR_JORNADA_ID = ? FOR UPDATE`
    var state int
    if err := tx.QueryRowContext(ctx, q, shiftID).Scan(&state); err != nil {
        if err == sql.ErrNoRows {
            return 0, ErrShiftNotFound
        }
        return 0, err
    }
    return state, nil
}

// OccupyTx flips a shift AVAILABLE -> OCCUPIED.  The WHERE clause on
// the current state makes the update conditional: when a concurrent
// reserver already took the shift, zero rows are affected and
// ErrRaceLost is returned so the caller rolls back.
func (r *ShiftRepo) OccupyTx(ctx context.Context, tx *sql.Tx, shiftID uint64) error {
    const q = `UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 2 WHERE JOR_JORNADA_ID = ? AND EJOR_ESTADO_ID = 1`
    res, err := tx.ExecContext(ctx, q, shiftID)
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

// ReleaseTx flips a shift OCCUPIED -> AVAILABLE with the same
// conditional-update contract as OccupyTx.
func (r *ShiftRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, shiftID uint64) error {
    const q = `UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 1 WHERE JOR_JORNADA_ID = ? AND EJOR_ESTADO_ID = 2`
    res, err := tx.ExecContext(ctx, q, shiftID)
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
