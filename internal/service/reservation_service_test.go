package service_test

import (
    "context"
    "database/sql"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/require"

    "github.com/jfhernandez/parqueo-api/internal/queue"
    "github.com/jfhernandez/parqueo-api/internal/repository"
    "github.com/jfhernandez/parqueo-api/internal/service"
)

// newService builds a ReservationService over a scripted database so
// tests can pin down the exact statements, guards and rollback
// behavior of each transition without a real MySQL server.
func newService(t *testing.T) (*service.ReservationService, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    svc := service.NewReservationService(repository.NewShiftRepo(db), repository.NewReservationRepo(db))
    return svc, mock
}

func shiftStateRows(state int) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"EJOR_ESTADO_ID"}).AddRow(state)
}

func TestReserve_Success(t *testing.T) {
    svc, mock := newService(t)

    var published []queue.ParkingActivityEvent
    svc.Publish = func(_ context.Context, ev queue.ParkingActivityEvent) error {
        published = append(published, ev)
        return nil
    }

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(7).
        WillReturnRows(shiftStateRows(1))
    mock.ExpectExec("INSERT INTO PAR_RESERVACION").
        WithArgs("carnet-123", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 7).
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectExec("UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 2").
        WithArgs(7).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    rec, err := svc.Reserve(context.Background(), "carnet-123", 7)
    require.NoError(t, err)
    require.EqualValues(t, 42, rec.ID)
    require.NotNil(t, rec.End, "student reservations carry a semester-end expiry")
    require.Equal(t, service.SemesterEnd(rec.Start), *rec.End)

    require.Len(t, published, 1)
    require.Equal(t, "reserved", published[0].Action)
    require.EqualValues(t, 42, published[0].ReservationID)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_ShiftNotFound(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(99).
        WillReturnError(sql.ErrNoRows)
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), "carnet-123", 99)
    require.ErrorIs(t, err, repository.ErrShiftNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_ShiftOccupied(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(7).
        WillReturnRows(shiftStateRows(2))
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), "carnet-123", 7)
    require.ErrorIs(t, err, repository.ErrShiftUnavailable)
    require.NoError(t, mock.ExpectationsWereMet(), "no insert may happen on an occupied shift")
}

// A concurrent reserver can take the shift between our unlocked state
// read and the guarded update. The guard then matches zero rows and
// the whole transaction, insert included, must roll back.
func TestReserve_LostRace(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(7).
        WillReturnRows(shiftStateRows(1))
    mock.ExpectExec("INSERT INTO PAR_RESERVACION").
        WithArgs("carnet-123", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 7).
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectExec("UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 2").
        WithArgs(7).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    _, err := svc.Reserve(context.Background(), "carnet-123", 7)
    require.ErrorIs(t, err, repository.ErrRaceLost)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInVisitor_EndStaysNull(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(5).
        WillReturnRows(shiftStateRows(1))
    mock.ExpectExec("INSERT INTO PAR_RESERVACION").
        WithArgs("visita-9", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), 5).
        WillReturnResult(sqlmock.NewResult(43, 1))
    mock.ExpectExec("UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 2").
        WithArgs(5).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    rec, err := svc.CheckInVisitor(context.Background(), "visita-9", 5)
    require.NoError(t, err)
    require.EqualValues(t, 43, rec.ID)
    require.Nil(t, rec.End, "visitor stays are open-ended until check-out")
    require.NoError(t, mock.ExpectationsWereMet())
}

func lockRows(shiftID uint64, state int) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"JOR_JORNADA_ID", "ERES_ESTADO_ID"}).AddRow(shiftID, state)
}

func TestCheckOutVisitor_Success(t *testing.T) {
    svc, mock := newService(t)

    var published []queue.ParkingActivityEvent
    svc.Publish = func(_ context.Context, ev queue.ParkingActivityEvent) error {
        published = append(published, ev)
        return nil
    }

    start := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
    end := time.Date(2024, time.January, 1, 12, 30, 15, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(9).
        WillReturnRows(lockRows(3, 1))
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(3).
        WillReturnRows(shiftStateRows(2))
    mock.ExpectExec("UPDATE PAR_RESERVACION SET RES_FECHA_FIN").
        WithArgs(sqlmock.AnyArg(), 9).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 1").
        WithArgs(3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT RES_FECHA_INICIO, RES_FECHA_FIN, RES_ID_USUARIO").
        WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"RES_FECHA_INICIO", "RES_FECHA_FIN", "RES_ID_USUARIO"}).
            AddRow(start, end, "visita-9"))
    mock.ExpectCommit()

    result, err := svc.CheckOutVisitor(context.Background(), 9)
    require.NoError(t, err)
    require.Equal(t, "visita-9", result.UserID)
    require.Equal(t, "2h 30m 15s", result.Duration.String())

    require.Len(t, published, 1)
    require.Equal(t, "visitor_checkout", published[0].Action)
    require.Equal(t, "2h 30m 15s", published[0].Duration)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutVisitor_NotFound(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(404).
        WillReturnError(sql.ErrNoRows)
    mock.ExpectRollback()

    _, err := svc.CheckOutVisitor(context.Background(), 404)
    require.ErrorIs(t, err, repository.ErrReservationNotFound)
    require.NoError(t, mock.ExpectationsWereMet(), "a missing reservation performs no writes")
}

func TestCheckOutVisitor_NotOpen(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(9).
        WillReturnRows(lockRows(3, 3))
    mock.ExpectRollback()

    _, err := svc.CheckOutVisitor(context.Background(), 9)
    require.ErrorIs(t, err, repository.ErrNotOpen)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutVisitor_RaceLost(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(9).
        WillReturnRows(lockRows(3, 1))
    mock.ExpectQuery("SELECT EJOR_ESTADO_ID FROM PAR_JORNADA").
        WithArgs(3).
        WillReturnRows(shiftStateRows(2))
    mock.ExpectExec("UPDATE PAR_RESERVACION SET RES_FECHA_FIN").
        WithArgs(sqlmock.AnyArg(), 9).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    _, err := svc.CheckOutVisitor(context.Background(), 9)
    require.ErrorIs(t, err, repository.ErrRaceLost)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_Success(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(11).
        WillReturnRows(lockRows(4, 1))
    mock.ExpectExec("UPDATE PAR_RESERVACION SET ERES_ESTADO_ID = 2").
        WithArgs(11).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 1").
        WithArgs(4).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    require.NoError(t, svc.Cancel(context.Background(), 11))
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AlreadyCancelled(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(11).
        WillReturnRows(lockRows(4, 2))
    mock.ExpectRollback()

    err := svc.Cancel(context.Background(), 11)
    require.ErrorIs(t, err, repository.ErrNotOpen)
    require.NoError(t, mock.ExpectationsWereMet(), "a settled reservation must leave the shift untouched")
}

func TestCancel_ShiftRaceLost(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT JOR_JORNADA_ID, ERES_ESTADO_ID FROM PAR_RESERVACION").
        WithArgs(11).
        WillReturnRows(lockRows(4, 1))
    mock.ExpectExec("UPDATE PAR_RESERVACION SET ERES_ESTADO_ID = 2").
        WithArgs(11).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE PAR_JORNADA SET EJOR_ESTADO_ID = 1").
        WithArgs(4).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    err := svc.Cancel(context.Background(), 11)
    require.ErrorIs(t, err, repository.ErrRaceLost)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailability_MapsOccupancy(t *testing.T) {
    svc, mock := newService(t)

    rows := sqlmock.NewRows([]string{
        "JOR_JORNADA_ID", "PAR_NUMERO_PARQUEO", "JOR_TIPO", "EJOR_ESTADO_ID", "PAR_SECCION",
        "RES_ID_USUARIO", "RES_RESERVACION_ID",
    }).
        AddRow(1, 10, "matutina", 2, "A", "carnet-123", 42).
        AddRow(2, 11, "matutina", 1, "A", nil, nil)
    mock.ExpectQuery("FROM PAR_JORNADA PJ").
        WithArgs("matutina", "A").
        WillReturnRows(rows)

    items, err := svc.Availability(context.Background(), "matutina", "A")
    require.NoError(t, err)
    require.Len(t, items, 2)

    require.EqualValues(t, 1, items[0].ShiftID)
    require.NotNil(t, items[0].OccupantID)
    require.Equal(t, "carnet-123", *items[0].OccupantID)
    require.NotNil(t, items[0].ReservationID)
    require.EqualValues(t, 42, *items[0].ReservationID)

    require.Nil(t, items[1].OccupantID, "a free shift has no occupant")
    require.Nil(t, items[1].ReservationID)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailability_NoMatches(t *testing.T) {
    svc, mock := newService(t)

    mock.ExpectQuery("FROM PAR_JORNADA PJ").
        WithArgs("nocturna", "Z").
        WillReturnRows(sqlmock.NewRows([]string{
            "JOR_JORNADA_ID", "PAR_NUMERO_PARQUEO", "JOR_TIPO", "EJOR_ESTADO_ID", "PAR_SECCION",
            "RES_ID_USUARIO", "RES_RESERVACION_ID",
        }))

    items, err := svc.Availability(context.Background(), "nocturna", "Z")
    require.NoError(t, err, "an empty listing is a valid outcome, not an error")
    require.Empty(t, items)
    require.NoError(t, mock.ExpectationsWereMet())
}
