package model

import "time"

// Reservation states stored in PAR_RESERVACION.ERES_ESTADO_ID.
// OPEN progresses to CANCELLED or CLOSED; both are terminal.
const (
    ReservationOpen      = 1
    ReservationCancelled = 2
    ReservationClosed    = 3
)

// Reservation records a user's claim on a shift.  Student and staff
// reservations carry a policy-defined end date; visitor check-ins
// leave End nil until the check-out is recorded.  Rows are never
// deleted, so closed and cancelled reservations remain as history
// alongside at most one open reservation per shift.
//
// Fields:
//  ID        – primary key identifier, generated on insert.
//  UserID    – opaque occupant identifier; never validated here.
//  ShiftID   – shift being claimed.
//  Start     – when the claim began.
//  End       – when it ends; nil while a visitor stay is open.
//  CreatedAt – row creation timestamp.
//  State     – ReservationOpen, ReservationCancelled or ReservationClosed.
type Reservation struct {
    ID        uint64     // PAR_RESERVACION.RES_RESERVACION_ID
    UserID    string     // PAR_RESERVACION.RES_ID_USUARIO
    ShiftID   uint64     // PAR_RESERVACION.JOR_JORNADA_ID
    Start     time.Time  // PAR_RESERVACION.RES_FECHA_INICIO
    End       *time.Time // PAR_RESERVACION.RES_FECHA_FIN (nullable)
    CreatedAt time.Time  // PAR_RESERVACION.RES_FECHA_CREACION
    State     int        // PAR_RESERVACION.ERES_ESTADO_ID
}

// ShiftAvailability is one row of the availability listing: a shift
// joined to its spot plus, when the shift is occupied, the open
// reservation holding it.  Field names mirror the column names the
// frontend already consumes.
type ShiftAvailability struct {
    ShiftID       uint64  `json:"JOR_JORNADA_ID"`
    SpotNumber    int     `json:"PAR_NUMERO_PARQUEO"`
    ShiftType     string  `json:"JOR_TIPO"`
    ShiftState    int     `json:"EJOR_ESTADO_ID"`
    Section       string  `json:"PAR_SECCION"`
    OccupantID    *string `json:"RES_ID_USUARIO"`
    ReservationID *uint64 `json:"RES_RESERVACION_ID"`
}
