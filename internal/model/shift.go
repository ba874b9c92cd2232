package model

// Shift states stored in PAR_JORNADA.EJOR_ESTADO_ID.  A shift is
// OCCUPIED exactly while one open reservation references it; every
// release path (check-out, cancellation) flips it back to AVAILABLE.
const (
    ShiftAvailable = 1
    ShiftOccupied  = 2
)

// Shift is one bookable window on a physical spot for a schedule
// category (jornada type).  Shifts are provisioned externally and
// only their state column is ever mutated by this service.
//
// Fields:
//  ID     – primary key identifier.
//  SpotID – spot this shift books.
//  Type   – schedule category (matutina, vespertina, ...).
//  State  – ShiftAvailable or ShiftOccupied.
type Shift struct {
    ID     uint64 // PAR_JORNADA.JOR_JORNADA_ID
    SpotID uint64 // PAR_JORNADA.PAR_PARQUEO_ID
    Type   string // PAR_JORNADA.JOR_TIPO
    State  int    // PAR_JORNADA.EJOR_ESTADO_ID
}
