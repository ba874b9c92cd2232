package model

// Spot is a physical parking space on campus.  Spots are reference
// data provisioned by facilities staff; the API never creates or
// deletes them.  A spot is bookable only through the shifts that
// point at it.
//
// Fields:
//  ID      – primary key identifier.
//  Number  – painted number of the space.
//  Section – lot section the space belongs to (e.g. "A", "B").
type Spot struct {
    ID      uint64 // PAR_PARQUEO.PAR_PARQUEO_ID
    Number  int    // PAR_PARQUEO.PAR_NUMERO_PARQUEO
    Section string // PAR_PARQUEO.PAR_SECCION
}
