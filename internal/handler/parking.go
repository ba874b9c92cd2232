package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jfhernandez/parqueo-api/internal/repository"
    "github.com/jfhernandez/parqueo-api/internal/service"
)

// ParkingHandler exposes the reservation state machine over HTTP.
// Handlers validate request shape, delegate to the service and map
// each error kind to a status; they never touch the database
// directly.  Route and field names stay in Spanish because the
// deployed frontend already consumes them.
type ParkingHandler struct {
    Service *service.ReservationService
    Dev     bool // include store error details in 500 responses
}

// NewParkingHandler constructs a ParkingHandler.  The service must
// be non-nil.
func NewParkingHandler(svc *service.ReservationService, dev bool) *ParkingHandler {
    if svc == nil {
        panic("nil service passed to NewParkingHandler")
    }
    return &ParkingHandler{Service: svc, Dev: dev}
}

// reserveRequest is shared by the student/staff reserve and the
// visitor check-in endpoints; both take an occupant and a shift.
type reserveRequest struct {
    UserID  string `json:"RES_ID_USUARIO"`
    ShiftID uint64 `json:"JOR_JORNADA_ID"`
}

// settleRequest identifies the reservation a check-out or
// cancellation settles.
type settleRequest struct {
    ReservationID uint64 `json:"RES_RESERVACION_ID"`
}

// Availability handles GET /api/disponibilidad_parqueo.  Both query
// parameters are required.  Zero matching shifts is a valid outcome
// reported as 404, distinct from a store failure.
func (h *ParkingHandler) Availability(c echo.Context) error {
    shiftType := c.QueryParam("JOR_TIPO")
    section := c.QueryParam("SECCION")
    if shiftType == "" || section == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan parámetros requeridos: JOR_TIPO y SECCION"})
    }
    items, err := h.Service.Availability(c.Request().Context(), shiftType, section)
    if err != nil {
        return h.internalError(c, err)
    }
    if len(items) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"message": "No se encontraron parqueos disponibles en esta jornada y sección"})
    }
    return c.JSON(http.StatusOK, items)
}

// Reserve handles POST /api/insertar_parqueo: a student or staff
// reservation that runs until the end of the semester.
func (h *ParkingHandler) Reserve(c echo.Context) error {
    return h.createReservation(c, h.Service.Reserve)
}

// VisitorEntry handles POST /api/insertar_entrada_visitas: a visitor
// check-in whose exit time is recorded later.
func (h *ParkingHandler) VisitorEntry(c echo.Context) error {
    return h.createReservation(c, h.Service.CheckInVisitor)
}

func (h *ParkingHandler) createReservation(c echo.Context, create func(ctx context.Context, userID string, shiftID uint64) (*repository.ReservationRecord, error)) error {
    var body reserveRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON mal formado"})
    }
    if missing := missingFields(body); missing != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Campos requeridos faltantes: " + missing})
    }

    rec, err := create(c.Request().Context(), body.UserID, body.ShiftID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrShiftNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "El número de parqueo seleccionado en la jornada no fue encontrado"})
        case errors.Is(err, repository.ErrShiftUnavailable):
            return c.JSON(http.StatusConflict, echo.Map{"error": "Jornada no disponible para el número de parqueo seleccionado o ya fue reservada"})
        }
        return h.internalError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "success": true,
        "message": "Reservación creada",
        "data": echo.Map{
            "id":    rec.ID,
            "fecha": time.Now().UTC().Format(time.RFC3339),
        },
    })
}

// VisitorExit handles PATCH /api/insertar_salida_visitas.  It closes
// an open visitor stay and reports the occupant and total time.
func (h *ParkingHandler) VisitorExit(c echo.Context) error {
    var body settleRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON mal formado"})
    }
    if body.ReservationID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Campos requeridos faltantes: RES_RESERVACION_ID"})
    }

    result, err := h.Service.CheckOutVisitor(c.Request().Context(), body.ReservationID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrReservationNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservación no encontrada"})
        case errors.Is(err, repository.ErrNotOpen):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "La reservación no se encuentra en estado abierto"})
        case errors.Is(err, repository.ErrShiftNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "La jornada asociada no fue encontrada"})
        }
        return h.internalError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":        true,
        "message":        "Salida registrada y parqueo liberado",
        "RES_ID_USUARIO": result.UserID,
        "TIEMPO_TOTAL":   result.Duration.String(),
    })
}

// CancelReservation handles PATCH /api/cancelacion_parqueo.  A
// reservation that is already settled fails the precondition with a
// 400 and leaves the shift untouched.
func (h *ParkingHandler) CancelReservation(c echo.Context) error {
    var body settleRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON mal formado"})
    }
    if body.ReservationID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "RES_RESERVACION_ID es requerido"})
    }

    if err := h.Service.Cancel(c.Request().Context(), body.ReservationID); err != nil {
        switch {
        case errors.Is(err, repository.ErrReservationNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservación no encontrada"})
        case errors.Is(err, repository.ErrNotOpen):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "La reservación no se puede cancelar porque ya fue cancelada anteriormente"})
        }
        return h.internalError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success": true,
        "message": "Reservación cancelada y parqueo liberado",
    })
}

// internalError maps everything the caller cannot act on — store
// failures and lost races included — to a generic 500.  Outside
// production the underlying message is attached for debugging.
func (h *ParkingHandler) internalError(c echo.Context, err error) error {
    c.Logger().Errorf("parking: %v", err)
    resp := echo.Map{
        "success": false,
        "error":   "Error interno en el servidor",
    }
    if h.Dev {
        resp["details"] = echo.Map{"message": err.Error()}
    }
    return c.JSON(http.StatusInternalServerError, resp)
}

// missingFields lists the human names of absent required fields in
// the reserve/check-in body, matching the messages the frontend
// displays.
func missingFields(body reserveRequest) string {
    var missing []string
    if body.UserID == "" {
        missing = append(missing, "Usuario")
    }
    if body.ShiftID == 0 {
        missing = append(missing, "Jornada")
    }
    return strings.Join(missing, ", ")
}
