package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
	guestdomain "github.com/innkeep/innkeep/internal/guest/domain"
	nightauditdomain "github.com/innkeep/innkeep/internal/nightaudit/domain"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrInvalidRequest = errors.New("invalid_request")
)

// AbortWithError records the error for the logging middleware and renders
// the mapped status.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, payload := classify(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: payload})
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			status, payload := classify(lastErr.Err)
			c.JSON(status, errorResponse{Error: payload})
		}
	}
}

func classify(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, guestdomain.ErrGuestNotFound),
		errors.Is(err, roomdomain.ErrRoomNotFound),
		errors.Is(err, reservationdomain.ErrReservationNotFound),
		errors.Is(err, staydomain.ErrStayNotFound),
		errors.Is(err, foliodomain.ErrPostingNotFound),
		errors.Is(err, foliodomain.ErrUnknownFolio),
		errors.Is(err, nightauditdomain.ErrIssueNotFound),
		errors.Is(err, nightauditdomain.ErrRunLogNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, roomdomain.ErrRoomNumberTaken),
		errors.Is(err, staydomain.ErrRoomHasStay),
		errors.Is(err, reservationdomain.ErrRoomUnavailable),
		errors.Is(err, foliodomain.ErrPostingVoid):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	case errors.Is(err, guestdomain.ErrInvalidName),
		errors.Is(err, guestdomain.ErrInvalidEmail),
		errors.Is(err, roomdomain.ErrInvalidRoomNumber),
		errors.Is(err, roomdomain.ErrInvalidRoomType),
		errors.Is(err, roomdomain.ErrInvalidStatus),
		errors.Is(err, reservationdomain.ErrInvalidStatus),
		errors.Is(err, reservationdomain.ErrInvalidDates),
		errors.Is(err, reservationdomain.ErrNoRoomsAssigned),
		errors.Is(err, reservationdomain.ErrUnknownRoom),
		errors.Is(err, reservationdomain.ErrInvalidGuest),
		errors.Is(err, reservationdomain.ErrNotBooked),
		errors.Is(err, reservationdomain.ErrNotCheckedIn),
		errors.Is(err, staydomain.ErrStayNotOpen),
		errors.Is(err, staydomain.ErrInvalidStatus),
		errors.Is(err, foliodomain.ErrInvalidAmount),
		errors.Is(err, foliodomain.ErrInvalidStatus),
		errors.Is(err, foliodomain.ErrMissingReference),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}

	case errors.Is(err, nightauditdomain.ErrLoadFailed):
		// "Audit could not run" is distinct from "audit ran and found
		// issues"; the former is a server-side failure.
		return http.StatusBadGateway, errorPayload{Type: "audit_load_failed", Message: err.Error()}

	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal error"}
	}
}
