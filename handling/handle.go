package handling

import (
	"errors"
	"knitcraft_server/lib"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// HandleError logs an unexpected failure and answers 500.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}

// RespondError maps service errors onto the HTTP status they stand for.
// Anything it does not recognise goes through HandleError.
func RespondError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	var verr *lib.ValidationError
	var rerr *lib.RangeError

	switch {
	case errors.As(err, &verr):
		return gecho.BadRequest(w, gecho.WithMessage("Validation failed"), gecho.WithData(verr.Errors), gecho.Send())
	case errors.As(err, &rerr):
		return gecho.BadRequest(w, gecho.WithMessage(rerr.Error()), gecho.WithData(rerr), gecho.Send())
	case errors.Is(err, lib.ErrInvalidStatusTransition):
		return gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	case isBodyError(err):
		logger.Debug("Rejected request body", gecho.Field("error", err))
		return gecho.BadRequest(w, gecho.WithMessage("Invalid request body"), gecho.Send())
	case errors.Is(err, lib.ErrUnauthorized),
		errors.Is(err, lib.ErrInvalidToken),
		errors.Is(err, lib.ErrExpiredToken),
		errors.Is(err, lib.ErrInvalidCredentials):
		return gecho.Unauthorized(w, gecho.WithMessage(unauthorizedMessage(err)), gecho.Send())
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage(msg+": not found"), gecho.Send())
	case errors.Is(err, lib.ErrAlreadyVoted):
		return gecho.Conflict(w, gecho.WithMessage("You already marked this review as helpful"), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		return gecho.Conflict(w, gecho.WithMessage(msg+": already exists"), gecho.Send())
	case errors.Is(err, lib.ErrNotificationFailed), errors.Is(err, lib.ErrEmailNotConfigured):
		logger.Error("Notification failed", gecho.Field("error", err), gecho.Field("msg", msg))
		return BadGateway(w, "We could not send the confirmation email", nil)
	}

	return HandleError(err, msg, logger, w)
}

func isBodyError(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || strings.HasPrefix(err.Error(), "invalid request body")
}

func unauthorizedMessage(err error) string {
	if errors.Is(err, lib.ErrInvalidCredentials) {
		return "Invalid email or password"
	}
	if errors.Is(err, lib.ErrExpiredToken) {
		return "Session expired"
	}
	return "Authentication required"
}

// BadGateway answers 502. The order flow uses it when the order was stored
// but the customer could not be notified.
func BadGateway(w http.ResponseWriter, message string, data any) error {
	gecho.NewErr(w,
		gecho.WithStatus(http.StatusBadGateway),
		gecho.WithMessage(message),
		gecho.WithData(data),
		gecho.Send(),
	)
	return nil
}
