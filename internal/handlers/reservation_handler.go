package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/internal/services"
	"github.com/letiskotransfer/transfer-api/internal/validation"
	apperrors "github.com/letiskotransfer/transfer-api/pkg/errors"
)

const (
	mailConfigErrorMessage = "Mail config error"
	missingFieldsMessage   = "Missing fields"
	bodyTooLargeMessage    = "Request body too large"
	internalErrorMessage   = "Internal server error"
)

type ReservationHandler struct {
	service services.ReservationServiceInterface
}

func NewReservationHandler(service services.ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// SubmitReservation handles POST /api/reservation
func (h *ReservationHandler) SubmitReservation(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	err := h.service.SubmitReservation(c.Request.Context(), body, c.GetHeader("Accept-Language"))
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse())
}

func (h *ReservationHandler) respondSubmitError(c *gin.Context, err error) {
	var validationErr *validation.ValidationError

	switch {
	case errors.Is(err, apperrors.ErrMalformedInput):
		respondError(c, http.StatusBadRequest, validation.InvalidJSONMessage, err)
	case errors.As(err, &validationErr):
		respondErrorWithDetails(c, http.StatusBadRequest, validationErr.Errors, err)
	case errors.Is(err, apperrors.ErrConfigMissing):
		respondError(c, http.StatusInternalServerError, mailConfigErrorMessage, err)
	case errors.Is(err, apperrors.ErrDeliveryFailed):
		respondError(c, http.StatusInternalServerError, err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, internalErrorMessage, err)
	}
}

// ReserveLegacy handles POST /api/reserve. It checks required keys only and never sends mail.
func (h *ReservationHandler) ReserveLegacy(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	missing, err := h.service.ReserveLegacy(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, apperrors.ErrMalformedInput) {
			respondError(c, http.StatusBadRequest, validation.InvalidJSONMessage, err)
			return
		}
		respondError(c, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	if len(missing) > 0 {
		details := models.NewErrorTree(missingFieldsMessage)
		for _, name := range missing {
			details.AddAt([]string{name}, "Required")
		}
		respondErrorWithDetails(c, http.StatusBadRequest, details, apperrors.InvalidInputError("body", missingFieldsMessage))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse())
}

// readBody reads the request body, answering 413 when the size limit cut it short
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(c, http.StatusRequestEntityTooLarge, bodyTooLargeMessage, err)
			return nil, false
		}
		respondError(c, http.StatusBadRequest, validation.InvalidJSONMessage, err)
		return nil, false
	}
	return body, true
}
