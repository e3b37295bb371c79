package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sawiku/internal/sawi"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

const genericFailureMessage = "Terjadi kesalahan. Silakan coba lagi."

// statusFor maps service errors to an HTTP status, an error code and a
// user-facing message. Unknown errors are internal.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, sawi.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "Silakan masuk terlebih dahulu."
	case errors.Is(err, sawi.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "Email atau password salah."
	case errors.Is(err, sawi.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "Email sudah terdaftar."
	case errors.Is(err, sawi.ErrPlantNotFound):
		return http.StatusNotFound, "plant_not_found", "Tanaman tidak ditemukan."
	case errors.Is(err, sawi.ErrAlreadyReportedToday):
		return http.StatusConflict, "already_reported_today", "Laporan pertumbuhan hari ini sudah dikirim."
	case errors.Is(err, sawi.ErrConcurrentUpdate):
		return http.StatusConflict, "concurrent_update", "Tanaman sedang diperbarui. Silakan coba lagi."
	}
	return http.StatusInternalServerError, "internal_error", genericFailureMessage
}

// handleError is the echo HTTPErrorHandler of the server.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := ErrorResponse{}
	var status int

	var he *echo.HTTPError
	var ve *sawi.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
		resp.Error = "invalid_input"
		resp.Message = "Periksa kembali isian formulir."
		resp.Fields = ve.Fields
	case errors.As(err, &he):
		status = he.Code
		resp.Error = http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			resp.Message = msg
		} else {
			resp.Message = http.StatusText(he.Code)
		}
	default:
		status, resp.Error, resp.Message = statusFor(err)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", status,
			"error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		s.logger.Error("writing error response failed", "error", err)
	}
}
