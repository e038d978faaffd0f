package http

import (
	"net/http"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/utils"
	"github.com/MKhiriev/go-note-vault/models"
)

var codeStatusMap = map[string]int{
	app.CodeNotFound:             http.StatusNotFound,
	app.CodeConfirmationRequired: http.StatusBadRequest,
	app.CodeInvalidData:          http.StatusBadRequest,
	app.CodeEmptyLogicalKey:      http.StatusBadRequest,
	app.CodeReservedLogicalKey:   http.StatusBadRequest,
	app.CodeStorageFull:          http.StatusInsufficientStorage,
	app.CodeAccessDenied:         http.StatusForbidden,
	app.CodeStorageUnavailable:   http.StatusServiceUnavailable,
	app.CodeCorruptedData:        http.StatusUnprocessableEntity,
}

func statusFromCode(code string) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError reports err as a [models.ErrorResponse]. Server side failures
// are logged with their cause; client mistakes are not.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	code := app.ErrorCode(err)
	status := statusFromCode(code)

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Err(err).Str("func", fn).Str("code", code).Msg("request failed")
	}

	utils.WriteJSON(w, models.ErrorResponse{Code: code, Error: app.UserMessage(err)}, status)
}
