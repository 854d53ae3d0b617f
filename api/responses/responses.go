package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

// WriteSuccess writes a 200 success envelope.
func WriteSuccess(w http.ResponseWriter, message string, data any) {
	WriteSuccessStatus(w, http.StatusOK, message, data)
}

// WriteCreated writes a 201 success envelope.
func WriteCreated(w http.ResponseWriter, message string, data any) {
	WriteSuccessStatus(w, http.StatusCreated, message, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.SuccessEnvelope{
		Status:  types.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// WriteError renders err as an error envelope. Untyped errors become a
// generic internal error; the cause is only ever logged.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if meta.ExposeMessage && typed.Message() != "" {
		msg = typed.Message()
	}

	payload := types.ErrorEnvelope{
		Status:  types.StatusError,
		Code:    string(typed.Code()),
		Message: msg,
	}
	if meta.DetailsAllowed {
		payload.Details = typed.Details()
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(logg.WithField(ctx, "status", meta.HTTPStatus), "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
