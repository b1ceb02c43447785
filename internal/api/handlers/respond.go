package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/authkit/internal/models"
	"github.com/isdelr/authkit/internal/services"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Detail string `json:"detail"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError writes a {"detail": ...} body with the given status.
func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, errorBody{Detail: detail})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, models.Message{Message: message})
}

// statusFor maps a service error to an HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid token"
	case errors.Is(err, services.ErrAlreadyVerified):
		return http.StatusBadRequest, "Email already verified"
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Incorrect password"
	case errors.Is(err, services.ErrEmailNotVerified):
		return http.StatusForbidden, "Email not verified"
	case services.IsDeliveryError(err):
		return http.StatusAccepted, "Failed to send email"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeServiceError logs unexpected faults and writes the mapped response.
// A delivery failure uses deliveryDetail when one is given.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, deliveryDetail string) int {
	status, detail := statusFor(err)
	switch {
	case status == http.StatusAccepted:
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Email delivery failed")
		if deliveryDetail != "" {
			detail = deliveryDetail
		}
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	WriteError(w, status, detail)
	return status
}

// decodeJSON fills dst from a JSON body. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// fromQuery fills an empty field from the query parameter of the same name.
func fromQuery(r *http.Request, field *string, name string) {
	if *field == "" {
		*field = r.URL.Query().Get(name)
	}
}

// validationDetail renders validator errors as one readable line.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email address")
		case "min":
			parts = append(parts, fe.Field()+" must be at least "+fe.Param()+" characters")
		case "max":
			parts = append(parts, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// validatePayload checks a decoded payload and writes 422 on failure.
func validatePayload(w http.ResponseWriter, payload any) bool {
	if err := validate.Struct(payload); err != nil {
		WriteError(w, http.StatusUnprocessableEntity, validationDetail(err))
		return false
	}
	return true
}

// rejectBody answers 422 for a body that could not be decoded.
func rejectBody(w http.ResponseWriter, operation, detail string) {
	WriteError(w, http.StatusUnprocessableEntity, detail)
	observe(operation, http.StatusUnprocessableEntity)
}
