package main

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var (
	skuPrefixRE = regexp.MustCompile(`^[A-Z]{3,4}$`)
	thaiPhoneRE = regexp.MustCompile(`^0[689][0-9]{8}$`)
)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// category prefix: 3-4 uppercase latin letters
	Validate.RegisterValidation("skuprefix", func(fl validator.FieldLevel) bool {
		return skuPrefixRE.MatchString(fl.Field().String())
	})

	// Thai mobile numbers, e.g. 0812345678
	Validate.RegisterValidation("thaiphone", func(fl validator.FieldLevel) bool {
		return thaiPhoneRE.MatchString(fl.Field().String())
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSONErrorCode(w, status, "", message)
}

func writeJSONErrorCode(w http.ResponseWriter, status int, code, message string) error {
	return writeJSON(w, status, &errorEnvelope{
		Success: false,
		Message: message,
		Status:  status,
		Code:    code,
	})
}

type envelope struct {
	Data any `json:"data"`
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	return writeJSON(w, status, &envelope{Data: data})
}
