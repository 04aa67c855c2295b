package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope every endpoint answers with. Only the
// payload field relevant to the endpoint is set.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    any    `json:"user,omitempty"`
	Users   any    `json:"users,omitempty"`
	Tokens  any    `json:"tokens,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes the envelope with a custom status code
func ResponseJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, response Response) {
	response.Success = true
	ResponseJSON(w, http.StatusOK, response)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, response Response) {
	response.Success = true
	ResponseJSON(w, http.StatusCreated, response)
}

// ------------- Error responses -------------

// ResponseError writes a failure envelope with the given status.
func ResponseError(w http.ResponseWriter, code int, message string, errors any) {
	ResponseJSON(w, code, Response{Success: false, Message: message, Errors: errors})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, message, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message, nil)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, message, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message, nil)
}

// returns 429 Too Many Requests
func ResponseTooManyRequests(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusTooManyRequests, message, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message, nil)
}
