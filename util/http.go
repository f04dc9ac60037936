package util

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response body with the given status code
func JSON(w http.ResponseWriter, statusCode int, body interface{}) {
	jsonResponse, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}
