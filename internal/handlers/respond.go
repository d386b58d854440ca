package handlers

import (
	"encoding/json"
	"net/http"
)

// Result — общий формат ответов API: {success, message|token}.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    *UserResult `json:"user,omitempty"`
}

type UserResult struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Result{Success: false, Message: msg})
}
