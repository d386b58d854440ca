package handlers

import "net/http"

// ServerHandler — маршруты, не зависящие от БД.
type ServerHandler struct {
	dbUp bool
}

func NewServerHandler(dbUp bool) *ServerHandler {
	return &ServerHandler{dbUp: dbUp}
}

// Health сообщает, что сервер жив и подключена ли БД.
func (h *ServerHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": h.dbUp,
	})
}
