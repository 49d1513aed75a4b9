package browse

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/window"
	"github.com/2beens/ormchart/pkg"
)

type StartRequest struct {
	Exercise string `json:"exercise"`
	Unit     string `json:"unit"`
}

type Handler struct {
	service     *Service
	defaultUnit window.TimeFrame
}

func NewHandler(service *Service, defaultUnit window.TimeFrame) *Handler {
	if !defaultUnit.Valid() {
		defaultUnit = window.Month
	}
	return &Handler{
		service:     service,
		defaultUnit: defaultUnit,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/browse", handler.HandleStart).Methods("POST", "OPTIONS").Name("browse-start")
	r.HandleFunc("/browse/{sid}", handler.HandleGet).Methods("GET", "OPTIONS").Name("browse-get")
	r.HandleFunc("/browse/{sid}", handler.HandleEnd).Methods("DELETE", "OPTIONS").Name("browse-end")
	r.HandleFunc("/browse/{sid}/{direction}", handler.HandleMove).Methods("POST", "OPTIONS").Name("browse-move")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("browse start, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	if req.Exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	unit := handler.defaultUnit
	if req.Unit != "" {
		parsed, err := window.ParseTimeFrame(req.Unit)
		if err != nil {
			http.Error(w, "error, unknown unit", http.StatusBadRequest)
			return
		}
		unit = parsed
	}

	view, err := handler.service.Start(r.Context(), req.Exercise, unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeView(w, view, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := handler.service.Get(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeView(w, view, http.StatusOK)
}

func (handler *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	direction, err := window.ParseDirection(vars["direction"])
	if err != nil {
		http.Error(w, "error, unknown direction", http.StatusBadRequest)
		return
	}

	view, err := handler.service.Move(r.Context(), vars["sid"], direction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeView(w, view, http.StatusOK)
}

func (handler *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.End(r.Context(), mux.Vars(r)["sid"]); err != nil {
		writeServiceError(w, err)
		return
	}
	pkg.WriteTextResponseOK(w, "ended")
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrExerciseNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, window.ErrUnknownTimeFrame):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, window.ErrEmptyDataSet), errors.Is(err, window.ErrDateArithmetic):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Errorf("browse: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeView(w http.ResponseWriter, view View, statusCode int) {
	viewJson, err := json.Marshal(view)
	if err != nil {
		log.Errorf("marshal browse view: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, viewJson, statusCode)
}
