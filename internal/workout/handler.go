package workout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
	"github.com/2beens/ormchart/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workout_mocks_test.go -package=workout_test

type recordsManager interface {
	Reload(ctx context.Context) ([]records.RecordID, error)
	Summaries() []records.ExerciseSummary
	ExerciseRecords(exercise string) (map[time.Time][]records.ExerciseRecord, bool)
	RecordsByDay(date time.Time) []records.ExerciseRecord
	RecordsInRange(exercise string, from, to time.Time) ([]records.ExerciseRecord, bool)
	Delete(id records.RecordID) error
	DeleteMatching(candidates []records.ExerciseRecord) int
}

const dayLayout = "2006-01-02"

type ListExercisesResponse struct {
	Exercises []records.ExerciseSummary `json:"exercises"`
}

type DayRecords struct {
	Date    string                   `json:"date"`
	Records []records.ExerciseRecord `json:"records"`
}

type ExerciseRecordsResponse struct {
	Exercise string       `json:"exercise"`
	Days     []DayRecords `json:"days"`
}

type RangeResponse struct {
	Exercise string                   `json:"exercise"`
	From     string                   `json:"from"`
	To       string                   `json:"to"`
	Records  []records.ExerciseRecord `json:"records"`
}

type ReloadResponse struct {
	Appended int `json:"appended"`
}

type DeleteRecordResponse struct {
	DeletedID records.RecordID `json:"deletedId"`
}

type DeleteCandidate struct {
	Date     time.Time `json:"date"`
	Exercise string    `json:"exercise"`
}

type DeleteMatchingRequest struct {
	Records []DeleteCandidate `json:"records"`
}

type DeleteMatchingResponse struct {
	Matched int `json:"matched"`
}

type Handler struct {
	manager recordsManager
	loc     *time.Location
}

func NewHandler(manager recordsManager, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		manager: manager,
		loc:     loc,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", handler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/{exercise}/records", handler.HandleExerciseRecords).Methods("GET", "OPTIONS").Name("exercise-records")
	r.HandleFunc("/exercises/{exercise}/range", handler.HandleExerciseRange).Methods("GET", "OPTIONS").Name("exercise-range")
	r.HandleFunc("/records/day/{date}", handler.HandleRecordsByDay).Methods("GET", "OPTIONS").Name("records-by-day")
	r.HandleFunc("/records/reload", handler.HandleReload).Methods("POST", "OPTIONS").Name("reload-records")
	r.HandleFunc("/records/delete", handler.HandleDeleteMatching).Methods("POST", "OPTIONS").Name("delete-matching-records")
	r.HandleFunc("/records/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-record")
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exercises")
	defer span.End()

	writeJSON(w, ListExercisesResponse{
		Exercises: handler.manager.Summaries(),
	}, http.StatusOK)
}

func (handler *Handler) HandleExerciseRecords(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exercise.records")
	defer span.End()

	exercise := mux.Vars(r)["exercise"]
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	byDay, found := handler.manager.ExerciseRecords(exercise)
	if !found {
		log.Debugf("exercise [%s] not found", exercise)
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	resp := ExerciseRecordsResponse{
		Exercise: exercise,
		Days:     make([]DayRecords, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, DayRecords{
			Date:    d.Format(dayLayout),
			Records: byDay[d],
		})
	}

	writeJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleExerciseRange(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exercise.range")
	defer span.End()

	exercise := mux.Vars(r)["exercise"]
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	from, err := time.ParseInLocation(dayLayout, fromStr, handler.loc)
	if err != nil {
		http.Error(w, "error, invalid from date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.ParseInLocation(dayLayout, toStr, handler.loc)
	if err != nil {
		http.Error(w, "error, invalid to date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "error, to date before from date", http.StatusBadRequest)
		return
	}

	recs, found := handler.manager.RecordsInRange(exercise, from, to)
	if !found {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	writeJSON(w, RangeResponse{
		Exercise: exercise,
		From:     fromStr,
		To:       toStr,
		Records:  recs,
	}, http.StatusOK)
}

func (handler *Handler) HandleRecordsByDay(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.records.day")
	defer span.End()

	dateStr := mux.Vars(r)["date"]
	date, err := time.ParseInLocation(dayLayout, dateStr, handler.loc)
	if err != nil {
		http.Error(w, "error, invalid date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	recs := handler.manager.RecordsByDay(date)
	if recs == nil {
		recs = []records.ExerciseRecord{}
	}

	writeJSON(w, DayRecords{
		Date:    dateStr,
		Records: recs,
	}, http.StatusOK)
}

func (handler *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.reload")
	defer span.End()

	ids, err := handler.manager.Reload(ctx)
	if err != nil {
		log.Errorf("failed to reload records: %s", err)
		http.Error(w, "error, failed to load records", http.StatusBadGateway)
		return
	}

	writeJSON(w, ReloadResponse{Appended: len(ids)}, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.delete")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.manager.Delete(records.RecordID(id)); err != nil {
		if errors.Is(err, records.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete record %d: %s", id, err)
		http.Error(w, "record not deleted", http.StatusInternalServerError)
		return
	}

	writeJSON(w, DeleteRecordResponse{DeletedID: records.RecordID(id)}, http.StatusOK)
}

func (handler *Handler) HandleDeleteMatching(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.delete.matching")
	defer span.End()

	var req DeleteMatchingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("delete matching, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		http.Error(w, "error, no records to delete", http.StatusBadRequest)
		return
	}

	candidates := make([]records.ExerciseRecord, 0, len(req.Records))
	for _, c := range req.Records {
		if c.Exercise == "" || c.Date.IsZero() {
			http.Error(w, "error, record date or exercise empty", http.StatusBadRequest)
			return
		}
		candidates = append(candidates, records.ExerciseRecord{Date: c.Date, Exercise: c.Exercise})
	}

	writeJSON(w, DeleteMatchingResponse{
		Matched: handler.manager.DeleteMatching(candidates),
	}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any, statusCode int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, statusCode)
}
