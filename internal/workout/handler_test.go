package workout_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/workout"
)

func newTestRouter(t *testing.T) (*mux.Router, *MockrecordsManager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockManager := NewMockrecordsManager(ctrl)
	r := mux.NewRouter()
	workout.NewHandler(mockManager, time.UTC).SetupRoutes(r)
	return r, mockManager
}

func TestHandler_HandleListExercises(t *testing.T) {
	r, mockManager := newTestRouter(t)
	mockManager.EXPECT().Summaries().Return([]records.ExerciseSummary{
		{Exercise: "Bench", MaxOneRM: 93},
		{Exercise: "Squat", MaxOneRM: 120},
	})

	req, err := http.NewRequest("GET", "/exercises", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp workout.ListExercisesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Exercises, 2)
	assert.Equal(t, "Bench", resp.Exercises[0].Exercise)
	assert.Equal(t, 120, resp.Exercises[1].MaxOneRM)
}

func TestHandler_HandleExerciseRecords(t *testing.T) {
	r, mockManager := newTestRouter(t)
	mockManager.EXPECT().ExerciseRecords("Squat").Return(map[time.Time][]records.ExerciseRecord{
		day(5): {records.NewExerciseRecord(day(5), "Squat", 1, 120)},
		day(2): {
			records.NewExerciseRecord(day(2), "Squat", 5, 100),
			records.NewExerciseRecord(day(2), "Squat", 3, 105),
		},
	}, true)
	mockManager.EXPECT().ExerciseRecords("Curl").Return(nil, false)

	req, err := http.NewRequest("GET", "/exercises/Squat/records", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp workout.ExerciseRecordsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Squat", resp.Exercise)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2024-03-02", resp.Days[0].Date)
	assert.Len(t, resp.Days[0].Records, 2)
	assert.Equal(t, "2024-03-05", resp.Days[1].Date)

	req, err = http.NewRequest("GET", "/exercises/Curl/records", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_HandleExerciseRange(t *testing.T) {
	r, mockManager := newTestRouter(t)
	mockManager.EXPECT().
		RecordsInRange("Squat", day(1), day(10)).
		Return([]records.ExerciseRecord{records.NewExerciseRecord(day(5), "Squat", 1, 120)}, true)

	testCases := []struct {
		name               string
		query              string
		expectedStatusCode int
	}{
		{name: "Valid", query: "from=2024-03-01&to=2024-03-10", expectedStatusCode: http.StatusOK},
		{name: "MissingFrom", query: "to=2024-03-10", expectedStatusCode: http.StatusBadRequest},
		{name: "BadTo", query: "from=2024-03-01&to=Mar 10 2024", expectedStatusCode: http.StatusBadRequest},
		{name: "Reversed", query: "from=2024-03-10&to=2024-03-01", expectedStatusCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", "/exercises/Squat/range", nil)
			require.NoError(t, err)
			req.URL.RawQuery = tc.query
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			require.Equal(t, tc.expectedStatusCode, rr.Code)

			if tc.expectedStatusCode == http.StatusOK {
				var resp workout.RangeResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "2024-03-01", resp.From)
				require.Len(t, resp.Records, 1)
				assert.Equal(t, 120.0, resp.Records[0].Weight)
			}
		})
	}
}

func TestHandler_HandleRecordsByDay(t *testing.T) {
	r, mockManager := newTestRouter(t)
	mockManager.EXPECT().RecordsByDay(day(7)).Return(nil)

	req, err := http.NewRequest("GET", "/records/day/2024-03-07", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"date":"2024-03-07","records":[]}`, rr.Body.String())

	req, err = http.NewRequest("GET", "/records/day/yesterday", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleReload(t *testing.T) {
	r, mockManager := newTestRouter(t)
	gomock.InOrder(
		mockManager.EXPECT().Reload(gomock.Any()).Return([]records.RecordID{1, 2, 3}, nil),
		mockManager.EXPECT().Reload(gomock.Any()).DoAndReturn(func(_ context.Context) ([]records.RecordID, error) {
			return nil, errors.New("source down")
		}),
	)

	req, err := http.NewRequest("POST", "/records/reload", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"appended":3}`, rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandler_HandleDelete(t *testing.T) {
	r, mockManager := newTestRouter(t)
	mockManager.EXPECT().Delete(records.RecordID(2)).Return(nil)
	mockManager.EXPECT().Delete(records.RecordID(99)).Return(fmt.Errorf("delete record 99: %w", records.ErrRecordNotFound))

	testCases := []struct {
		name               string
		path               string
		expectedStatusCode int
	}{
		{name: "Deleted", path: "/records/2", expectedStatusCode: http.StatusOK},
		{name: "NotFound", path: "/records/99", expectedStatusCode: http.StatusNotFound},
		{name: "NaN", path: "/records/two", expectedStatusCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("DELETE", tc.path, nil)
			require.NoError(t, err)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}

func TestHandler_HandleDeleteMatching(t *testing.T) {
	r, mockManager := newTestRouter(t)
	mockManager.EXPECT().
		DeleteMatching(gomock.Any()).
		DoAndReturn(func(candidates []records.ExerciseRecord) int {
			require.Len(t, candidates, 2)
			assert.Equal(t, "Squat", candidates[0].Exercise)
			assert.True(t, day(2).Equal(candidates[0].Date))
			return 1
		})

	body, err := json.Marshal(workout.DeleteMatchingRequest{
		Records: []workout.DeleteCandidate{
			{Date: day(2), Exercise: "Squat"},
			{Date: day(3), Exercise: "Bench"},
		},
	})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/records/delete", bytes.NewBuffer(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"matched":1}`, rr.Body.String())

	for _, invalid := range []string{`{"records":[]}`, `not json`, `{"records":[{"exercise":"Squat"}]}`} {
		req, err = http.NewRequest("POST", "/records/delete", bytes.NewBufferString(invalid))
		require.NoError(t, err)
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, invalid)
	}
}
