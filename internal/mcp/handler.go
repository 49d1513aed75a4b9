package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/window"
)

const dateLayout = "2006-01-02"

type recordsService interface {
	Summaries() []records.ExerciseSummary
	ExerciseRecords(exercise string) (map[time.Time][]records.ExerciseRecord, bool)
	RecordsInRange(exercise string, from, to time.Time) ([]records.ExerciseRecord, bool)
	RecordsByDay(date time.Time) []records.ExerciseRecord
}

type windowService interface {
	WindowAt(exercise string, unit window.TimeFrame, back int) (window.Window, error)
}

// Handler turns MCP tool calls into record store and window queries.
type Handler struct {
	records recordsService
	windows windowService
	loc     *time.Location
}

func NewHandler(recordsSvc recordsService, windowSvc windowService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		records: recordsSvc,
		windows: windowSvc,
		loc:     loc,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// ListExercisesTool returns the MCP tool handler for list_exercises.
func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.records.Summaries()), nil, nil
	}
}

// ExerciseRecordsInput is the input for get_exercise_records.
type ExerciseRecordsInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name exactly as recorded (e.g. Squat)"`
	FromDate string `json:"from_date,omitempty" jsonschema:"Optional start date (YYYY-MM-DD), inclusive"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"Optional end date (YYYY-MM-DD), inclusive"`
}

// GetExerciseRecordsTool returns the MCP tool handler for get_exercise_records.
func (h *Handler) GetExerciseRecordsTool() func(context.Context, *mcp.CallToolRequest, ExerciseRecordsInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ExerciseRecordsInput) (*mcp.CallToolResult, any, error) {
		if in.Exercise == "" {
			return errorResult("exercise is required"), nil, nil
		}

		if in.FromDate == "" && in.ToDate == "" {
			byDay, found := h.records.ExerciseRecords(in.Exercise)
			if !found {
				return errorResult("Unknown exercise: " + in.Exercise), nil, nil
			}
			days := make([]time.Time, 0, len(byDay))
			for d := range byDay {
				days = append(days, d)
			}
			sort.Slice(days, func(i, j int) bool {
				return days[i].Before(days[j])
			})
			list := make([]records.ExerciseRecord, 0, len(byDay))
			for _, d := range days {
				list = append(list, byDay[d]...)
			}
			return jsonResult(list), nil, nil
		}

		from, err := time.ParseInLocation(dateLayout, in.FromDate, h.loc)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.ParseInLocation(dateLayout, in.ToDate, h.loc)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}

		list, found := h.records.RecordsInRange(in.Exercise, from, to)
		if !found {
			return errorResult("Unknown exercise: " + in.Exercise), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// OneRepMaxWindowInput is the input for get_one_rep_max_window.
type OneRepMaxWindowInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name exactly as recorded (e.g. Squat)"`
	Unit     string `json:"unit,omitempty" jsonschema:"Window size: week, month or year. Defaults to month"`
	Back     int    `json:"back,omitempty" jsonschema:"How many windows to step back from the latest one. Defaults to 0"`
}

// GetOneRepMaxWindowTool returns the MCP tool handler for get_one_rep_max_window.
func (h *Handler) GetOneRepMaxWindowTool() func(context.Context, *mcp.CallToolRequest, OneRepMaxWindowInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in OneRepMaxWindowInput) (*mcp.CallToolResult, any, error) {
		if in.Exercise == "" {
			return errorResult("exercise is required"), nil, nil
		}
		unit := window.Month
		if in.Unit != "" {
			parsed, err := window.ParseTimeFrame(in.Unit)
			if err != nil {
				return errorResult("Invalid unit: use week, month or year"), nil, nil
			}
			unit = parsed
		}
		if in.Back < 0 {
			return errorResult("back must not be negative"), nil, nil
		}

		w, err := h.windows.WindowAt(in.Exercise, unit, in.Back)
		if err != nil {
			return errorResult("Error building window: " + err.Error()), nil, nil
		}
		return jsonResult(w), nil, nil
	}
}

// RecordsForDayInput is the input for get_records_for_day.
type RecordsForDayInput struct {
	Date string `json:"date" jsonschema:"Day (YYYY-MM-DD)"`
}

// GetRecordsForDayTool returns the MCP tool handler for get_records_for_day.
func (h *Handler) GetRecordsForDayTool() func(context.Context, *mcp.CallToolRequest, RecordsForDayInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in RecordsForDayInput) (*mcp.CallToolResult, any, error) {
		date, err := time.ParseInLocation(dateLayout, in.Date, h.loc)
		if err != nil {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		list := h.records.RecordsByDay(date)
		if list == nil {
			list = []records.ExerciseRecord{}
		}
		return jsonResult(list), nil, nil
	}
}
