package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/ormchart/internal/browse"
	"github.com/2beens/ormchart/internal/workout"
)

// NewServer builds an MCP server with exercise record and one-rep max window
// tools. It is mounted at /mcp by the backend and served over stdio by
// cmd/ormchart_mcp.
func NewServer(manager *workout.Manager, browseService *browse.Service, loc *time.Location) *mcp.Server {
	h := NewHandler(manager, browseService, loc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "ormchart",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Returns every recorded exercise with its best estimated one-rep max (Brzycki), sorted by name. Use first to learn the exact exercise names.",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_records",
		Description: "Returns the raw records (date, reps, weight, estimated 1RM, deleted flag) of one exercise. Optional from_date, to_date (YYYY-MM-DD) narrow the range.",
	}, h.GetExerciseRecordsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_one_rep_max_window",
		Description: "Returns the daily best one-rep max of an exercise over a week, month or year window. back=0 is the latest window, back=1 the one before it, and so on. Days without training are 0.",
	}, h.GetOneRepMaxWindowTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_records_for_day",
		Description: "Returns all records logged on the given day (YYYY-MM-DD), across exercises.",
	}, h.GetRecordsForDayTool())

	return s
}
