package browse

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/ormchart/internal/window"
)

var ErrSessionNotFound = errors.New("browse session not found")

// Session is a client's position while paging through one exercise.
type Session struct {
	ID        string       `json:"id"`
	Exercise  string       `json:"exercise"`
	State     window.State `json:"state"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type SessionStore interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, id string) error
}
