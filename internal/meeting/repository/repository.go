package repository

import (
	"context"

	"github.com/mplazax/meeting-syntesis/internal/meeting"
)

// Sort keys accepted by GetFiltered. Anything else falls back to SortNewest.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortDurationDesc = "duration-desc"
	SortDurationAsc  = "duration-asc"
)

// Filter describes an optional conjunctive query over meetings. Zero-value
// fields are not applied: a nil Tags slice means "any tags", not "no tags".
type Filter struct {
	Query      string
	ProjectIDs []string
	Tags       []string
	SortBy     string
}

// Repository provides persistence operations for meetings.
//
// Lookup methods treat a malformed identifier exactly like an absent record:
// (nil, nil) from GetByID/Update, (false, nil) from Delete. Callers cannot and
// should not distinguish the two cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*meeting.Meeting, error)
	GetAll(ctx context.Context) ([]*meeting.Meeting, error)
	GetFiltered(ctx context.Context, f Filter) ([]*meeting.Meeting, error)
	GetByProject(ctx context.Context, projectID string) ([]*meeting.Meeting, error)
	Insert(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error)
	Update(ctx context.Context, id string, u meeting.Update) (*meeting.Meeting, error)
	Delete(ctx context.Context, id string) (bool, error)
}
