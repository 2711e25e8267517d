package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mplazax/meeting-syntesis/internal/meeting"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by unit tests and local
// development without a MongoDB instance. Semantics mirror MongoRepository.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*meeting.Meeting
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*meeting.Meeting)}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*meeting.Meeting, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	return clone(m), nil
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]*meeting.Meeting, error) {
	return r.GetFiltered(ctx, Filter{})
}

func (r *MemoryRepository) GetFiltered(ctx context.Context, f Filter) ([]*meeting.Meeting, error) {
	r.mu.RLock()
	out := []*meeting.Meeting{}
	for _, m := range r.store {
		if matches(m, f) {
			out = append(out, clone(m))
		}
	}
	r.mu.RUnlock()

	switch f.SortBy {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].MeetingDatetime.Before(out[j].MeetingDatetime) })
	case SortDurationDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DurationSeconds > out[j].DurationSeconds })
	case SortDurationAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DurationSeconds < out[j].DurationSeconds })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].MeetingDatetime.After(out[j].MeetingDatetime) })
	}
	return out, nil
}

func matches(m *meeting.Meeting, f Filter) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Query)) {
		return false
	}
	if !matchesProject(m, f.ProjectIDs) {
		return false
	}
	if len(f.Tags) > 0 && !intersects(m.Tags, f.Tags) {
		return false
	}
	return true
}

// matchesProject mirrors the Mongo query builder: malformed ids are skipped,
// and when none of the supplied ids parse the criterion is dropped entirely.
func matchesProject(m *meeting.Meeting, ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return true
	}
	if m.ProjectID == nil {
		return false
	}
	for _, oid := range oids {
		if *m.ProjectID == oid {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (r *MemoryRepository) GetByProject(ctx context.Context, projectID string) ([]*meeting.Meeting, error) {
	if _, err := primitive.ObjectIDFromHex(projectID); err != nil {
		return []*meeting.Meeting{}, nil
	}
	return r.GetFiltered(ctx, Filter{ProjectIDs: []string{projectID}})
}

func (r *MemoryRepository) Insert(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.UploadedAt = now
	m.LastUpdatedAt = now
	if m.ProcessingStatus.CurrentStage == "" {
		m.ProcessingStatus.CurrentStage = meeting.StagePending
	}
	r.store[m.ID.Hex()] = clone(m)
	return clone(m), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, u meeting.Update) (*meeting.Meeting, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	if u.IsEmpty() {
		return clone(m), nil
	}

	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.ProjectID != nil {
		pid := *u.ProjectID
		m.ProjectID = &pid
	}
	if u.Tags != nil {
		m.Tags = append([]string(nil), (*u.Tags)...)
	}
	if u.MeetingDatetime != nil {
		m.MeetingDatetime = *u.MeetingDatetime
	}
	if u.DurationSeconds != nil {
		m.DurationSeconds = *u.DurationSeconds
	}
	if u.ProcessingStatus != nil {
		m.ProcessingStatus = *u.ProcessingStatus
	}
	if u.Transcription != nil {
		tr := *u.Transcription
		m.Transcription = &tr
	}

	// lastUpdatedAt must strictly advance even when the wall clock has not
	// ticked between two mutations
	now := time.Now().UTC()
	if !now.After(m.LastUpdatedAt) {
		now = m.LastUpdatedAt.Add(time.Nanosecond)
	}
	m.LastUpdatedAt = now
	return clone(m), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return false, nil
	}
	delete(r.store, id)
	return true, nil
}

func clone(m *meeting.Meeting) *meeting.Meeting {
	c := *m
	c.Tags = append([]string(nil), m.Tags...)
	if m.ProjectID != nil {
		pid := *m.ProjectID
		c.ProjectID = &pid
	}
	if m.Transcription != nil {
		tr := *m.Transcription
		c.Transcription = &tr
	}
	return &c
}
