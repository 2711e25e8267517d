package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mplazax/meeting-syntesis/internal/ingest"
	"github.com/mplazax/meeting-syntesis/internal/meeting"
	"github.com/mplazax/meeting-syntesis/internal/meeting/repository"
	"github.com/mplazax/meeting-syntesis/internal/transcribe"
	"github.com/mplazax/meeting-syntesis/pkg/logger"
	"github.com/mplazax/meeting-syntesis/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadForm carries the metadata fields of a multipart upload request
// together with the attachment's client-declared name and content type.
type UploadForm struct {
	Title            string
	ProjectID        *primitive.ObjectID
	Tags             []string
	MeetingDatetime  time.Time
	DurationSeconds  int
	OriginalFilename string
	ContentType      string
}

// Service drives meeting uploads through ingestion, persistence and
// transcription, and exposes the plain CRUD operations around them.
type Service struct {
	repo  repository.Repository
	store ingest.Store
	stt   transcribe.Transcriber
}

func New(repo repository.Repository, store ingest.Store, stt transcribe.Transcriber) *Service {
	return &Service{repo: repo, store: store, stt: stt}
}

// HandleUpload runs one upload through its full lifecycle:
//
//	ingest -> insert(pending) -> mark processing -> transcribe -> completed|failed
//
// An ingestion or insert failure aborts the request with an error; once the
// record exists, a transcription failure is written to the record's status
// and HandleUpload still returns the meeting without error. The record is
// therefore always left in a terminal stage, never stuck in processing.
func (s *Service) HandleUpload(ctx context.Context, form UploadForm, audio io.Reader) (*meeting.Meeting, error) {
	ref, err := s.store.Save(ctx, audio, form.OriginalFilename, form.ContentType)
	if err != nil {
		return nil, fmt.Errorf("ingest audio: %w", err)
	}

	m := &meeting.Meeting{
		Title:           form.Title,
		ProjectID:       form.ProjectID,
		Tags:            form.Tags,
		MeetingDatetime: form.MeetingDatetime,
		DurationSeconds: form.DurationSeconds,
		AudioFile: meeting.AudioFile{
			OriginalFilename: form.OriginalFilename,
			StoragePathOrURL: ref,
			Mimetype:         form.ContentType,
		},
		ProcessingStatus: meeting.ProcessingStatus{CurrentStage: meeting.StagePending},
	}
	created, err := s.repo.Insert(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}
	metrics.UploadsTotal.Inc()
	id := created.ID.Hex()

	status := meeting.StatusProcessing()
	if cur, err := s.repo.Update(ctx, id, meeting.Update{ProcessingStatus: &status}); err == nil && cur != nil {
		created = cur
	} else if err != nil {
		logger.Warnf("meeting %s: failed to mark processing: %v", id, err)
	}

	text, err := s.stt.Transcribe(ctx, ref)
	if err != nil {
		return s.finishFailed(ctx, created, err), nil
	}
	return s.finishCompleted(ctx, created, text), nil
}

func (s *Service) finishCompleted(ctx context.Context, last *meeting.Meeting, text string) *meeting.Meeting {
	id := last.ID.Hex()
	status := meeting.StatusCompleted()
	upd := meeting.Update{
		Transcription:    &meeting.Transcription{FullText: text},
		ProcessingStatus: &status,
	}
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil || updated == nil {
		// the caller still gets the created record after a successful upload
		logger.Errorf("meeting %s: failed to persist completed status: %v", id, err)
		return last
	}
	metrics.TranscriptionsTotal.WithLabelValues("completed").Inc()
	return updated
}

func (s *Service) finishFailed(ctx context.Context, last *meeting.Meeting, cause error) *meeting.Meeting {
	id := last.ID.Hex()
	logger.Warnf("meeting %s: transcription failed: %v", id, cause)
	metrics.TranscriptionsTotal.WithLabelValues("failed").Inc()
	status := meeting.StatusFailed(cause.Error())
	updated, err := s.repo.Update(ctx, id, meeting.Update{ProcessingStatus: &status})
	if err != nil || updated == nil {
		logger.Errorf("meeting %s: failed to persist failed status: %v", id, err)
		return last
	}
	return updated
}

func (s *Service) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f repository.Filter) ([]*meeting.Meeting, error) {
	return s.repo.GetFiltered(ctx, f)
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]*meeting.Meeting, error) {
	return s.repo.GetByProject(ctx, projectID)
}

func (s *Service) Update(ctx context.Context, id string, u meeting.Update) (*meeting.Meeting, error) {
	return s.repo.Update(ctx, id, u)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// OpenAudio streams the stored audio for a meeting's storage reference.
func (s *Service) OpenAudio(ctx context.Context, m *meeting.Meeting) (io.ReadCloser, error) {
	return s.store.Open(ctx, m.AudioFile.StoragePathOrURL)
}
