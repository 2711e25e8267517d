package meeting

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting is the persistent record for one recorded session: metadata, the
// ingested audio file and the transcription lifecycle state.
type Meeting struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title            string              `json:"title" bson:"title"`
	ProjectID        *primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`
	Tags             []string            `json:"tags,omitempty" bson:"tags,omitempty"`
	MeetingDatetime  time.Time           `json:"meetingDatetime" bson:"meetingDatetime"`
	DurationSeconds  int                 `json:"durationSeconds" bson:"durationSeconds"`
	AudioFile        AudioFile           `json:"audioFile" bson:"audioFile"`
	ProcessingStatus ProcessingStatus    `json:"processingStatus" bson:"processingStatus"`
	Transcription    *Transcription      `json:"transcription,omitempty" bson:"transcription,omitempty"`
	UploadedAt       time.Time           `json:"uploadedAt" bson:"uploadedAt"`
	LastUpdatedAt    time.Time           `json:"lastUpdatedAt" bson:"lastUpdatedAt"`
}

// AudioFile describes the uploaded audio. Written once at ingestion time and
// never mutated afterwards. StoragePathOrURL is assigned by the ingest store,
// never taken from the client.
type AudioFile struct {
	OriginalFilename string `json:"originalFilename" bson:"originalFilename"`
	StoragePathOrURL string `json:"storagePathOrUrl" bson:"storagePathOrUrl"`
	Mimetype         string `json:"mimetype" bson:"mimetype"`
}

// Transcription holds the full transcript text. Absent until transcription
// succeeds; immutable once written.
type Transcription struct {
	FullText string `json:"fullText" bson:"fullText"`
}

// ProcessingStatus tracks where a meeting is in the transcription pipeline.
// ErrorMessage is set if and only if the current stage is failed.
type ProcessingStatus struct {
	CurrentStage Stage  `json:"currentStage" bson:"currentStage"`
	ErrorMessage string `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
}

// Update carries a partial meeting mutation. Only non-nil fields are applied;
// repositories refresh lastUpdatedAt whenever at least one field is set.
type Update struct {
	Title            *string             `json:"title,omitempty"`
	ProjectID        *primitive.ObjectID `json:"projectId,omitempty"`
	Tags             *[]string           `json:"tags,omitempty"`
	MeetingDatetime  *time.Time          `json:"meetingDatetime,omitempty"`
	DurationSeconds  *int                `json:"durationSeconds,omitempty"`
	ProcessingStatus *ProcessingStatus   `json:"processingStatus,omitempty"`
	Transcription    *Transcription      `json:"transcription,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.ProjectID == nil && u.Tags == nil &&
		u.MeetingDatetime == nil && u.DurationSeconds == nil &&
		u.ProcessingStatus == nil && u.Transcription == nil
}
