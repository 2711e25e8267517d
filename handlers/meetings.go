package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mplazax/meeting-syntesis/internal/meeting"
	"github.com/mplazax/meeting-syntesis/internal/meeting/repository"
	"github.com/mplazax/meeting-syntesis/internal/meeting/service"
	"github.com/mplazax/meeting-syntesis/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingHandler exposes the meeting upload and CRUD endpoints.
type MeetingHandler struct {
	svc *service.Service
}

func NewMeetingHandler(s *service.Service) *MeetingHandler {
	return &MeetingHandler{svc: s}
}

// Register routes under the given (already authenticated) group.
func (h *MeetingHandler) Register(rg *gin.RouterGroup) {
	m := rg.Group("/meetings")
	m.POST("/upload", h.Upload)
	m.GET("", h.List)
	m.GET("/:id", h.Get)
	m.PATCH("/:id", h.Update)
	m.DELETE("/:id", h.Delete)
	m.GET("/:id/audio", h.Audio)

	rg.GET("/projects/:id/meetings", h.ListByProject)
}

// Upload accepts a multipart request with meeting metadata and one audio
// attachment, and runs it through the transcription pipeline. A failed
// transcription still answers 201: the failure is carried in
// processingStatus, not in the response code.
func (h *MeetingHandler) Upload(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	form := service.UploadForm{Title: title}

	if pid := c.PostForm("project_id"); pid != "" {
		oid, err := primitive.ObjectIDFromHex(pid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		form.ProjectID = &oid
	}
	form.Tags = splitList(c.PostFormArray("tags"))

	if dt := c.PostForm("meeting_datetime"); dt != "" {
		parsed, err := time.Parse(time.RFC3339, dt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "meeting_datetime must be RFC3339"})
			return
		}
		form.MeetingDatetime = parsed.UTC()
	} else {
		form.MeetingDatetime = time.Now().UTC()
	}
	if ds := c.PostForm("duration_seconds"); ds != "" {
		n, err := strconv.Atoi(ds)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration_seconds must be a non-negative integer"})
			return
		}
		form.DurationSeconds = n
	}

	fh, err := c.FormFile("audio_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio_file attachment is required"})
		return
	}
	form.OriginalFilename = fh.Filename
	form.ContentType = fh.Header.Get("Content-Type")

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read audio attachment"})
		return
	}
	defer f.Close()

	m, err := h.svc.HandleUpload(c.Request.Context(), form, f)
	if err != nil {
		logger.Errorf("upload failed before record creation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// splitList flattens repeated fields and comma-separated values into one
// slice; "a,b" and tags=a&tags=b are equivalent.
func splitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (h *MeetingHandler) List(c *gin.Context) {
	f := repository.Filter{
		Query:  c.Query("q"),
		SortBy: c.Query("sort_by"),
	}
	if v := c.Query("project_ids"); v != "" {
		f.ProjectIDs = splitList([]string{v})
	}
	if v := c.Query("tags"); v != "" {
		f.Tags = splitList([]string{v})
	}
	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meeting listing failed"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MeetingHandler) ListByProject(c *gin.Context) {
	list, err := h.svc.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meeting listing failed"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MeetingHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meeting lookup failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// meetingPatch is the JSON shape of a partial meeting update. Absent fields
// stay untouched.
type meetingPatch struct {
	Title           *string    `json:"title"`
	ProjectID       *string    `json:"projectId"`
	Tags            *[]string  `json:"tags"`
	MeetingDatetime *time.Time `json:"meetingDatetime"`
	DurationSeconds *int       `json:"durationSeconds"`
}

func (h *MeetingHandler) Update(c *gin.Context) {
	var req meetingPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := meeting.Update{
		Title:           req.Title,
		Tags:            req.Tags,
		MeetingDatetime: req.MeetingDatetime,
		DurationSeconds: req.DurationSeconds,
	}
	if req.ProjectID != nil {
		oid, err := primitive.ObjectIDFromHex(*req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
			return
		}
		u.ProjectID = &oid
	}
	m, err := h.svc.Update(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meeting update failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meeting delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Audio streams the stored recording back to the client.
func (h *MeetingHandler) Audio(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meeting lookup failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	rc, err := h.svc.OpenAudio(c.Request.Context(), m)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audio not available"})
		return
	}
	defer rc.Close()
	ct := m.AudioFile.Mimetype
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Type", ct)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Warnf("audio stream aborted for meeting %s: %v", m.ID.Hex(), err)
	}
}
