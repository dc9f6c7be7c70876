package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/cv-perfecto/internal/db"
	"github.com/jonathan/cv-perfecto/internal/extraction"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/resume"
	"github.com/jonathan/cv-perfecto/internal/server/middleware"
	"github.com/jonathan/cv-perfecto/internal/types"
)

// Upload limits.
const (
	MaxUploadSize     = 10 << 20
	MinJobDescription = 50
	MaxJobDescription = 10000
)

// Accepted upload MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ResumeService is the résumé lifecycle used by the handlers.
// *resume.Service satisfies it.
type ResumeService interface {
	Process(ctx context.Context, up resume.Upload) (*db.Resume, error)
	GetUserResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	GetResumeByID(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error)
	Artifact(ctx context.Context, id, userID uuid.UUID) ([]byte, error)
}

// HealthProbe reports dependency state for the health endpoint.
type HealthProbe struct {
	OutputDir     string
	UploadsDir    string
	LLMConfigured bool
	PDFLatex      func() bool
	Database      func(ctx context.Context) error
	Storage       func(ctx context.Context) error
}

// ResumeHandler serves /api/resume.
type ResumeHandler struct {
	service   ResumeService
	health    HealthProbe
	validator *validator.Validate
}

// NewResumeHandler creates a ResumeHandler.
func NewResumeHandler(service ResumeService, health HealthProbe) *ResumeHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return &ResumeHandler{service: service, health: health, validator: v}
}

// Health reports directory, pdflatex, model key, database and storage state.
func (h *ResumeHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	services := types.HealthServices{
		Directories: map[string]bool{
			"output":  dirExists(h.health.OutputDir),
			"uploads": dirExists(h.health.UploadsDir),
		},
		LLM: h.health.LLMConfigured,
	}
	if h.health.PDFLatex != nil {
		services.PDFLatex = h.health.PDFLatex()
	}
	if h.health.Database != nil {
		services.Database = h.health.Database(ctx) == nil
	}
	if h.health.Storage != nil {
		services.Storage = h.health.Storage(ctx) == nil
	}

	jsonResponse(w, http.StatusOK, types.Success(types.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	}, ""))
}

// Formats lists accepted uploads and limits.
func (h *ResumeHandler) Formats(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, types.Success(types.FormatInfo{
		Resume: types.ResumeFormats{
			Formats:   []string{"PDF", "DOCX"},
			MimeTypes: []string{MimePDF, MimeDOCX},
			MaxSize:   "10MB",
		},
		JobDescription: types.JobDescriptionFormats{
			Formats:   []string{"Text"},
			MaxLength: MaxJobDescription,
		},
	}, ""))
}

// Optimize runs the pipeline synchronously and returns the record.
func (h *ResumeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	record, err := h.service.Process(context.WithoutCancel(r.Context()), up)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.Success(record, "Resume optimized successfully"))
}

// OptimizeStream runs the pipeline and streams stage events.
func (h *ResumeHandler) OptimizeStream(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, types.Failure(err.Error()))
		return
	}
	log := logger.Ctx(r.Context())
	up.OnProgress = func(e resume.ProgressEvent) {
		if err := sse.WriteEvent("stage", e); err != nil {
			log.Debug().Err(err).Msg("failed to write SSE event")
		}
	}

	record, err := h.service.Process(context.WithoutCancel(r.Context()), up)
	if err != nil {
		_ = sse.WriteEvent("error", types.Failure(publicMessage(err)))
		return
	}
	_ = sse.WriteEvent("complete", types.Success(record, "Resume optimized successfully"))
}

// MyResumes lists the caller's résumés, newest first.
func (h *ResumeHandler) MyResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusUnauthorized, types.Failure("Unauthorized"))
		return
	}
	list, err := h.service.GetUserResumes(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.Success(list, ""))
}

// Get returns one of the caller's résumés.
func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	record, err := h.service.GetResumeByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.Success(record, ""))
}

// Download sends the optimized LaTeX as an attachment.
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	data, err := h.service.Artifact(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="optimized_resume_%s.ltx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ResumeHandler) ownerAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusUnauthorized, types.Failure("Unauthorized"))
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, types.Failure("Invalid resume ID format"))
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// readUpload validates the multipart form and writes the error response
// when it is invalid.
func (h *ResumeHandler) readUpload(w http.ResponseWriter, r *http.Request) (resume.Upload, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		jsonResponse(w, http.StatusUnauthorized, types.Failure("Unauthorized"))
		return resume.Upload{}, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, &ErrValidation{Field: "resume", Message: "File size too large. Maximum size is 10MB"})
			return resume.Upload{}, false
		}
		writeError(w, r, &ErrValidation{Field: "resume", Message: "Resume file is required"})
		return resume.Upload{}, false
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, r, &ErrValidation{Field: "resume", Message: "Resume file is required"})
		return resume.Upload{}, false
	}
	defer file.Close()

	fileName, err := uploadFileName(header)
	if err != nil {
		writeError(w, r, err)
		return resume.Upload{}, false
	}

	form := types.OptimizeRequest{JobDescription: strings.TrimSpace(r.FormValue("jobDescription"))}
	if err := h.validator.Struct(&form); err != nil {
		writeError(w, r, formError(err))
		return resume.Upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return resume.Upload{}, false
	}
	if len(data) > MaxUploadSize {
		writeError(w, r, &ErrValidation{Field: "resume", Message: "File size too large. Maximum size is 10MB"})
		return resume.Upload{}, false
	}

	logger.Ctx(r.Context()).Info().
		Str("file", fileName).
		Int("job_description_length", len(form.JobDescription)).
		Msg("processing resume optimization request")

	return resume.Upload{
		UserID:         userID,
		FileName:       fileName,
		Data:           data,
		JobDescription: form.JobDescription,
	}, true
}

// uploadFileName accepts a PDF or DOCX by extension or MIME type. A name
// without a supported extension gets one from its MIME type.
func uploadFileName(h *multipart.FileHeader) (string, error) {
	if h.Size > MaxUploadSize {
		return "", &ErrValidation{Field: "resume", Message: "File size too large. Maximum size is 10MB"}
	}
	switch extraction.ExtFromFilename(h.Filename) {
	case extraction.ExtPDF, extraction.ExtDOCX:
		return h.Filename, nil
	}
	mime, _, _ := strings.Cut(h.Header.Get("Content-Type"), ";")
	switch strings.TrimSpace(mime) {
	case MimePDF:
		return h.Filename + extraction.ExtPDF, nil
	case MimeDOCX:
		return h.Filename + extraction.ExtDOCX, nil
	}
	return "", &ErrValidation{Field: "resume", Message: "Only PDF and DOCX files are allowed"}
}

// formError reports the first invalid form field.
func formError(err error) error {
	fields := extractValidationErrors(err)
	return &ErrValidation{Field: fields[0].Field, Message: fields[0].Message}
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
