// Package resume runs the optimization lifecycle for one uploaded résumé:
// extraction, contact recovery, model invocation, post-processing and
// persistence.
package resume

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-perfecto/internal/contacts"
	"github.com/jonathan/cv-perfecto/internal/db"
	"github.com/jonathan/cv-perfecto/internal/extraction"
	"github.com/jonathan/cv-perfecto/internal/latex"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/storage"
)

// Store is the persistence the service needs. *db.DB satisfies it.
type Store interface {
	CreateResume(ctx context.Context, userID uuid.UUID, fileName, jobDescription string) (*db.Resume, error)
	SaveExtraction(ctx context.Context, id uuid.UUID, text string, c contacts.Contacts) error
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) error
	CompleteResume(ctx context.Context, id uuid.UUID, latex, outputKey string) error
	FailResume(ctx context.Context, id uuid.UUID, message string) error
	GetResume(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error)
	ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
}

// Optimizer turns résumé text into LaTeX. *optimizer.Optimizer satisfies it.
type Optimizer interface {
	Optimize(ctx context.Context, resumeText, jobDescription string, c contacts.Contacts) (string, error)
}

// ErrNotFound is returned when a résumé does not exist for the user.
var ErrNotFound = errors.New("resume not found")

// Upload is one optimization request.
type Upload struct {
	UserID         uuid.UUID
	FileName       string
	Data           []byte
	JobDescription string
	OnProgress     ProgressCallback
}

// Service drives the résumé lifecycle.
type Service struct {
	store     Store
	extractor *extraction.Extractor
	optimizer Optimizer
	post      *latex.PostProcessor
	artifacts storage.ArtifactStore
}

// NewService wires the lifecycle. artifacts may be nil, in which case the
// LaTeX is only kept on the record.
func NewService(store Store, extractor *extraction.Extractor, opt Optimizer, post *latex.PostProcessor, artifacts storage.ArtifactStore) *Service {
	if extractor == nil {
		extractor = extraction.New()
	}
	if post == nil {
		post = latex.NewPostProcessor(nil)
	}
	return &Service{
		store:     store,
		extractor: extractor,
		optimizer: opt,
		post:      post,
		artifacts: artifacts,
	}
}

// Result is the output of a standalone run.
type Result struct {
	Text     string
	Contacts contacts.Contacts
	Latex    string
	Warnings []string
}

// Process runs the full lifecycle and returns the completed record. On
// failure the record is marked failed and the original error is returned.
func (s *Service) Process(ctx context.Context, up Upload) (*db.Resume, error) {
	record, err := s.store.CreateResume(ctx, up.UserID, up.FileName, up.JobDescription)
	if err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx).With().Str("resume_id", record.ID.String()).Logger()
	ctx = logger.WithContext(ctx, log)
	emit := func(stage Stage, msg string) {
		if up.OnProgress != nil {
			up.OnProgress(ProgressEvent{ResumeID: record.ID.String(), Stage: stage, Message: msg})
		}
	}
	emit(StageProcessing, "Processing started")

	out, key, err := s.run(ctx, record.ID, up, emit)
	if err != nil {
		log.Error().Err(err).Msg("resume optimization failed")
		s.markFailed(ctx, record.ID, err)
		emit(StageFailed, err.Error())
		return nil, err
	}

	if err := s.store.CompleteResume(ctx, record.ID, out.Latex, key); err != nil {
		s.markFailed(ctx, record.ID, err)
		emit(StageFailed, err.Error())
		return nil, err
	}
	emit(StageCompleted, "Resume optimized")
	log.Info().Int("latex_length", len(out.Latex)).Str("output_key", key).Msg("resume optimization completed")

	record.ExtractedText = out.Text
	record.ExtractedContacts = out.Contacts
	record.OptimizedLatex = out.Latex
	record.OutputKey = key
	record.Status = db.StatusCompleted
	record.Stage = string(StageCompleted)
	return record, nil
}

func (s *Service) run(ctx context.Context, id uuid.UUID, up Upload, emit func(Stage, string)) (*Result, string, error) {
	ext := extraction.ExtFromFilename(up.FileName)
	text, c, err := s.extract(ctx, up.Data, ext)
	if err != nil {
		return nil, "", err
	}
	if err := s.store.SaveExtraction(ctx, id, text, c); err != nil {
		return nil, "", err
	}
	s.advance(ctx, id, StageTextExtracted)
	emit(StageTextExtracted, fmt.Sprintf("Extracted %d characters", len(text)))

	out, err := s.optimize(ctx, text, up.JobDescription, c, func() {
		s.advance(ctx, id, StageAIInvoked)
		emit(StageAIInvoked, "Optimizing with AI")
	})
	if err != nil {
		return nil, "", err
	}
	s.advance(ctx, id, StagePostProcessed)
	emit(StagePostProcessed, "Post-processed LaTeX")

	key, err := s.saveArtifact(ctx, out.Latex)
	if err != nil {
		return nil, "", err
	}
	return out, key, nil
}

// Optimize runs the lifecycle without persistence.
func (s *Service) Optimize(ctx context.Context, fileName string, data []byte, jobDescription string) (*Result, error) {
	text, c, err := s.extract(ctx, data, extraction.ExtFromFilename(fileName))
	if err != nil {
		return nil, err
	}
	return s.optimize(ctx, text, jobDescription, c, nil)
}

// extract reads text and harvested links concurrently, recovers garbled or
// empty PDF text, and substitutes contact-only text when the result is still
// empty or garbled.
func (s *Service) extract(ctx context.Context, data []byte, ext string) (string, contacts.Contacts, error) {
	log := logger.Ctx(ctx)

	var text string
	var urls []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		text, err = s.extractor.Extract(gctx, data, ext)
		return err
	})
	g.Go(func() error {
		urls = s.extractor.AdditionalURLs(gctx, data, ext)
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", contacts.Contacts{}, err
	}

	text = s.extractor.Recover(ctx, data, ext, text)
	c := contacts.Extract(text, urls)
	log.Info().
		Int("text_length", len(text)).
		Int("urls", len(urls)).
		Interface("contacts", c).
		Msg("extracted resume")

	switch outcome := s.extractor.Thresholds().Classify(text); outcome {
	case extraction.OutcomeEmpty, extraction.OutcomeGarbled:
		log.Warn().Stringer("outcome", outcome).Msg("no readable text, using contact-only fallback")
		text = contacts.FallbackText(c)
	}
	return text, c, nil
}

func (s *Service) optimize(ctx context.Context, text, jobDescription string, c contacts.Contacts, invoked func()) (*Result, error) {
	log := logger.Ctx(ctx)
	if invoked != nil {
		invoked()
	}

	raw, err := s.optimizer.Optimize(ctx, text, jobDescription, c)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, issue := range latex.ValidateFidelity(raw, text) {
		log.Warn().Str("section", issue.Section).Str("issue", issue.String()).Msg("possible invented content")
		warnings = append(warnings, issue.String())
	}
	if latex.HasPlaceholderText(raw) {
		log.Warn().Msg("model output contains placeholder text")
		warnings = append(warnings, "placeholder text detected in model output")
	}

	out := s.post.Process(raw, text, c)
	if err := latex.ValidateStructure(out); err != nil {
		return nil, err
	}
	return &Result{Text: text, Contacts: c, Latex: out, Warnings: warnings}, nil
}

func (s *Service) saveArtifact(ctx context.Context, doc string) (string, error) {
	if s.artifacts == nil {
		return "", nil
	}
	key, err := s.artifacts.Save(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to save optimized resume: %w", err)
	}
	return key, nil
}

func (s *Service) advance(ctx context.Context, id uuid.UUID, stage Stage) {
	if err := s.store.UpdateStage(ctx, id, string(stage)); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("stage", string(stage)).Msg("failed to record stage")
	}
}

// markFailed never masks the error that caused the failure.
func (s *Service) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	if err := s.store.FailResume(context.WithoutCancel(ctx), id, cause.Error()); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to mark resume as failed")
	}
}

// GetUserResumes lists the user's résumés, newest first.
func (s *Service) GetUserResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error) {
	return s.store.ListResumesByUser(ctx, userID)
}

// GetResumeByID returns the user's résumé or ErrNotFound.
func (s *Service) GetResumeByID(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error) {
	r, err := s.store.GetResume(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

// Artifact returns the stored document for a completed résumé, falling back
// to the LaTeX on the record.
func (s *Service) Artifact(ctx context.Context, id, userID uuid.UUID) ([]byte, error) {
	r, err := s.GetResumeByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if r.Status != db.StatusCompleted {
		return nil, ErrNotFound
	}
	if s.artifacts != nil && r.OutputKey != "" {
		data, err := s.artifacts.Open(ctx, r.OutputKey)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}
	return []byte(r.OptimizedLatex), nil
}
