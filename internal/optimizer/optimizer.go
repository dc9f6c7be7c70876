// Package optimizer asks a chat-completion model to rewrite a résumé as an
// ATS-oriented LaTeX document.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/cv-perfecto/internal/contacts"
	"github.com/jonathan/cv-perfecto/internal/llm"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/prompts"
)

const promptFile = "optimize.json"

var promptKeys = []string{"optimize-system", "optimize-user", "template-hint", "contact-only"}

// Sampling parameters sent with every attempt.
const (
	MaxTokens        = 4000
	Temperature      = 0.1
	TopP             = 0.8
	FrequencyPenalty = 0.1
)

// TemplateHintLength is how much of the LaTeX template is shown to the model.
const TemplateHintLength = 1200

// Optimizer turns résumé text plus a job description into LaTeX.
type Optimizer struct {
	client   llm.ChatCompleter
	models   []string
	template string
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithModels overrides the ordered model list.
func WithModels(models ...string) Option {
	return func(o *Optimizer) {
		if len(models) > 0 {
			o.models = append([]string(nil), models...)
		}
	}
}

// WithTemplate sets the LaTeX template whose head is included in the system
// prompt.
func WithTemplate(latex string) Option {
	return func(o *Optimizer) {
		o.template = latex
	}
}

// New creates an Optimizer using the default Perplexity model list.
func New(client llm.ChatCompleter, opts ...Option) *Optimizer {
	o := &Optimizer{
		client: client,
		models: append([]string(nil), llm.DefaultPerplexityModels...),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Models returns the ordered model list.
func (o *Optimizer) Models() []string {
	return append([]string(nil), o.models...)
}

// Optimize tries each model once, in order. A model reporting
// llm.ErrModelNotFound moves on to the next; any other error is returned
// immediately.
func (o *Optimizer) Optimize(ctx context.Context, resumeText, jobDescription string, c contacts.Contacts) (string, error) {
	system, user, err := o.BuildPrompts(resumeText, jobDescription, c)
	if err != nil {
		return "", err
	}

	log := logger.Ctx(ctx)
	if contacts.IsContactOnly(resumeText) {
		log.Warn().Msg("contact-only resume text, asking for a minimal document")
	}

	var last error
	for _, model := range o.models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		log.Info().Str("model", model).Msg("trying model")
		out, err := o.client.Complete(ctx, llm.Request{
			Model: model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: system},
				{Role: llm.RoleUser, Content: user},
			},
			MaxTokens:        MaxTokens,
			Temperature:      Temperature,
			TopP:             TopP,
			FrequencyPenalty: FrequencyPenalty,
		})
		if err != nil {
			if errors.Is(err, llm.ErrModelNotFound) {
				log.Warn().Err(err).Str("model", model).Msg("model unavailable, trying next")
				last = err
				continue
			}
			return "", fmt.Errorf("model %s failed: %w", model, err)
		}

		log.Info().Str("model", model).Int("chars", len(out)).Msg("model succeeded")
		return llm.CleanCodeBlock(out), nil
	}

	return "", &AllModelsFailedError{Models: o.Models(), Last: last}
}

// CheckPrompts reports any prompt the optimizer renders that is missing from
// the embedded prompt file.
func CheckPrompts() error {
	keys, err := prompts.List(promptFile)
	if err != nil {
		return err
	}
	return missingPrompts(keys, promptKeys)
}

func missingPrompts(have, want []string) error {
	var missing []string
	for _, key := range want {
		if !slices.Contains(have, key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is missing prompts: %s", promptFile, strings.Join(missing, ", "))
	}
	return nil
}

// BuildPrompts renders the system and user prompts for one request.
func (o *Optimizer) BuildPrompts(resumeText, jobDescription string, c contacts.Contacts) (string, string, error) {
	hint := ""
	if o.template != "" {
		var err error
		hint, err = prompts.Render(promptFile, "template-hint", map[string]string{
			"Template": truncateRunes(o.template, TemplateHintLength),
		})
		if err != nil {
			return "", "", err
		}
	}

	system, err := prompts.Render(promptFile, "optimize-system", map[string]string{"TemplateHint": hint})
	if err != nil {
		return "", "", err
	}

	user, err := prompts.Render(promptFile, "optimize-user", map[string]string{
		"ResumeText":       resumeText,
		"JobDescription":   jobDescription,
		"PreservationNote": contacts.PreservationNote(c),
	})
	if err != nil {
		return "", "", err
	}
	if contacts.IsContactOnly(resumeText) {
		block, err := prompts.Get(promptFile, "contact-only")
		if err != nil {
			return "", "", err
		}
		user += block
	}
	return system, user, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
