// Package review runs document evaluations: it extracts text from the
// uploaded documents, asks the model for a structured evaluation, scrapes
// the "areas of improvement" sections out of the reply, and records them so
// a later submission under the same (email, university, program) key is
// re-evaluated against the stored feedback.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/admitlens/admitlens/internal/db"
	"github.com/admitlens/admitlens/internal/doctext"
)

// Mode distinguishes a first evaluation from a re-evaluation.
type Mode string

const (
	ModeInitial      Mode = "initial"
	ModeReEvaluation Mode = "re-evaluation"
)

// Upload is one submitted document: the declared file name and raw bytes.
type Upload struct {
	Name string
	Data []byte
}

// Request holds one submission.
type Request struct {
	Email      string
	University string
	Program    string
	Resume     Upload
	SOP        Upload
	LOR        Upload
}

// Result is what a completed run returns to the presentation layer.
type Result struct {
	Mode        Mode
	Reply       string
	ResumeNotes string
	SOPNotes    string
	LORNotes    string
}

// ValidationError reports a rejected request. No side effects have occurred
// when one is returned.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Reviewer orchestrates one evaluation run.
type Reviewer struct {
	store     *db.Store
	generator Generator
}

// Config holds the Reviewer's collaborators.
type Config struct {
	Store     *db.Store
	Generator Generator
}

// New creates a Reviewer.
func New(cfg Config) *Reviewer {
	return &Reviewer{
		store:     cfg.Store,
		generator: cfg.Generator,
	}
}

// Run performs one evaluation: exactly one feedback row is appended per
// successful run, whether initial or re-evaluation.
//
// Two concurrent runs for the same key can both read the same latest row
// and each append; the loser's carry-forward is then stale. Accepted for a
// single-user workflow; there is no cross-statement transaction here.
func (r *Reviewer) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	university := strings.TrimSpace(req.University)
	program := strings.TrimSpace(req.Program)

	// The three extractions are independent pure functions; run them
	// concurrently. A failed extraction is an empty string, never an abort.
	var resumeText, sopText, lorText string
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); resumeText = doctext.Extract(req.Resume.Data, req.Resume.Name) }()
	go func() { defer wg.Done(); sopText = doctext.Extract(req.SOP.Data, req.SOP.Name) }()
	go func() { defer wg.Done(); lorText = doctext.Extract(req.LOR.Data, req.LOR.Name) }()
	wg.Wait()

	prev, err := r.store.LatestFeedback(ctx, email, university, program)
	if err != nil {
		return nil, fmt.Errorf("look up previous feedback: %w", err)
	}

	// A latest row whose notes are all empty selects initial mode, same as
	// no row at all.
	if !prev.HasAny() {
		return r.runInitial(ctx, email, university, program, resumeText, sopText, lorText)
	}
	return r.runReEvaluation(ctx, email, university, program, resumeText, sopText, lorText, prev)
}

func (r *Reviewer) runInitial(ctx context.Context, email, university, program, resumeText, sopText, lorText string) (*Result, error) {
	slog.Info("running initial evaluation", "email", email, "university", university, "program", program)

	prompt := BuildInitialPrompt(university, program, resumeText, sopText, lorText)
	reply := r.generator.Generate(ctx, prompt)

	notes := ExtractInitialNotes(reply)

	id, err := r.store.InsertFeedback(ctx, db.FeedbackParams{
		Email:       email,
		University:  university,
		Program:     program,
		ResumeNotes: notes.Resume,
		SOPNotes:    notes.SOP,
		LORNotes:    notes.LOR,
	})
	if err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	slog.Info("initial evaluation saved", "id", id)
	return &Result{
		Mode:        ModeInitial,
		Reply:       reply,
		ResumeNotes: notes.Resume,
		SOPNotes:    notes.SOP,
		LORNotes:    notes.LOR,
	}, nil
}

func (r *Reviewer) runReEvaluation(ctx context.Context, email, university, program, resumeText, sopText, lorText string, prev db.FeedbackNotes) (*Result, error) {
	slog.Info("running re-evaluation", "email", email, "university", university, "program", program)

	prompt := BuildReEvaluationPrompt(university, program, resumeText, sopText, lorText, PriorNotes{
		Resume: prev.Resume.String,
		SOP:    prev.SOP.String,
		LOR:    prev.LOR.String,
	})
	reply := r.generator.Generate(ctx, prompt)

	// A sub-section the extractor could not find carries the prior notes
	// forward unchanged; a found-but-empty sub-section legitimately
	// replaces them with nothing.
	issues := ExtractRemainingIssues(reply)
	resumeNotes := carryForward(issues.Resume, prev.Resume.String)
	sopNotes := carryForward(issues.SOP, prev.SOP.String)
	lorNotes := carryForward(issues.LOR, prev.LOR.String)

	id, err := r.store.InsertFeedback(ctx, db.FeedbackParams{
		Email:       email,
		University:  university,
		Program:     program,
		ResumeNotes: resumeNotes,
		SOPNotes:    sopNotes,
		LORNotes:    lorNotes,
	})
	if err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	slog.Info("re-evaluation saved", "id", id)
	return &Result{
		Mode:        ModeReEvaluation,
		Reply:       reply,
		ResumeNotes: resumeNotes,
		SOPNotes:    sopNotes,
		LORNotes:    lorNotes,
	}, nil
}

func carryForward(extracted *string, prior string) string {
	if extracted == nil {
		return prior
	}
	return *extracted
}

func validate(req Request) error {
	if strings.TrimSpace(req.Email) == "" {
		return ValidationError("email is required")
	}
	if strings.TrimSpace(req.University) == "" {
		return ValidationError("university is required")
	}
	if strings.TrimSpace(req.Program) == "" {
		return ValidationError("program is required")
	}
	if len(req.Resume.Data) == 0 {
		return ValidationError("resume upload is required")
	}
	if len(req.SOP.Data) == 0 {
		return ValidationError("SOP upload is required")
	}
	if len(req.LOR.Data) == 0 {
		return ValidationError("LOR upload is required")
	}
	return nil
}
