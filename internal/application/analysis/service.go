package analysis

import (
	"context"

	domain "github.com/bintangp/dermalens/internal/domain/analysis"
	"github.com/bintangp/dermalens/internal/infra/ai/prompt"
	"github.com/bintangp/dermalens/internal/infra/imageproc"
)

// Preprocessor bounds and re-encodes an image payload before transmission.
type Preprocessor func(input string, maxWidth int, quality float64) string

// Options carries everything that used to be scattered across service
// variants: the model priority list, prompts, backfill strings and the
// credential. Read-only after construction.
type Options struct {
	APIKey           string
	Models           []string
	MaxWidth         int
	Quality          float64
	Backfill         Backfill
	AnalysisPrompt   string
	ComparisonPrompt string
}

// Service implements the analysis use-cases. Both operations resolve to a
// well-formed record for every input; no internal error crosses this boundary.
type Service struct {
	client domain.Client
	prep   Preprocessor
	opts   Options
}

func NewService(client domain.Client, prep Preprocessor, opts Options) *Service {
	if prep == nil {
		prep = imageproc.Compress
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = imageproc.DefaultMaxWidth
	}
	if opts.Quality <= 0 || opts.Quality > 1 {
		opts.Quality = imageproc.DefaultQuality
	}
	if opts.AnalysisPrompt == "" {
		opts.AnalysisPrompt = prompt.GetAnalysisPrompt()
	}
	if opts.ComparisonPrompt == "" {
		opts.ComparisonPrompt = prompt.GetComparisonPrompt()
	}
	if emptyBackfill(opts.Backfill) {
		opts.Backfill = DefaultBackfill()
	}
	return &Service{client: client, prep: prep, opts: opts}
}

func emptyBackfill(b Backfill) bool {
	return len(b.Symptoms) == 0 && len(b.Reasons) == 0 && len(b.Precautions) == 0 &&
		len(b.Prevention) == 0 && len(b.Treatments) == 0
}

// AnalyzeImage runs preprocess -> cascade -> normalize. A missing credential
// short-circuits before any network call.
func (s *Service) AnalyzeImage(ctx context.Context, rawImage string) *domain.SkinAnalysis {
	if s.opts.APIKey == "" {
		return fallbackAnalysis(domain.ErrMissingAPIKey)
	}

	img := s.prep(rawImage, s.opts.MaxWidth, s.opts.Quality)

	body, err := s.client.Complete(ctx, s.opts.AnalysisPrompt, []string{img}, s.opts.Models)
	if err != nil {
		return fallbackAnalysis(err)
	}

	result, err := Normalize(body, s.opts.Backfill)
	if err != nil {
		return fallbackAnalysis(err)
	}
	return result
}

// CompareProgression submits both images in one request; the earlier photo
// goes first. Same never-fails boundary as AnalyzeImage.
func (s *Service) CompareProgression(ctx context.Context, imageBefore, imageAfter string) *domain.ComparisonResult {
	if s.opts.APIKey == "" {
		return fallbackComparison(domain.ErrMissingAPIKey)
	}

	before := s.prep(imageBefore, s.opts.MaxWidth, s.opts.Quality)
	after := s.prep(imageAfter, s.opts.MaxWidth, s.opts.Quality)

	body, err := s.client.Complete(ctx, s.opts.ComparisonPrompt, []string{before, after}, s.opts.Models)
	if err != nil {
		return fallbackComparison(err)
	}

	result, err := NormalizeComparison(body)
	if err != nil {
		return fallbackComparison(err)
	}
	return result
}

func fallbackAnalysis(err error) *domain.SkinAnalysis {
	return &domain.SkinAnalysis{
		IsSkin:        false,
		IsHealthy:     false,
		DiseaseName:   "Error",
		Description:   err.Error(),
		Symptoms:      domain.PointList{},
		Reasons: domain.PointList{
			{Title: "Analysis Failed", Details: err.Error()},
		},
		Precautions: domain.PointList{
			{Title: "Try Again", Details: "Retake the photo and resubmit; contact support if the problem persists."},
		},
		Prevention:    domain.PointList{},
		Treatments:    domain.PointList{},
		Medicines:     []string{},
		HealingPeriod: "Unknown",
	}
}

func fallbackComparison(err error) *domain.ComparisonResult {
	return &domain.ComparisonResult{
		Verdict:        domain.VerdictUnclear,
		Changes:        []string{"Comparison could not be completed: " + err.Error()},
		Recommendation: "Try again with two clear photos of the same area.",
	}
}
