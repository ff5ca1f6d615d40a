// Package pipeline turns a company homepage into a complete brand profile:
// scrape, pick an image, extract a palette, write copy, complete.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/internal/scrape"
)

// Stage names used in logs and stage reports.
const (
	StageValidate   = "validate"
	StageScrape     = "scrape"
	StageImage      = "select_image"
	StageColors     = "colors"
	StageSynthesize = "synthesize"
	StageComplete   = "complete"
)

var urlPattern = regexp.MustCompile(`(?i)^https?://`)

// Result is the envelope returned for every run. Data is set only on success;
// Error only on failure.
type Result struct {
	RunID   string              `json:"run_id" yaml:"run_id"`
	Success bool                `json:"success" yaml:"success"`
	Data    *model.CompanyInfo  `json:"data,omitempty" yaml:"data,omitempty"`
	Error   string              `json:"error,omitempty" yaml:"error,omitempty"`
	Logs    []model.LogEntry    `json:"logs" yaml:"logs"`
	Stages  []model.StageReport `json:"stages,omitempty" yaml:"stages,omitempty"`
}

// Record converts the result to a persisted run record.
func (r Result) Record(companyID, url string) model.RunRecord {
	return model.RunRecord{
		ID:        r.RunID,
		CompanyID: companyID,
		URL:       url,
		Success:   r.Success,
		Error:     r.Error,
		Stages:    r.Stages,
		Logs:      r.Logs,
		CreatedAt: time.Now().UTC(),
	}
}

// Pipeline runs the brand generation stages in order.
type Pipeline struct {
	scraper scrape.MetadataScraper
	colors  *ColorExtractor
	synth   *Synthesizer
	newID   func() string
}

// New creates a Pipeline. A nil color extractor yields the default palette;
// a nil synthesizer yields the heuristic profile.
func New(scraper scrape.MetadataScraper, colors *ColorExtractor, synth *Synthesizer) *Pipeline {
	return &Pipeline{
		scraper: scraper,
		colors:  colors,
		synth:   synth,
		newID:   uuid.NewString,
	}
}

// ValidURL reports whether s is a non-empty http(s) URL.
func ValidURL(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && urlPattern.MatchString(s)
}

// Generate runs the pipeline for one homepage URL. It never returns an error
// value: failures come back as an unsuccessful Result with a message that is
// safe to show, while the cause is logged.
func (p *Pipeline) Generate(ctx context.Context, rawURL string) (res Result) {
	runID := p.newID()
	log := NewLog(runID)
	stages := make([]model.StageReport, 0, 6)
	zlog := zap.L().With(zap.String("run_id", runID), zap.String("url", rawURL))

	fail := func(msg string) Result {
		return Result{RunID: runID, Error: msg, Logs: log.Entries(), Stages: stages}
	}

	defer func() {
		if r := recover(); r != nil {
			zlog.Error("pipeline: recovered panic", zap.Any("panic", r), zap.Stack("stack"))
			log.Add("pipeline", "unexpected failure", nil)
			res = fail(MsgGeneric)
		}
	}()

	target := strings.TrimSpace(rawURL)
	if !ValidURL(target) {
		log.Add(StageValidate, "rejected url", map[string]any{"url": rawURL})
		stages = append(stages, model.StageReport{Name: StageValidate, Status: model.StageStatusFatal, Reason: "invalid url"})
		zlog.Info("pipeline: invalid url")
		return fail(MsgInvalidURL)
	}

	start := time.Now()
	zlog.Info("pipeline: starting", zap.String("model", p.synth.ModelName()))

	info, err := p.run(ctx, log, target, &stages)
	if err != nil {
		zlog.Error("pipeline: failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		log.Add("pipeline", "run failed", nil)
		return fail(userMessage(err))
	}

	zlog.Info("pipeline: complete",
		zap.String("company", info.CompanyName),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	log.Add("pipeline", "profile generated", nil)
	return Result{RunID: runID, Success: true, Data: &info, Logs: log.Entries(), Stages: stages}
}

func (p *Pipeline) run(ctx context.Context, log *Log, target string, stages *[]model.StageReport) (model.CompanyInfo, error) {
	raw, err := p.scrape(ctx, log, target)
	if err != nil {
		*stages = append(*stages, model.StageReport{Name: StageScrape, Status: model.StageStatusFatal, Reason: scrapeReason(err)})
		return model.CompanyInfo{}, err
	}
	*stages = append(*stages, Ok(raw).Report(StageScrape))

	bestImage := SelectBestImage(raw)
	image := Ok(bestImage)
	if bestImage == "" {
		image = Degraded("", "no image found")
	}
	log.Add(StageImage, "selected image", map[string]any{"image_url": bestImage})
	*stages = append(*stages, image.Report(StageImage))

	palette := p.colors.Extract(ctx, log, bestImage)
	*stages = append(*stages, palette.Report(StageColors))

	profile := p.synth.Refine(ctx, log, raw, palette.Value, bestImage, target)
	*stages = append(*stages, profile.Report(StageSynthesize))

	info := EnsureCompleteProfile(profile.Value)
	*stages = append(*stages, Ok(info).Report(StageComplete))
	return info, nil
}

func (p *Pipeline) scrape(ctx context.Context, log *Log, target string) (*model.RawMetadata, error) {
	if p.scraper == nil {
		log.Add(StageScrape, "no scraper configured", nil)
		return nil, eris.Wrap(scrape.ErrNotConfigured, "pipeline")
	}

	log.Add(StageScrape, "requesting metadata", map[string]any{"provider": p.scraper.Name()})
	raw, err := p.scraper.Scrape(ctx, target)
	if err != nil {
		meta := map[string]any{"error": err.Error(), "provider": p.scraper.Name()}
		var se *scrape.StatusError
		if errors.As(err, &se) {
			meta["status"] = se.StatusCode
		}
		log.Add(StageScrape, "scrape failed", meta)

		if eris.Is(err, scrape.ErrTimeout) {
			return nil, &UserError{Message: MsgTimeout, Err: err}
		}
		return nil, err
	}
	if raw == nil {
		raw = &model.RawMetadata{}
	}

	log.Add(StageScrape, "metadata received", map[string]any{
		"meta_tags":       len(raw.MetaTags),
		"structured_data": len(raw.StructuredData),
		"h1s":             len(raw.AllH1s),
		"h2s":             len(raw.AllH2s),
	})
	return raw, nil
}

func scrapeReason(err error) string {
	var se *scrape.StatusError
	switch {
	case eris.Is(err, scrape.ErrTimeout):
		return "timeout"
	case eris.Is(err, scrape.ErrNotConfigured):
		return "not configured"
	case eris.Is(err, scrape.ErrEmptyResponse):
		return "empty response"
	case eris.Is(err, scrape.ErrUnexpectedFormat):
		return "unexpected format"
	case eris.Is(err, scrape.ErrBlocked):
		return "blocked"
	case errors.As(err, &se):
		return fmt.Sprintf("status %d", se.StatusCode)
	default:
		return "request failed"
	}
}
