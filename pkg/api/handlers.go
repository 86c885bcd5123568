package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gowebpki/jcs"
	"go.opentelemetry.io/otel/attribute"

	"github.com/obralink/avance/pkg/evm"
	"github.com/obralink/avance/pkg/observability"
	"github.com/obralink/avance/pkg/schedule"
	"github.com/obralink/avance/pkg/store"
)

// ReportService serves Curve-S reports from a schedule store.
type ReportService struct {
	store  store.Reader
	cache  *ResponseCache // nil disables caching
	obs    *observability.Provider
	logger *slog.Logger

	datePolicy schedule.DatePolicy
	now        func() time.Time
}

// NewReportService wires a reporting surface. cache may be nil.
func NewReportService(reader store.Reader, cache *ResponseCache, obs *observability.Provider, policy schedule.DatePolicy) *ReportService {
	return &ReportService{
		store:      reader,
		cache:      cache,
		obs:        obs,
		logger:     slog.Default().With("component", "api"),
		datePolicy: policy,
		now:        time.Now,
	}
}

// HandleCurvaS handles GET /api/v1/projects/{id}/curva-s.
//
// An unknown project is the one hard failure (404); a project with no
// snapshots or no actuals yields a valid empty report. The response
// carries an ETag derived from the canonical (RFC 8785) form of the
// body — sound because identical inputs always render identical
// reports.
func (s *ReportService) HandleCurvaS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := r.PathValue("id")

	asOf := schedule.Day(s.now())
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("invalid as_of date %q, want YYYY-MM-DD", v))
			return
		}
		asOf = parsed
	}

	if s.cache != nil {
		if body, ok := s.cache.Get(ctx, reportCacheKey(projectID, asOf)); ok {
			writeReport(w, r, body)
			return
		}
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			WriteNotFound(w, fmt.Sprintf("project %q does not exist", projectID))
			return
		}
		WriteInternal(w, err)
		return
	}

	snapshots, err := s.store.ListSnapshots(ctx, projectID)
	if err != nil {
		WriteInternal(w, err)
		return
	}
	actuals, err := s.store.ListActualProgress(ctx, projectID)
	if err != nil {
		WriteInternal(w, err)
		return
	}

	ctx, finish := s.obs.TrackOperation(ctx, "compute_curva_s",
		attribute.String("project.id", projectID))
	result, anomalies := evm.Compute(*project, snapshots, actuals, evm.Options{
		AsOf:          asOf,
		ValuationDate: s.datePolicy,
	})
	finish(nil)

	if len(anomalies) > 0 {
		s.logger.WarnContext(ctx, "report computed with anomalies",
			"project_id", projectID, "count", len(anomalies))
	}
	if !result.HasBaseline {
		s.logger.InfoContext(ctx, "no baseline snapshot, using latest", "project_id", projectID)
	}

	body, err := json.Marshal(result)
	if err != nil {
		WriteInternal(w, err)
		return
	}
	if s.cache != nil {
		s.cache.Set(ctx, reportCacheKey(projectID, asOf), body)
	}
	writeReport(w, r, body)
}

// HandleHealthz handles GET /healthz.
func (s *ReportService) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// writeReport writes a JSON report with its ETag, answering 304 when
// the client already holds the current version.
func writeReport(w http.ResponseWriter, r *http.Request, body []byte) {
	etag := etagFor(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(body)
}

// etagFor hashes the RFC 8785 canonical form of a JSON body, so the
// tag is stable across any non-semantic serialization differences.
func etagFor(body []byte) string {
	canonical, err := jcs.Transform(body)
	if err != nil {
		canonical = body
	}
	sum := sha256.Sum256(canonical)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
