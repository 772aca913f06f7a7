package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
	"catalog-hq/marcval/pkg/marc/rules"
	"catalog-hq/marcval/pkg/marc/validator"
	"catalog-hq/marcval/pkg/report"
	"catalog-hq/marcval/pkg/telemetry/logging"
)

// errorResponse is the JSON shape for request-level failures.
type errorResponse struct {
	Error string `json:"error"`
}

// validateResponse is the 200/422 body for POST /v1/validate.
type validateResponse struct {
	Valid      bool                    `json:"valid"`
	Record     json.RawMessage         `json:"record,omitempty"`
	Violations []*marcerrors.Violation `json:"violations,omitempty"`
	ReportID   string                  `json:"report_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// requestOverrides is the optional rule override envelope a validation
// request may carry alongside the record keys.
type requestOverrides struct {
	Rules      map[string]*rules.Rule `json:"rules"`
	ReplaceAll bool                   `json:"replace_all"`
}

// handleValidate validates one record posted as the canonical record
// object, optionally extended with "rules" and "replace_all".
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var overrides requestOverrides
	if err := json.Unmarshal(body, &overrides); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	for tag := range overrides.Rules {
		if !rules.ValidTag(tag) {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid rule key %q: must be a three-digit tag or LDR", tag))
			return
		}
	}

	var rec marc.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid record: %v", err))
		return
	}

	ruleCtx, ruleSource := s.resolveRuleContext(&overrides)
	ctx := logging.WithRuleSource(r.Context(), ruleSource)
	if cn := rec.ControlNumber(); cn != "" {
		ctx = logging.WithControlNumber(ctx, cn)
	}

	v := validator.New(validator.WithRuleContext(ruleCtx))
	start := time.Now()
	list := v.Validate(&rec)
	duration := time.Since(start)

	if s.collector != nil {
		kinds := make(map[string]int)
		for _, viol := range list.Violations {
			kinds[string(viol.Kind)]++
		}
		s.collector.RecordValidation(duration, kinds)
	}

	resp := validateResponse{Valid: !list.HasErrors()}
	if resp.Valid {
		canonical, err := json.Marshal(&rec)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to marshal record", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp.Record = canonical
	} else {
		resp.Violations = list.Violations
	}

	if s.store != nil {
		resp.ReportID = s.saveReport(ctx, &rec, list, duration)
	}

	s.logger.InfoContext(ctx, "record validated",
		"valid", resp.Valid,
		"violations", list.Count(),
		"duration_ms", duration.Milliseconds(),
	)

	status := http.StatusOK
	if !resp.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// resolveRuleContext picks the override context for one request:
// request-level rules win over the watched override file.
func (s *Server) resolveRuleContext(overrides *requestOverrides) (*rules.RuleContext, string) {
	if len(overrides.Rules) > 0 || overrides.ReplaceAll {
		return &rules.RuleContext{
			Rules:      overrides.Rules,
			ReplaceAll: overrides.ReplaceAll,
		}, "request"
	}
	if s.rulesManager != nil {
		if ctx := s.rulesManager.Current(); ctx != nil {
			return ctx, s.rulesManager.Path()
		}
	}
	return nil, "default"
}

// saveReport persists the validation outcome. Storage failures are
// logged, not surfaced: the validation response stands on its own.
func (s *Server) saveReport(ctx context.Context, rec *marc.Record, list *marcerrors.ErrorList, duration time.Duration) string {
	rep, err := report.New(rec, list, duration)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build report", "error", err)
		return ""
	}
	rep.RequestID = logging.GetRequestID(ctx)

	if err := s.store.Save(ctx, rep); err != nil {
		s.logger.ErrorContext(ctx, "failed to save report", "error", err)
		return ""
	}
	return rep.ID
}

// handleReports lists stored reports: GET /v1/reports?limit=&offset=&invalid=.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "report storage is disabled")
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reports, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if reports == nil {
		reports = []*report.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// handleReport fetches one report: GET /v1/reports/{id}.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "report storage is disabled")
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	rep, err := s.store.Get(r.Context(), id)
	if errors.Is(err, report.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("report %s not found", id))
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load report", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func parseListOptions(r *http.Request) (report.ListOptions, error) {
	var opts report.ListOptions
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid limit %q", v)
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid offset %q", v)
		}
		opts.Offset = n
	}
	if v := q.Get("invalid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid invalid flag %q", v)
		}
		opts.OnlyInvalid = b
	}
	return opts, nil
}

// handleHealthz is the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
