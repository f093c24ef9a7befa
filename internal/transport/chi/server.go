package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	gen "github.com/kailas-cloud/talentdex/internal/transport/generated"
	directoryuc "github.com/kailas-cloud/talentdex/internal/usecase/directory"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
)

// Searcher runs directory searches.
type Searcher interface {
	Search(ctx context.Context, p params.Params) (result.Page, error)
}

// RecordReader loads record detail pages.
type RecordReader interface {
	Get(ctx context.Context, id string) (directoryuc.Detail, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	gen.Unimplemented
	search        Searcher
	records       RecordReader
	health        HealthChecker
	limits        params.Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. limits clamp incoming search parameters.
func NewServer(
	search Searcher,
	records RecordReader,
	health HealthChecker,
	limits params.Limits,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		records: records,
		health:  health,
		limits:  limits,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidParams, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, gen.ErrorResponseCodeStoreUnavailable),
	}
	return s
}

// SearchRecords handles GET /v1/search.
func (s *Server) SearchRecords(w http.ResponseWriter, r *http.Request, q gen.SearchRecordsParams) {
	p, err := params.New(searchInputFromGen(q), s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	metrics.AnnotateSearch(r.Context(), string(page.Tier()), page.Degraded())

	items := make([]gen.SearchItem, len(page.Items()))
	for i, it := range page.Items() {
		items[i] = searchItemToGen(it)
	}

	writeJSON(w, http.StatusOK, gen.SearchResponse{
		Items:      items,
		Total:      page.Total(),
		Page:       page.Page(),
		PageSize:   page.PageSize(),
		TotalPages: page.TotalPages(),
		Tier:       string(page.Tier()),
		Degraded:   page.Degraded(),
	})
}

// GetRecord handles GET /v1/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := s.records.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordDetailToGen(detail))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BadRequestHandler answers parameter binding failures of the generated router.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *gen.InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid value for parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidParams,
		domain.ErrNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func searchInputFromGen(q gen.SearchRecordsParams) params.Input {
	return params.Input{
		Keywords:      derefStrings(q.Keywords),
		Professions:   derefStrings(q.Profession),
		Office:        derefString(q.Office),
		City:          derefString(q.City),
		State:         derefString(q.State),
		ZipCode:       derefString(q.ZipCode),
		ZipCodes:      derefStrings(q.ZipCodes),
		Radius:        derefFloat(q.Radius),
		RadiusEnabled: derefBool(q.RadiusEnabled),
		Page:          derefInt(q.Page),
		PageSize:      derefInt(q.PageSize),
		SortBy:        derefString(q.SortBy),
		SortDirection: derefString(q.SortDirection),
	}
}

func searchItemToGen(it record.Ranked) gen.SearchItem {
	rec := it.Record
	item := gen.SearchItem{
		Id:            rec.ID(),
		DisplayName:   rec.DisplayName(),
		FirstName:     rec.FirstName(),
		LastInitial:   rec.LastInitial(),
		Profession:    rec.Profession(),
		Office:        rec.Office(),
		City:          rec.City(),
		State:         rec.State(),
		ZipCode:       rec.ZipCode(),
		DistanceMiles: it.DistanceMiles,
	}
	if bio := rec.Bio(); bio != "" {
		item.Bio = &bio
	}
	if skills := rec.Skills(); len(skills) > 0 {
		item.Skills = &skills
	}
	if it.Center != "" {
		c := it.Center
		item.Center = &c
	}
	return item
}

func recordDetailToGen(d directoryuc.Detail) gen.RecordDetail {
	item := searchItemToGen(record.NewRanked(d.Record))
	return gen.RecordDetail{
		Id:           item.Id,
		DisplayName:  item.DisplayName,
		FirstName:    item.FirstName,
		LastInitial:  item.LastInitial,
		Profession:   item.Profession,
		Office:       item.Office,
		City:         item.City,
		State:        item.State,
		ZipCode:      item.ZipCode,
		Bio:          item.Bio,
		Skills:       item.Skills,
		ContactEmail: d.ContactEmail,
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefStrings(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
