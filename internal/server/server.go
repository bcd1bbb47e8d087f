package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/mortgage-amortization/internal/cache"
	"github.com/iwvelando/mortgage-amortization/internal/config"
	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
	"github.com/iwvelando/mortgage-amortization/pkg/output"
	"github.com/iwvelando/mortgage-amortization/pkg/validation"
	"go.uber.org/zap"
)

const (
	cacheHeader        = "X-Cache"
	amortizationPrefix = "amortization"
	csvPrefix          = "csv"
	csvDisposition     = `attachment; filename="amortization.csv"`
)

// Options configures the HTTP handler.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	Cache          cache.Cache
	Now            func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the amortization API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       version,
		cache:         c,
		now:           now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{cacheHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Post("/amortization", h.handleAmortization)
		r.Post("/amortization/csv", h.handleAmortizationCSV)
	})

	return r
}

type amortizationResponse struct {
	Summary      summaryResponse  `json:"summary"`
	Schedule     []periodResponse `json:"schedule"`
	SummaryTable []output.Row     `json:"summaryTable"`
	Warnings     []string         `json:"warnings,omitempty"`
}

type summaryResponse struct {
	MonthlyPayment          float64 `json:"monthlyPayment"`
	Principal               float64 `json:"principal"`
	AdjustedPrincipal       float64 `json:"adjustedPrincipal"`
	DeferredInterestAccrued float64 `json:"deferredInterestAccrued"`
	MonthlyRate             float64 `json:"monthlyRate"`
	TermMonths              int     `json:"termMonths"`
	FirstPaymentDate        string  `json:"firstPaymentDate"`
	PayoffDate              string  `json:"payoffDate"`
	TotalPaid               float64 `json:"totalPaid"`
	TotalInterest           float64 `json:"totalInterest"`
	CurrencySymbol          string  `json:"currencySymbol"`
}

type periodResponse struct {
	Month               int     `json:"month"`
	Date                string  `json:"date"`
	Phase               string  `json:"phase"`
	Principal           float64 `json:"principal"`
	Interest            float64 `json:"interest"`
	Payment             float64 `json:"payment"`
	Accrued             float64 `json:"accrued"`
	CumulativePrincipal float64 `json:"cumulativePrincipal"`
	CumulativeInterest  float64 `json:"cumulativeInterest"`
	Balance             float64 `json:"balance"`
}

// computation is a decoded request together with its engine result.
type computation struct {
	loan     config.Loan
	result   *loans.Result
	warnings []string
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortization"

	loan, ok := h.decodeLoan(w, r, op)
	if !ok {
		return
	}

	key, ok := h.cacheKey(amortizationPrefix, loan)
	if ok {
		if body, hit := h.cache.Get(r.Context(), key); hit {
			h.writeCached(w, "application/json", body)
			return
		}
	}

	comp, ok := h.compute(w, loan, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildResponse(comp)); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}

	h.store(r, key, buf.Bytes(), op)
	w.Header().Set(cacheHeader, "MISS")
	h.writeBody(w, "application/json", buf.Bytes())
}

func (h *handler) handleAmortizationCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortizationCSV"

	loan, ok := h.decodeLoan(w, r, op)
	if !ok {
		return
	}

	key, ok := h.cacheKey(csvPrefix, loan)
	if ok {
		if body, hit := h.cache.Get(r.Context(), key); hit {
			w.Header().Set("Content-Disposition", csvDisposition)
			h.writeCached(w, "text/csv", body)
			return
		}
	}

	comp, ok := h.compute(w, loan, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, comp.result); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode csv: %v", err), op)
		return
	}

	h.store(r, key, buf.Bytes(), op)
	w.Header().Set(cacheHeader, "MISS")
	w.Header().Set("Content-Disposition", csvDisposition)
	h.writeBody(w, "text/csv", buf.Bytes())
}

// decodeLoan reads the request body into a Loan and pins an empty start date
// to today so equivalent requests share a cache key.
func (h *handler) decodeLoan(w http.ResponseWriter, r *http.Request, op string) (config.Loan, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var loan config.Loan
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&loan)
	if err == nil {
		// Exactly one JSON value is allowed in the body.
		if extra := decoder.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after loan object")
			if errors.As(extra, new(*http.MaxBytesError)) {
				err = extra
			}
		}
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return config.Loan{}, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan: %v", err), op)
		return config.Loan{}, false
	}

	if strings.TrimSpace(loan.StartDate) == "" {
		loan.StartDate = h.now().Format(constants.DateLayout)
	}
	return loan, true
}

func (h *handler) compute(w http.ResponseWriter, loan config.Loan, op string) (*computation, bool) {
	start := time.Now()

	inputs, err := loan.ToLoanInputs(h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}

	if err := validation.CheckLoanBounds(inputs); err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
		return nil, false
	}

	engineOpts, err := loan.EngineOptions()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}

	result, err := loans.NewEngine(h.logger, engineOpts...).Compute(inputs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, loans.ErrInsufficientInput) {
			status = http.StatusUnprocessableEntity
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return nil, false
	}

	comp := &computation{
		loan:     loan,
		result:   result,
		warnings: loan.Validate(inputs),
	}

	h.logger.Info("amortization computed",
		zap.String("op", op),
		zap.Int("periods", len(result.Schedule)),
		zap.Float64("monthly_payment", result.Summary.MonthlyPayment),
		zap.Int("warnings", len(comp.warnings)),
		zap.Duration("duration", time.Since(start)),
	)
	return comp, true
}

func buildResponse(comp *computation) amortizationResponse {
	summary := comp.result.Summary
	symbol := comp.loan.Symbol()

	resp := amortizationResponse{
		Summary: summaryResponse{
			MonthlyPayment:          summary.MonthlyPayment,
			Principal:               summary.Principal,
			AdjustedPrincipal:       summary.AdjustedPrincipal,
			DeferredInterestAccrued: summary.DeferredInterestAccrued,
			MonthlyRate:             summary.MonthlyRate,
			TermMonths:              summary.TermMonths,
			FirstPaymentDate:        summary.FirstPaymentDate.Format(constants.DateLayout),
			PayoffDate:              summary.PayoffDate.Format(constants.DateLayout),
			TotalPaid:               summary.TotalPaid,
			TotalInterest:           summary.TotalInterest,
			CurrencySymbol:          symbol,
		},
		Schedule: make([]periodResponse, 0, len(comp.result.Schedule)),
		Warnings: comp.warnings,
	}

	for _, period := range comp.result.Schedule {
		resp.Schedule = append(resp.Schedule, periodResponse{
			Month:               period.MonthIndex,
			Date:                period.Date.Format(constants.DateLayout),
			Phase:               period.Phase.String(),
			Principal:           period.PrincipalPaid,
			Interest:            period.InterestPaid,
			Payment:             period.TotalPaid,
			Accrued:             period.InterestAccrued,
			CumulativePrincipal: period.CumulativePrincipal,
			CumulativeInterest:  period.CumulativeInterest,
			Balance:             period.RemainingBalance,
		})
	}

	// Details only fails on a bad downpayment type, which ToLoanInputs has
	// already rejected.
	if details, err := comp.loan.Details(); err == nil {
		resp.SummaryTable = output.SummaryTable(details, summary)
	}
	return resp
}

func (h *handler) cacheKey(prefix string, loan config.Loan) (string, bool) {
	canonical, err := json.Marshal(loan)
	if err != nil {
		return "", false
	}
	return cache.Key(prefix, canonical), true
}

func (h *handler) store(r *http.Request, key string, body []byte, op string) {
	if key == "" {
		return
	}
	if err := h.cache.Set(r.Context(), key, body); err != nil {
		h.logger.Warn("failed to cache response",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (h *handler) writeCached(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set(cacheHeader, "HIT")
	h.writeBody(w, contentType, body)
}

func (h *handler) writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("amortization request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Debug("request served",
			zap.String("op", "server.request"),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
