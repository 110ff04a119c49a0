package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	grpcserver "github.com/monowai/beancounter-sub001/internal/presentation/grpc"
	"github.com/monowai/beancounter-sub001/pkg/auth"
)

// PositionHandlers serves positions and FX rates over HTTP.
type PositionHandlers struct {
	positions grpcserver.PositionsQuery
	valuation grpcserver.PositionsQuery
	fxRates   grpcserver.FxRatesQuery
	log       *slog.Logger
}

// NewPositionHandlers creates a new PositionHandlers.
func NewPositionHandlers(positions, valuation grpcserver.PositionsQuery, fxRates grpcserver.FxRatesQuery, log *slog.Logger) *PositionHandlers {
	return &PositionHandlers{
		positions: positions,
		valuation: valuation,
		fxRates:   fxRates,
		log:       log.With("handler", "positions"),
	}
}

// HandleGetPositions returns accumulated positions.
// GET /v1/portfolios/{code}/positions?asAt=YYYY-MM-DD
func (h *PositionHandlers) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	h.servePositions(w, r, h.positions)
}

// HandleValuePositions returns positions marked to market.
// GET /v1/portfolios/{code}/valuation?asAt=YYYY-MM-DD
func (h *PositionHandlers) HandleValuePositions(w http.ResponseWriter, r *http.Request) {
	h.servePositions(w, r, h.valuation)
}

func (h *PositionHandlers) servePositions(w http.ResponseWriter, r *http.Request, q grpcserver.PositionsQuery) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if err := auth.AuthorizePortfolio(r.Context(), code); err != nil {
		writeError(w, http.StatusForbidden, "no access to portfolio "+code)
		return
	}
	asAt, err := grpcserver.ParseDate(r.URL.Query().Get("asAt"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "asAt must be YYYY-MM-DD")
		return
	}

	resp, err := q.Execute(r.Context(), dto.PositionsRequest{PortfolioCode: code, AsAt: asAt})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetFxRates resolves cross rates.
// GET /v1/fx?pairs=USD/NZD,EUR/USD&asOf=YYYY-MM-DD
func (h *PositionHandlers) HandleGetFxRates(w http.ResponseWriter, r *http.Request) {
	asOf, err := grpcserver.ParseDate(r.URL.Query().Get("asOf"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "asOf must be YYYY-MM-DD")
		return
	}
	var pairs []string
	for _, p := range strings.Split(r.URL.Query().Get("pairs"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			pairs = append(pairs, p)
		}
	}

	resp, err := h.fxRates.Execute(r.Context(), dto.FxRatesRequest{AsOf: asOf, Pairs: pairs})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

var httpStatus = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.FailedPrecondition: http.StatusUnprocessableEntity,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
}

func (h *PositionHandlers) fail(w http.ResponseWriter, err error) {
	status, ok := httpStatus[grpcserver.Code(err)]
	if !ok {
		h.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	writeError(w, status, err.Error())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
