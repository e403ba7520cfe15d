package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/usecase"
)

type Handler struct {
	ingestService    *usecase.IngestService
	summonerService  *usecase.SummonerService
	reconcileService *usecase.ReconcileService
	validator        *validator.Validate
	logger           *logging.Logger
}

func NewHandler(
	ingestService *usecase.IngestService,
	summonerService *usecase.SummonerService,
	reconcileService *usecase.ReconcileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestService:    ingestService,
		summonerService:  summonerService,
		reconcileService: reconcileService,
		validator:        validator.New(),
		logger:           logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type ingestSummonerRequest struct {
	Name   string `json:"name" validate:"required,max=20"`
	Region string `json:"region" validate:"required"`
}

func (h *Handler) IngestSummoner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestSummoner")
	defer span.End()

	var req ingestSummonerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestService.IngestSummoner(ctx, req.Name, req.Region)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest summoner failed", "summoner", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type ingestBatchRequest struct {
	Names  []string `json:"names" validate:"required,min=1,dive,required,max=20"`
	Region string   `json:"region" validate:"required"`
}

func (h *Handler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestBatch")
	defer span.End()

	var req ingestBatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestService.IngestBatch(ctx, req.Names, req.Region)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest batch failed", "count", len(req.Names), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListSummoners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSummoners")
	defer span.End()

	var (
		identities []summoner.Identity
		err        error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		identities, err = h.summonerService.FindSummoners(ctx, name, r.URL.Query().Get("region"))
	} else {
		identities, err = h.summonerService.ListSummoners(ctx)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "list summoners failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, identities)
}

func (h *Handler) GetSummoner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSummoner")
	defer span.End()

	identityKey := strings.TrimSpace(r.PathValue("identityKey"))
	identity, err := h.summonerService.GetSummoner(ctx, identityKey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, identity)
}

func (h *Handler) ListSummonerMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSummonerMatches")
	defer span.End()

	identityKey := strings.TrimSpace(r.PathValue("identityKey"))
	records, err := h.summonerService.ListMatches(ctx, identityKey)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, records)
}

func (h *Handler) ListDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDuplicates")
	defer span.End()

	groups, err := h.reconcileService.DuplicateGroups(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list duplicates failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, groups)
}

func (h *Handler) RunMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMerge")
	defer span.End()

	report, err := h.reconcileService.MergeAndCleanup(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "merge run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) validateRequest(payload any) error {
	if err := h.validator.Struct(payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
