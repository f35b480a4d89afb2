package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// LedgerVerifier defines the behavior needed by LedgerHandler.
type LedgerVerifier interface {
	VerifyLedger(ctx context.Context) (*domain.LedgerReport, error)
}

// LedgerHandler exposes the ledger chain check.
type LedgerHandler struct {
	ledgerUC LedgerVerifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewLedgerHandler creates a new LedgerHandler. m may be nil.
func NewLedgerHandler(ledgerUC LedgerVerifier, m *metrics.Metrics, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC: ledgerUC,
		metrics:  m,
		logger:   log,
	}
}

// Verify walks the ledger; it answers 409 when the chain is broken.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	log := logger.WithRequest(r.Context(), h.logger)

	report, err := h.ledgerUC.VerifyLedger(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("ledger verification failed")
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	h.metrics.ObserveLedgerCheck(report.Consistent)

	status := http.StatusOK
	if !report.Consistent {
		log.Warn().
			Int64("broken_at", report.BrokenAt).
			Str("reason", report.Reason).
			Msg("ledger chain is broken")
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.LedgerReportFromDomain(report))
}
