package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

const (
	opBalance  = "balance"
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	GetBalance(ctx context.Context) (domain.Balance, error)
	DepositFunds(ctx context.Context, deposit domain.Deposit) (domain.Balance, error)
	WithdrawFunds(ctx context.Context, withdrawal domain.Withdrawal) (domain.Balance, error)
}

// WalletHandler handles balance, deposit and withdraw requests.
type WalletHandler struct {
	walletUC WalletService
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewWalletHandler creates a new WalletHandler. m may be nil.
func NewWalletHandler(walletUC WalletService, m *metrics.Metrics, log zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		walletUC: walletUC,
		metrics:  m,
		logger:   log,
	}
}

// Balance returns the current balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	balance, err := h.walletUC.GetBalance(r.Context())
	if err != nil {
		h.fail(w, r, opBalance, start, err)
		return
	}

	h.succeed(w, opBalance, start, balance)
}

// Deposit adds funds and returns the new balance.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dto.DepositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.reject(w, opDeposit, start, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.reject(w, opDeposit, start, errorTitle(err), err.Error())
		return
	}

	balance, err := h.walletUC.DepositFunds(r.Context(), req.ToDomain())
	if err != nil {
		h.fail(w, r, opDeposit, start, err)
		return
	}

	h.succeed(w, opDeposit, start, balance)
}

// Withdraw removes funds and returns the new balance.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dto.WithdrawRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.reject(w, opWithdraw, start, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.reject(w, opWithdraw, start, errorTitle(err), err.Error())
		return
	}

	balance, err := h.walletUC.WithdrawFunds(r.Context(), req.ToDomain())
	if err != nil {
		h.fail(w, r, opWithdraw, start, err)
		return
	}

	h.succeed(w, opWithdraw, start, balance)
}

func (h *WalletHandler) succeed(w http.ResponseWriter, op string, start time.Time, balance domain.Balance) {
	h.metrics.ObserveOperation(op, metrics.OutcomeSuccess, time.Since(start))
	h.metrics.SetBalance(balance.Amount)
	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

func (h *WalletHandler) reject(w http.ResponseWriter, op string, start time.Time, title, details string) {
	h.metrics.ObserveOperation(op, metrics.OutcomeRejected, time.Since(start))
	writeError(w, http.StatusBadRequest, title, details)
}

func (h *WalletHandler) fail(w http.ResponseWriter, r *http.Request, op string, start time.Time, err error) {
	log := logger.WithRequest(r.Context(), h.logger)

	status := mapDomainError(err)
	if status < http.StatusInternalServerError {
		log.Info().Err(err).Str("operation", op).Msg("wallet operation rejected")
		h.reject(w, op, start, errorTitle(err), err.Error())
		return
	}

	log.Error().Err(err).Str("operation", op).Msg("wallet operation failed")
	h.metrics.ObserveOperation(op, metrics.OutcomeError, time.Since(start))
	writeError(w, status, "internal server error", "")
}
