package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/pointsclub/internal/models"
)

//go:generate mockgen -source=loyalty.go -destination=mocks/loyalty.go -package=mocks
type LoyaltyService interface {
	// Lookup returns account status of phone
	Lookup(ctx context.Context, phone string) (*models.AccountStatus, error)
	// ListAccounts returns all accounts with their cycle state
	ListAccounts(ctx context.Context) ([]models.AccountStatus, error)
	// Redeem closes account granting its reward
	Redeem(ctx context.Context, phone string, confirmed bool) (*models.AccountClosure, error)
	// Reset closes expired account
	Reset(ctx context.Context, phone string, confirmed bool) (*models.AccountClosure, error)
	// ListClosures returns closed cycles history
	ListClosures(ctx context.Context) ([]models.AccountClosure, error)
}

// LoyaltyHandler represents HTTP handler for loyalty-related requests
type LoyaltyHandler struct {
	svc LoyaltyService
}

// NewLoyaltyHandler creates new LoyaltyHandler instance
func NewLoyaltyHandler(svc LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc}
}

// noRecordMessage is shown to customers without a loyalty account
const noRecordMessage = "no loyalty record found for this number"

type accountResponse struct {
	Phone           string `json:"phone"`
	CustomerName    string `json:"customer_name"`
	Points          int    `json:"points"`
	RewardThreshold int    `json:"reward_threshold"`
	CycleStartedAt  string `json:"cycle_started_at"`
	CycleLimitDate  string `json:"cycle_limit_date"`
	LastPurchaseAt  string `json:"last_purchase_at"`
	DaysRemaining   int    `json:"days_remaining"`
	IsExpired       bool   `json:"is_expired"`
	HasReward       bool   `json:"has_reward"`
}

func newAccountResponse(st models.AccountStatus) accountResponse {
	return accountResponse{
		Phone:           st.Account.PhoneNumber,
		CustomerName:    st.Account.CustomerName,
		Points:          st.Account.PointsAccumulated,
		RewardThreshold: models.RewardThreshold,
		CycleStartedAt:  st.Expiration.CycleStartedAt.Format(time.RFC3339),
		CycleLimitDate:  st.Expiration.CycleLimitDate.Format(time.RFC3339),
		LastPurchaseAt:  st.Account.LastPurchaseAt.Format(time.RFC3339),
		DaysRemaining:   st.Expiration.DaysRemaining,
		IsExpired:       st.Expiration.IsExpired,
		HasReward:       st.Expiration.HasReward,
	}
}

type lookupResponse struct {
	Found   bool             `json:"found"`
	Message string           `json:"message,omitempty"`
	Account *accountResponse `json:"account,omitempty"`
}

// LookupAccount returns loyalty progress of a phone number
// 200 — успешная обработка запроса, в том числе когда записи нет;
// 422 — неверный номер телефона;
// 500 — внутренняя ошибка сервера.
func (lh *LoyaltyHandler) LookupAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := lh.svc.Lookup(r.Context(), chi.URLParam(r, "phone"))
		if err != nil {
			switch {
			case errors.Is(err, models.ErrAccountNotFound):
				writeJSON(w, http.StatusOK, lookupResponse{Found: false, Message: noRecordMessage})
			case errors.Is(err, models.ErrInvalidPhone):
				http.Error(w, "invalid phone number", http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := newAccountResponse(*st)
		writeJSON(w, http.StatusOK, lookupResponse{Found: true, Account: &resp})
	}
}

// ListAccounts returns every loyalty account
// 200 — успешная обработка запроса;
// 204 — нет ни одного счёта;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (lh *LoyaltyHandler) ListAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		statuses, err := lh.svc.ListAccounts(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(statuses) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]accountResponse, 0, len(statuses))
		for _, st := range statuses {
			resp = append(resp, newAccountResponse(st))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type closeRequest struct {
	Confirm bool `json:"confirm"`
}

type closureResponse struct {
	ID             string `json:"id"`
	Phone          string `json:"phone"`
	CustomerName   string `json:"customer_name"`
	Reason         string `json:"reason"`
	PointsAtClose  int    `json:"points_at_close"`
	CycleStartedAt string `json:"cycle_started_at"`
	ClosedAt       string `json:"closed_at"`
}

func newClosureResponse(c models.AccountClosure) closureResponse {
	return closureResponse{
		ID:             c.ID.String(),
		Phone:          c.PhoneNumber,
		CustomerName:   c.CustomerName,
		Reason:         c.Reason,
		PointsAtClose:  c.PointsAtClose,
		CycleStartedAt: c.CycleStartedAt.Format(time.RFC3339),
		ClosedAt:       c.ClosedAt.Format(time.RFC3339),
	}
}

// RedeemReward hands the reward over and closes the cycle
// 200 — успешная обработка запроса;
// 400 — неверный формат запроса или действие не подтверждено;
// 401 — пользователь не авторизован;
// 404 — счёт не найден;
// 409 — счёт не имеет права на награду;
// 422 — неверный номер телефона;
// 500 — внутренняя ошибка сервера.
func (lh *LoyaltyHandler) RedeemReward() http.HandlerFunc {
	return lh.closeAccount(lh.svc.Redeem)
}

// ResetCycle closes an expired cycle without reward, codes as RedeemReward
func (lh *LoyaltyHandler) ResetCycle() http.HandlerFunc {
	return lh.closeAccount(lh.svc.Reset)
}

func (lh *LoyaltyHandler) closeAccount(closeFn func(ctx context.Context, phone string, confirmed bool) (*models.AccountClosure, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		var req closeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		closure, err := closeFn(r.Context(), chi.URLParam(r, "phone"), req.Confirm)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotConfirmed):
				http.Error(w, "action is not confirmed", http.StatusBadRequest)
			case errors.Is(err, models.ErrInvalidPhone):
				http.Error(w, "invalid phone number", http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrAccountNotFound):
				http.Error(w, "loyalty account not found", http.StatusNotFound)
			case errors.Is(err, models.ErrNotEligible):
				http.Error(w, "loyalty account is not eligible", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newClosureResponse(*closure))
	}
}

// ListClosures returns closed cycles history
// 200 — успешная обработка запроса;
// 204 — нет закрытых циклов;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (lh *LoyaltyHandler) ListClosures() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}

		closures, err := lh.svc.ListClosures(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(closures) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]closureResponse, 0, len(closures))
		for _, c := range closures {
			resp = append(resp, newClosureResponse(c))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
