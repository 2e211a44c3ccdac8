package worker

import (
	"context"
	"time"

	"github.com/rookgm/pointsclub/internal/logger"
	"github.com/rookgm/pointsclub/internal/models"
	"go.uber.org/zap"
)

type LoyaltyService interface {
	ExpiredAccounts(ctx context.Context) ([]models.AccountStatus, error)
}

// ExpiryReporter is worker reporting loyalty cycles waiting for a reset
type ExpiryReporter struct {
	svc      LoyaltyService
	interval time.Duration
}

// NewExpiryReporter create new expiry reporter
func NewExpiryReporter(svc LoyaltyService, interval time.Duration) *ExpiryReporter {
	return &ExpiryReporter{svc: svc, interval: interval}
}

// Run reports expired accounts every interval until ctx is done
func (er *ExpiryReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(er.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("expiry reporter is done")
			return
		case <-ticker.C:
			er.Report(ctx)
		}
	}
}

// Report logs accounts whose cycle expired and returns how many there are
func (er *ExpiryReporter) Report(ctx context.Context) int {
	expired, err := er.svc.ExpiredAccounts(ctx)
	if err != nil {
		logger.Log.Error("error get expired loyalty accounts", zap.Error(err))
		return 0
	}

	for _, st := range expired {
		logger.Log.Info("loyalty cycle expired",
			zap.String("phone", st.Account.PhoneNumber),
			zap.String("customer", st.Account.CustomerName),
			zap.Int("points", st.Account.PointsAccumulated),
			zap.Time("limit", st.Expiration.CycleLimitDate))
	}

	return len(expired)
}
