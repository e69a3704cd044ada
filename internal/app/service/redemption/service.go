package redemption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/internal/app/service/ticket"
	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/logctx"
	"github.com/hyosobang/passgate/pkg/tool"
)

var (
	// ErrUnknownMember: the identity resolves to no member. Phone kiosks
	// offer the signup detour on this; QR kiosks report and allow a re-scan.
	ErrUnknownMember = errors.New("redemption: unknown member")
	// ErrNoEligiblePass: the member exists but has nothing left to redeem.
	ErrNoEligiblePass = errors.New("redemption: no eligible pass")
)

var outcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "passgate",
	Name:      "redemption_total",
	Help:      "Redemption attempts partitioned by outcome.",
}, []string{"outcome"})

func init() {
	prometheus.MustRegister(outcomeCounter)
}

// Identity carries whichever key the kiosk captured. Token wins when both
// are present; phone is the manual fallback.
type Identity struct {
	Token string
	Phone string
}

type Result struct {
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
	PassType   string    `json:"pass_type"`
	Remaining  int       `json:"remaining"`
	EntryTime  time.Time `json:"entry_time"`
}

// Service consumes one unit of the oldest eligible pass and records the
// entry, as a single unit of work per attempt.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	members *member.Service
	ledger  *ledger.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, m *member.Service, lg *ledger.Service) *Service {
	return &Service{db: db, log: log, members: m, ledger: lg}
}

// Redeem resolves the identity, picks the oldest eligible pass, and
// decrements it with a conditional update so two kiosks racing on the same
// pass can never drive remaining_count below zero: the loser's update
// matches no row and falls through to the next candidate. The entry log is
// written in the same transaction as the decrement.
func (s *Service) Redeem(ctx context.Context, id Identity) (*Result, error) {
	m, err := s.resolve(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUnknownMember) {
			outcomeCounter.WithLabelValues("unknown_member").Inc()
		} else {
			outcomeCounter.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	passes, err := s.ledger.ListEligible(ctx, nil, m.ID)
	if err != nil {
		outcomeCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(passes) == 0 {
		outcomeCounter.WithLabelValues("no_eligible_pass").Inc()
		return nil, ErrNoEligiblePass
	}

	for _, pass := range passes {
		res, err := s.redeemPass(ctx, m, pass)
		if err == nil {
			outcomeCounter.WithLabelValues("ok").Inc()
			logctx.FromCtx(ctx, s.log).Infow("redeemed pass",
				"member_id", m.ID, "pass_id", pass.ID, "pass_type", pass.PassType, "remaining", res.Remaining)
			return res, nil
		}
		if errors.Is(err, errPassContended) {
			// Another kiosk drained this pass between the read and our
			// update. Move on to the next oldest candidate.
			continue
		}
		outcomeCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	outcomeCounter.WithLabelValues("no_eligible_pass").Inc()
	return nil, ErrNoEligiblePass
}

// errPassContended signals a lost conditional update, not a failure.
var errPassContended = errors.New("redemption: pass contended")

func (s *Service) redeemPass(ctx context.Context, m *models.Member, pass *models.Pass) (*Result, error) {
	now := time.Now()
	var remaining int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Pass{}).
			Where("id = ? AND remaining_count > 0", pass.ID).
			Updates(map[string]any{
				"remaining_count": gorm.Expr("remaining_count - 1"),
				"is_active":       gorm.Expr("remaining_count - 1 > 0"),
				"last_used_date":  now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to decrement pass: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errPassContended
		}

		var updated models.Pass
		if err := tx.Where("id = ?", pass.ID).First(&updated).Error; err != nil {
			return fmt.Errorf("failed to reload pass: %w", err)
		}
		remaining = updated.RemainingCount

		entry := &models.EntryLog{
			ID:          tool.GenerateUUIDV7(),
			MemberID:    m.ID,
			PhoneNumber: m.PhoneNumber,
			Name:        m.Name,
			PassType:    pass.PassType,
			EntryTime:   now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		MemberID:   m.ID,
		MemberName: m.Name,
		PassType:   pass.PassType,
		Remaining:  remaining,
		EntryTime:  now,
	}, nil
}

func (s *Service) resolve(ctx context.Context, id Identity) (*models.Member, error) {
	if id.Token != "" {
		m, err := s.members.FindByQrCode(ctx, ticket.ParseScanPayload(id.Token))
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, member.ErrMemberNotFound) {
			return nil, err
		}
		// fall through to phone when the kiosk sent both
	}
	if id.Phone != "" {
		m, err := s.members.FindByPhone(ctx, id.Phone)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, member.ErrMemberNotFound) {
			return nil, err
		}
	}
	return nil, ErrUnknownMember
}
