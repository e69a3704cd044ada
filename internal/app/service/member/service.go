package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/app/service/memberlog"
	"github.com/hyosobang/passgate/internal/app/service/ticket"
	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/config"
	"github.com/hyosobang/passgate/pkg/logctx"
	"github.com/hyosobang/passgate/pkg/phone"
	"github.com/hyosobang/passgate/pkg/tool"
	"github.com/hyosobang/passgate/pkg/types"
)

// Service is the member directory: identity lookups plus the lifecycle flows
// (signup, purchase, withdrawal, admin edit/delete) that mutate it.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	cfg     *config.Config
	ledger  *ledger.Service
	tickets *ticket.Service
	logs    *memberlog.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, lg *ledger.Service, tk *ticket.Service, ml *memberlog.Service) *Service {
	return &Service{db: db, log: log, cfg: cfg, ledger: lg, tickets: tk, logs: ml}
}

// FindByPhone resolves a member by raw phone input (normalized first).
func (s *Service) FindByPhone(ctx context.Context, rawPhone string) (*models.Member, error) {
	formatted, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, err
	}
	var m models.Member
	if err := s.db.WithContext(ctx).Where("phone_number = ?", formatted).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member by phone: %w", err)
	}
	return &m, nil
}

// FindByQrCode resolves a member by ticket token, the canonical key for all
// scan-based flows.
func (s *Service) FindByQrCode(ctx context.Context, token string) (*models.Member, error) {
	if token == "" {
		return nil, ErrMemberNotFound
	}
	var m models.Member
	if err := s.db.WithContext(ctx).Where("qr_code = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member by token: %w", err)
	}
	return &m, nil
}

type SignupRequest struct {
	Name           string
	Phone          string
	SecondPassword string
	PassItemID     string
}

type SignupResult struct {
	Member      *models.Member `json:"member"`
	Pass        *models.Pass   `json:"pass"`
	TicketToken string         `json:"ticket_token"`
	TicketURL   string         `json:"ticket_url"`
}

// Signup creates the member, grants the initial pass, and issues the ticket
// token in one transaction: all three commit together or not at all. The
// lifecycle audit row is written best-effort after commit.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	formatted, err := phone.Normalize(req.Phone)
	if err != nil {
		return nil, err
	}
	item := s.cfg.GetPassItemByID(req.PassItemID)
	if item == nil {
		return nil, ErrUnknownPassItem
	}

	var result SignupResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Member{}).Where("phone_number = ?", formatted).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check duplicate phone: %w", err)
		}
		if count > 0 {
			return ErrDuplicatePhone
		}

		m := &models.Member{
			ID:          tool.GenerateUUIDV7(),
			Name:        req.Name,
			PhoneNumber: formatted,
		}
		if req.SecondPassword != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.SecondPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash second password: %w", err)
			}
			m.SecondPassword = string(hashed)
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create member: %w", err)
		}

		pass, err := s.ledger.GrantTx(ctx, tx, m, item, time.Now())
		if err != nil {
			return err
		}

		token, err := s.tickets.IssueTx(ctx, tx, m)
		if err != nil {
			return err
		}

		result = SignupResult{Member: m, Pass: pass, TicketToken: token, TicketURL: s.tickets.TicketURL(token)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logs.Record(ctx, formatted, req.Name, types.MemberActionSignup)
	logctx.FromCtx(ctx, s.log).Infow("member signed up", "member_id", result.Member.ID, "pass_type", item.Name)
	return &result, nil
}

type PurchaseRequest struct {
	Name       string
	Phone      string
	PassItemID string
}

type PurchaseResult struct {
	Member        *models.Member `json:"member"`
	Pass          *models.Pass   `json:"pass"`
	CreatedMember bool           `json:"created_member"`
}

// Purchase grants a pass to an existing member, creating the member first
// (guest purchase) when the phone is unknown. Newly created guests also get
// a ticket token so the pass is immediately scannable.
func (s *Service) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResult, error) {
	formatted, err := phone.Normalize(req.Phone)
	if err != nil {
		return nil, err
	}
	item := s.cfg.GetPassItemByID(req.PassItemID)
	if item == nil {
		return nil, ErrUnknownPassItem
	}

	var result PurchaseResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Member
		err := tx.Where("phone_number = ?", formatted).First(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m = models.Member{
				ID:          tool.GenerateUUIDV7(),
				Name:        req.Name,
				PhoneNumber: formatted,
			}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to create member: %w", err)
			}
			if _, err := s.tickets.IssueTx(ctx, tx, &m); err != nil {
				return err
			}
			result.CreatedMember = true
		case err != nil:
			return fmt.Errorf("failed to find member: %w", err)
		}

		pass, err := s.ledger.GrantTx(ctx, tx, &m, item, time.Now())
		if err != nil {
			return err
		}
		result.Member = &m
		result.Pass = pass
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CreatedMember {
		s.logs.Record(ctx, formatted, req.Name, types.MemberActionSignup)
	}
	return &result, nil
}

type CheckResult struct {
	Member *models.Member `json:"member"`
	Passes []*models.Pass `json:"passes"`
}

// Check returns a member and their full pass history (newest first) for the
// check screen.
func (s *Service) Check(ctx context.Context, rawPhone string) (*CheckResult, error) {
	m, err := s.FindByPhone(ctx, rawPhone)
	if err != nil {
		return nil, err
	}
	passes, err := s.ledger.ListAll(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Member: m, Passes: passes}, nil
}

// Withdraw deletes a member permanently after phone re-identification. When
// the member registered a second password, it must match. The audit row is
// written best-effort before the row is gone for good.
func (s *Service) Withdraw(ctx context.Context, rawPhone, secondPassword string) error {
	m, err := s.FindByPhone(ctx, rawPhone)
	if err != nil {
		return err
	}
	if m.SecondPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(m.SecondPassword), []byte(secondPassword)); err != nil {
			return ErrSecondPasswordMismatch
		}
	}

	s.logs.Record(ctx, m.PhoneNumber, m.Name, types.MemberActionWithdraw)
	if err := s.db.WithContext(ctx).Delete(&models.Member{}, "id = ?", m.ID).Error; err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("member withdrew", "member_id", m.ID)
	return nil
}

type UpdateRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	SecondPassword *string `json:"second_password"`
}

// Update applies an admin field patch. Phone input is renormalized; a phone
// change colliding with another member fails with ErrDuplicatePhone.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*models.Member, error) {
	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Phone != nil {
		formatted, err := phone.Normalize(*req.Phone)
		if err != nil {
			return nil, err
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Member{}).
			Where("phone_number = ? AND id != ?", formatted, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check duplicate phone: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicatePhone
		}
		patch["phone_number"] = formatted
	}
	if req.SecondPassword != nil {
		if *req.SecondPassword == "" {
			patch["second_password"] = ""
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.SecondPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash second password: %w", err)
			}
			patch["second_password"] = string(hashed)
		}
	}

	if len(patch) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Updates(patch)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update member: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrMemberNotFound
		}
	}

	var m models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to reload member: %w", err)
	}
	return &m, nil
}

// ForceDelete is the admin-side permanent removal. Audit first (best-effort),
// then delete; there is no soft-delete or undo.
func (s *Service) ForceDelete(ctx context.Context, id string) error {
	var m models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	s.logs.Record(ctx, m.PhoneNumber, m.Name, types.MemberActionForceDelete)
	if err := s.db.WithContext(ctx).Delete(&models.Member{}, "id = ?", m.ID).Error; err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Warnw("member force-deleted", "member_id", m.ID)
	return nil
}

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	Keyword   string                `json:"keyword"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.Member `json:"items"`
	Total int64            `json:"total"`
}

// Scan implements the paginated admin listing over members.
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		req = &ScanRequest{}
	}
	if req.Size <= 0 {
		req.Size = 50
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Member{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		tx = tx.Where("name LIKE ? OR phone_number LIKE ?", kw, kw)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q := tx.Limit(req.Size).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})
	if req.From > 0 {
		q = q.Offset(req.From)
	}

	var rows []*models.Member
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
