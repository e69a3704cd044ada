package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/tool"
	"github.com/hyosobang/passgate/pkg/types"
)

// Service owns the purchase_history ledger: granting passes and reading
// them back in the orders the kiosk flows need. Decrementing lives in the
// redemption service.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// GrantTx inserts one ledger row for a purchased catalog item inside the
// caller's transaction. Each purchase is its own row; rows of the same type
// are never merged.
func (s *Service) GrantTx(ctx context.Context, tx *gorm.DB, member *models.Member, item *types.PassItem, now time.Time) (*models.Pass, error) {
	pass := &models.Pass{
		ID:             tool.GenerateUUIDV7(),
		MemberID:       member.ID,
		PhoneNumber:    member.PhoneNumber,
		Name:           member.Name,
		PassType:       item.Name,
		PurchaseCount:  item.Count,
		RemainingCount: item.Count,
		Price:          item.Price,
		PurchaseDate:   now,
		IsActive:       true,
		Extra:          models.NewPassExtra(item),
	}
	if err := tx.WithContext(ctx).Create(pass).Error; err != nil {
		return nil, fmt.Errorf("failed to grant pass: %w", err)
	}
	return pass, nil
}

// ListEligible returns redeemable passes (active, remaining > 0) in FIFO
// consumption order: oldest purchase first, id as the stable tie-break.
func (s *Service) ListEligible(ctx context.Context, db *gorm.DB, memberID string) ([]*models.Pass, error) {
	if db == nil {
		db = s.db
	}
	var passes []*models.Pass
	err := db.WithContext(ctx).
		Where("member_id = ? AND is_active = ? AND remaining_count > 0", memberID, true).
		Order("purchase_date ASC, id ASC").
		Find(&passes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible passes: %w", err)
	}
	return passes, nil
}

// ListAll returns every ledger row for a member, newest purchase first, for
// the check and ticket screens.
func (s *Service) ListAll(ctx context.Context, memberID string) ([]*models.Pass, error) {
	var passes []*models.Pass
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("purchase_date DESC, id DESC").
		Find(&passes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	return passes, nil
}

// TotalRemaining sums remaining entries across a member's active passes.
func (s *Service) TotalRemaining(ctx context.Context, memberID string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Pass{}).
		Where("member_id = ? AND is_active = ?", memberID, true).
		Select("COALESCE(SUM(remaining_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum remaining count: %w", err)
	}
	return total, nil
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
	Items []*models.Pass `json:"items"`
	Total int64          `json:"total"`
}

// Scan implements the paginated admin listing over purchase_history.
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

	tx := s.db.WithContext(ctx).Model(&models.Pass{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		tx = tx.Where("name LIKE ? OR phone_number LIKE ?", kw, kw)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count passes: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "purchase_date"
	}
	q := tx.Limit(req.Size).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})
	if req.From > 0 {
		q = q.Offset(req.From)
	}

	var rows []*models.Pass
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
