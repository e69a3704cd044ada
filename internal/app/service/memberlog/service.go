package memberlog

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/logctx"
	"github.com/hyosobang/passgate/pkg/tool"
	"github.com/hyosobang/passgate/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Record asynchronously appends a member lifecycle audit row. Best-effort:
// failures are logged and swallowed so an audit outage never blocks signup
// or withdrawal.
func (s *Service) Record(ctx context.Context, phone, name string, action types.MemberAction) {
	row := &models.MemberLog{
		ID:          tool.GenerateUUIDV7(),
		PhoneNumber: phone,
		Name:        name,
		ActionType:  action,
	}
	go func() {
		if err := s.db.Create(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to record member log: %v", err)
		}
	}()
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
	Items []*models.MemberLog `json:"items"`
	Total int64               `json:"total"`
}

// Scan implements the admin listing over member_logs.
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		req = &ScanRequest{}
	}
	if req.Size <= 0 {
		req.Size = 50
	}

	tx := s.db.WithContext(ctx).Model(&models.MemberLog{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		tx = tx.Where("name LIKE ? OR phone_number LIKE ?", kw, kw)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
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

	var rows []*models.MemberLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
