package redemption

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/types"
)

type ScanEntryLogsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	Keyword   string                `json:"keyword"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanEntryLogsResponse struct {
	Items []*models.EntryLog `json:"items"`
	Total int64              `json:"total"`
}

// ScanEntryLogs implements the paginated admin listing over entry_logs,
// newest entries first by default.
func (s *Service) ScanEntryLogs(ctx context.Context, req *ScanEntryLogsRequest) (*ScanEntryLogsResponse, error) {
	if req == nil {
		req = &ScanEntryLogsRequest{}
	}
	if req.Size <= 0 {
		req.Size = 50
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.EntryLog{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		tx = tx.Where("name LIKE ? OR phone_number LIKE ?", kw, kw)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count entry logs: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "entry_time"
	}
	q := tx.Limit(req.Size).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})
	if req.From > 0 {
		q = q.Offset(req.From)
	}

	var rows []*models.EntryLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list entry logs: %w", err)
	}
	return &ScanEntryLogsResponse{Items: rows, Total: total}, nil
}
