package statistics

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hyosobang/passgate/pkg/types"
)

// Statistic types surfaced on the admin dashboard.
type StatisticType string

const (
	StatisticTypeDailyEntryCount  StatisticType = "daily_entry_count"
	StatisticTypeDailySales       StatisticType = "daily_sales"
	StatisticTypeDailyNewMembers  StatisticType = "daily_new_members"
	StatisticTypeTotalEntryCount  StatisticType = "total_entry_count"
	StatisticTypeTotalActivePass  StatisticType = "total_active_pass_remaining"
	StatisticTypeTotalMemberCount StatisticType = "total_member_count"
)

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

type StatisticResponseDataItem struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service computes dashboard aggregates over entry_logs, purchase_history
// and members.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) filtered(ctx context.Context, table string, filters []*types.CommonFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Table(table)
	if len(filters) > 0 {
		q = q.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(filters)}})
	}
	return q
}

func (s *Service) getDailyEntryCount(ctx context.Context, req *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.filtered(ctx, "entry_logs", req.Filters).
		Select("TO_CHAR(entry_time, 'YYYY-MM-DD') as date, count(*) as value").
		Group("TO_CHAR(entry_time, 'YYYY-MM-DD')").
		Order("date").
		Find(&results).Error
	return results, err
}

func (s *Service) getDailySales(ctx context.Context, req *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.filtered(ctx, "purchase_history", req.Filters).
		Select("TO_CHAR(purchase_date, 'YYYY-MM-DD') as date, pass_type AS label, sum(price) as value").
		Group("TO_CHAR(purchase_date, 'YYYY-MM-DD')").
		Group("pass_type").
		Order("date").
		Find(&results).Error
	return results, err
}

func (s *Service) getDailyNewMembers(ctx context.Context, req *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.filtered(ctx, "members", req.Filters).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, count(*) as value").
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date").
		Find(&results).Error
	return results, err
}

func (s *Service) getScalar(ctx context.Context, table, sel string, filters []*types.CommonFilter) ([]StatisticResponseDataItem, error) {
	var value int64
	if err := s.filtered(ctx, table, filters).Select(sel).Scan(&value).Error; err != nil {
		return nil, err
	}
	return []StatisticResponseDataItem{{Value: value}}, nil
}

// GetStatistics resolves each requested data item independently; one failing
// aggregate fails the whole request.
func (s *Service) GetStatistics(ctx context.Context, req *StatisticRequest) (*StatisticResponse, error) {
	if req == nil || len(req.DataItems) == 0 {
		return &StatisticResponse{DataItems: map[StatisticType][]StatisticResponseDataItem{}}, nil
	}

	ids := lo.Uniq(lo.Map(req.DataItems, func(d *StatisticDataItem, _ int) StatisticType { return d.ID }))
	out := make(map[StatisticType][]StatisticResponseDataItem, len(ids))
	for _, id := range ids {
		var (
			items []StatisticResponseDataItem
			err   error
		)
		switch id {
		case StatisticTypeDailyEntryCount:
			items, err = s.getDailyEntryCount(ctx, req)
		case StatisticTypeDailySales:
			items, err = s.getDailySales(ctx, req)
		case StatisticTypeDailyNewMembers:
			items, err = s.getDailyNewMembers(ctx, req)
		case StatisticTypeTotalEntryCount:
			items, err = s.getScalar(ctx, "entry_logs", "count(*)", req.Filters)
		case StatisticTypeTotalActivePass:
			items, err = s.getScalar(ctx, "purchase_history", "COALESCE(SUM(remaining_count), 0)", append(req.Filters, &types.CommonFilter{Field: "is_active", Operator: types.CommonFilterOperatorEq, Values: []any{true}}))
		case StatisticTypeTotalMemberCount:
			items, err = s.getScalar(ctx, "members", "count(*)", req.Filters)
		default:
			err = fmt.Errorf("unknown statistic type: %s", id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", id, err)
		}
		out[id] = items
	}
	return &StatisticResponse{DataItems: out}, nil
}
