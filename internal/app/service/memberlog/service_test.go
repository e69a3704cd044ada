package memberlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/internal/testutil"
	"github.com/hyosobang/passgate/pkg/types"
)

func TestRecordAndScan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop().Sugar())

	svc.Record(context.Background(), "010-1234-5678", "홍길동", types.MemberActionSignup)
	svc.Record(context.Background(), "010-1234-5678", "홍길동", types.MemberActionWithdraw)
	svc.Record(context.Background(), "010-9876-5432", "김영희", types.MemberActionSignup)

	require.Eventually(t, func() bool {
		var n int64
		return db.Model(&models.MemberLog{}).Count(&n).Error == nil && n == 3
	}, time.Second, 10*time.Millisecond)

	all, err := svc.Scan(context.Background(), &ScanRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 3, all.Total)

	hong, err := svc.Scan(context.Background(), &ScanRequest{Keyword: "홍길동"})
	require.NoError(t, err)
	require.EqualValues(t, 2, hong.Total)

	withdrawals, err := svc.Scan(context.Background(), &ScanRequest{
		Filters: []*types.CommonFilter{{
			Field:    "action_type",
			Operator: types.CommonFilterOperatorEq,
			Values:   []any{string(types.MemberActionWithdraw)},
		}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, withdrawals.Total)
	require.Equal(t, types.MemberActionWithdraw, withdrawals.Items[0].ActionType)
}
