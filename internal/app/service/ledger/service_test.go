package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/internal/testutil"
	"github.com/hyosobang/passgate/pkg/tool"
	"github.com/hyosobang/passgate/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(db, zap.NewNop().Sugar()), db
}

func seedMember(t *testing.T, db *gorm.DB, name, phone string) *models.Member {
	t.Helper()
	m := &models.Member{ID: tool.GenerateUUIDV7(), Name: name, PhoneNumber: phone}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestGrantTx_SnapshotsItem(t *testing.T) {
	svc, db := newTestService(t)
	m := seedMember(t, db, "홍길동", "010-1234-5678")
	item := &types.PassItem{ID: "bundle_10", Name: "10회권", Count: 10, Price: 350000}

	pass, err := svc.GrantTx(context.Background(), db, m, item, time.Now())
	require.NoError(t, err)
	require.Equal(t, 10, pass.PurchaseCount)
	require.Equal(t, 10, pass.RemainingCount)
	require.True(t, pass.IsActive)

	var stored models.Pass
	require.NoError(t, db.Where("id = ?", pass.ID).First(&stored).Error)
	snap := stored.GetItemSnapshot()
	require.NotNil(t, snap)
	require.Equal(t, "bundle_10", snap.ID)
	require.Equal(t, int64(350000), snap.Price)
}

func TestGrantTx_NeverMergesRows(t *testing.T) {
	svc, db := newTestService(t)
	m := seedMember(t, db, "홍길동", "010-1234-5678")
	item := &types.PassItem{ID: "single_1", Name: "1회권", Count: 1, Price: 40000}

	_, err := svc.GrantTx(context.Background(), db, m, item, time.Now())
	require.NoError(t, err)
	_, err = svc.GrantTx(context.Background(), db, m, item, time.Now())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Pass{}).Where("member_id = ?", m.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestListEligible_OldestFirst(t *testing.T) {
	svc, db := newTestService(t)
	m := seedMember(t, db, "홍길동", "010-1234-5678")
	item := &types.PassItem{ID: "single_1", Name: "1회권", Count: 1, Price: 40000}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer, err := svc.GrantTx(context.Background(), db, m, item, base.AddDate(0, 1, 0))
	require.NoError(t, err)
	older, err := svc.GrantTx(context.Background(), db, m, item, base)
	require.NoError(t, err)

	passes, err := svc.ListEligible(context.Background(), nil, m.ID)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	require.Equal(t, older.ID, passes[0].ID)
	require.Equal(t, newer.ID, passes[1].ID)
}

func TestListEligible_SkipsDrainedAndInactive(t *testing.T) {
	svc, db := newTestService(t)
	m := seedMember(t, db, "홍길동", "010-1234-5678")
	item := &types.PassItem{ID: "single_1", Name: "1회권", Count: 1, Price: 40000}

	drained, err := svc.GrantTx(context.Background(), db, m, item, time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Pass{}).Where("id = ?", drained.ID).
		Updates(map[string]any{"remaining_count": 0, "is_active": false}).Error)

	live, err := svc.GrantTx(context.Background(), db, m, item, time.Now())
	require.NoError(t, err)

	passes, err := svc.ListEligible(context.Background(), nil, m.ID)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	require.Equal(t, live.ID, passes[0].ID)
}

func TestTotalRemaining_SumsActivePasses(t *testing.T) {
	svc, db := newTestService(t)
	m := seedMember(t, db, "홍길동", "010-1234-5678")

	_, err := svc.GrantTx(context.Background(), db, m,
		&types.PassItem{ID: "bundle_10", Name: "10회권", Count: 10, Price: 350000}, time.Now())
	require.NoError(t, err)
	_, err = svc.GrantTx(context.Background(), db, m,
		&types.PassItem{ID: "single_1", Name: "1회권", Count: 1, Price: 40000}, time.Now())
	require.NoError(t, err)

	total, err := svc.TotalRemaining(context.Background(), m.ID)
	require.NoError(t, err)
	require.EqualValues(t, 11, total)
}

func TestScan_KeywordAndPagination(t *testing.T) {
	svc, db := newTestService(t)
	kim := seedMember(t, db, "김영희", "010-1111-2222")
	hong := seedMember(t, db, "홍길동", "010-3333-4444")
	item := &types.PassItem{ID: "single_1", Name: "1회권", Count: 1, Price: 40000}

	for i := 0; i < 3; i++ {
		_, err := svc.GrantTx(context.Background(), db, kim, item, time.Now())
		require.NoError(t, err)
	}
	_, err := svc.GrantTx(context.Background(), db, hong, item, time.Now())
	require.NoError(t, err)

	res, err := svc.Scan(context.Background(), &ScanRequest{Keyword: "김영희"})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Total)
	require.Len(t, res.Items, 3)

	page, err := svc.Scan(context.Background(), &ScanRequest{Keyword: "김영희", From: 2, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 1)
}
