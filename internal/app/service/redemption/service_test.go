package redemption

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/internal/app/service/memberlog"
	"github.com/hyosobang/passgate/internal/app/service/ticket"
	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/internal/testutil"
	"github.com/hyosobang/passgate/pkg/config"
	"github.com/hyosobang/passgate/pkg/phone"
	"github.com/hyosobang/passgate/pkg/types"
)

type testEnv struct {
	db      *gorm.DB
	svc     *Service
	members *member.Service
	ledger  *ledger.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		SiteOrigin: "https://hyosobang.example.com",
		PassItems: []*types.PassItem{
			{ID: "trial_1", Name: "1회권 (첫 체험)", Count: 1, Price: 35000},
			{ID: "single_1", Name: "1회권", Count: 1, Price: 40000},
			{ID: "bundle_10", Name: "10회권", Count: 10, Price: 350000},
		},
	}
	lg := ledger.NewService(db, log)
	tk := ticket.NewService(db, log, cfg, lg)
	ml := memberlog.New(db, log)
	members := member.NewService(db, log, cfg, lg, tk, ml)
	return &testEnv{
		db:      db,
		svc:     NewService(db, log, members, lg),
		members: members,
		ledger:  lg,
	}
}

func (e *testEnv) signup(t *testing.T, name, phoneNumber, itemID string) *member.SignupResult {
	t.Helper()
	res, err := e.members.Signup(context.Background(), &member.SignupRequest{
		Name: name, Phone: phoneNumber, PassItemID: itemID,
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) entryCount(t *testing.T, memberID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.EntryLog{}).Where("member_id = ?", memberID).Count(&n).Error)
	return n
}

func TestRedeem_ByPhone(t *testing.T) {
	env := newTestEnv(t)
	signup := env.signup(t, "홍길동", "010-1234-5678", "bundle_10")

	res, err := env.svc.Redeem(context.Background(), Identity{Phone: "01012345678"})
	require.NoError(t, err)
	require.Equal(t, signup.Member.ID, res.MemberID)
	require.Equal(t, "홍길동", res.MemberName)
	require.Equal(t, "10회권", res.PassType)
	require.Equal(t, 9, res.Remaining)
	require.EqualValues(t, 1, env.entryCount(t, signup.Member.ID))
}

func TestRedeem_ByTokenAndDeepLink(t *testing.T) {
	env := newTestEnv(t)
	signup := env.signup(t, "홍길동", "010-1234-5678", "bundle_10")

	res, err := env.svc.Redeem(context.Background(), Identity{Token: signup.TicketToken})
	require.NoError(t, err)
	require.Equal(t, 9, res.Remaining)

	res, err = env.svc.Redeem(context.Background(), Identity{Token: signup.TicketURL})
	require.NoError(t, err)
	require.Equal(t, 8, res.Remaining)
}

func TestRedeem_UnknownIdentity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-9999-0000"})
	require.ErrorIs(t, err, ErrUnknownMember)

	_, err = env.svc.Redeem(context.Background(), Identity{Token: "not-a-token"})
	require.ErrorIs(t, err, ErrUnknownMember)

	_, err = env.svc.Redeem(context.Background(), Identity{Phone: "1234"})
	require.ErrorIs(t, err, phone.ErrInvalidPhone)
}

func TestRedeem_ExhaustsBundleThenRejects(t *testing.T) {
	env := newTestEnv(t)
	signup := env.signup(t, "홍길동", "010-1234-5678", "bundle_10")

	for want := 9; want >= 0; want-- {
		res, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-1234-5678"})
		require.NoError(t, err)
		require.Equal(t, want, res.Remaining)
	}

	_, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-1234-5678"})
	require.ErrorIs(t, err, ErrNoEligiblePass)

	var pass models.Pass
	require.NoError(t, env.db.Where("id = ?", signup.Pass.ID).First(&pass).Error)
	require.Zero(t, pass.RemainingCount)
	require.False(t, pass.IsActive)
	require.NotNil(t, pass.LastUsedDate)
	require.EqualValues(t, 10, env.entryCount(t, signup.Member.ID))
}

func TestRedeem_ConsumesOldestPassFirst(t *testing.T) {
	env := newTestEnv(t)
	signup := env.signup(t, "홍길동", "010-1234-5678", "single_1")

	// An older trial pass purchased before the single: backdate it.
	older, err := env.ledger.GrantTx(context.Background(), env.db, signup.Member,
		&types.PassItem{ID: "trial_1", Name: "1회권 (첫 체험)", Count: 1, Price: 35000},
		time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)

	res, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-1234-5678"})
	require.NoError(t, err)
	require.Equal(t, "1회권 (첫 체험)", res.PassType)

	var stored models.Pass
	require.NoError(t, env.db.Where("id = ?", older.ID).First(&stored).Error)
	require.Zero(t, stored.RemainingCount)
	require.False(t, stored.IsActive)

	// The newer pass is untouched and serves the next entry.
	res, err = env.svc.Redeem(context.Background(), Identity{Phone: "010-1234-5678"})
	require.NoError(t, err)
	require.Equal(t, "1회권", res.PassType)
}

func TestRedeemPass_LostConditionalUpdate(t *testing.T) {
	env := newTestEnv(t)
	signup := env.signup(t, "홍길동", "010-1234-5678", "single_1")

	// Another kiosk drains the pass between our candidate read and update.
	stale := *signup.Pass
	require.NoError(t, env.db.Model(&models.Pass{}).Where("id = ?", stale.ID).
		Updates(map[string]any{"remaining_count": 0, "is_active": false}).Error)

	_, err := env.svc.redeemPass(context.Background(), signup.Member, &stale)
	require.ErrorIs(t, err, errPassContended)

	// Losing the update must not leave an entry log behind.
	require.Zero(t, env.entryCount(t, signup.Member.ID))
}

func TestRedeem_SkipsDrainedCandidate(t *testing.T) {
	env := newTestEnv(t)
	signup := env.signup(t, "홍길동", "010-1234-5678", "single_1")

	second, err := env.ledger.GrantTx(context.Background(), env.db, signup.Member,
		&types.PassItem{ID: "single_1", Name: "1회권", Count: 1, Price: 40000}, time.Now())
	require.NoError(t, err)

	// Oldest pass already at zero (is_active not yet flipped): the entry
	// must come out of the next one.
	require.NoError(t, env.db.Model(&models.Pass{}).Where("id = ?", signup.Pass.ID).
		Update("remaining_count", 0).Error)

	res, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-1234-5678"})
	require.NoError(t, err)

	var stored models.Pass
	require.NoError(t, env.db.Where("id = ?", second.ID).First(&stored).Error)
	require.Zero(t, stored.RemainingCount)
	require.Equal(t, "1회권", res.PassType)
}

func TestScanEntryLogs(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "홍길동", "010-1234-5678", "bundle_10")
	env.signup(t, "김영희", "010-9876-5432", "bundle_10")

	for i := 0; i < 3; i++ {
		_, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-1234-5678"})
		require.NoError(t, err)
	}
	_, err := env.svc.Redeem(context.Background(), Identity{Phone: "010-9876-5432"})
	require.NoError(t, err)

	all, err := env.svc.ScanEntryLogs(context.Background(), &ScanEntryLogsRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 4, all.Total)

	filtered, err := env.svc.ScanEntryLogs(context.Background(), &ScanEntryLogsRequest{Keyword: "김영희"})
	require.NoError(t, err)
	require.EqualValues(t, 1, filtered.Total)
	require.Equal(t, "김영희", filtered.Items[0].Name)
}
