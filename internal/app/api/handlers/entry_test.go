package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hyosobang/passgate/internal/app/service/redemption"
	"github.com/hyosobang/passgate/pkg/response"
)

type stubRedeemer struct {
	res  *redemption.Result
	err  error
	seen redemption.Identity
}

func (s *stubRedeemer) Redeem(_ context.Context, id redemption.Identity) (*redemption.Result, error) {
	s.seen = id
	return s.res, s.err
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newEntryRouter(stub *stubRedeemer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterEntryRoutes(r.Group("/api/v1"), stub)
	return r
}

func TestApiRedeem_Success(t *testing.T) {
	stub := &stubRedeemer{res: &redemption.Result{
		MemberID:   "m-1",
		MemberName: "홍길동",
		PassType:   "10회권",
		Remaining:  9,
		EntryTime:  time.Now(),
	}}
	r := newEntryRouter(stub)

	w := postJSON(t, r, "/api/v1/entry/redeem", `{"token":"tok-123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "tok-123", stub.seen.Token)

	var env response.APIResponse[redemption.Result]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Equal(t, "홍길동", env.Data.MemberName)
	require.Equal(t, 9, env.Data.Remaining)
}

func TestApiRedeem_NoEligiblePass(t *testing.T) {
	stub := &stubRedeemer{err: redemption.ErrNoEligiblePass}
	r := newEntryRouter(stub)

	w := postJSON(t, r, "/api/v1/entry/redeem", `{"phone":"010-1234-5678"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.APIResponse[string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestApiRedeem_UnknownMember(t *testing.T) {
	stub := &stubRedeemer{err: redemption.ErrUnknownMember}
	r := newEntryRouter(stub)

	w := postJSON(t, r, "/api/v1/entry/redeem", `{"phone":"010-9999-0000"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.APIResponse[string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestApiRedeem_RequiresIdentity(t *testing.T) {
	stub := &stubRedeemer{}
	r := newEntryRouter(stub)

	w := postJSON(t, r, "/api/v1/entry/redeem", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.APIResponse[string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
	require.Empty(t, stub.seen.Token)
	require.Empty(t, stub.seen.Phone)
}

func TestRegisterKioskRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterEntryRoutes(g, &stubRedeemer{})
	RegisterMemberRoutes(g, nil)
	RegisterPurchaseRoutes(g, nil, nil)
	RegisterTicketRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/entry/redeem"))
	require.True(t, contains("POST /api/v1/members/signup"))
	require.True(t, contains("GET /api/v1/members/check"))
	require.True(t, contains("POST /api/v1/members/withdraw"))
	require.True(t, contains("POST /api/v1/purchases"))
	require.True(t, contains("GET /api/v1/pass-items"))
	require.True(t, contains("GET /api/v1/tickets/:token"))
	require.True(t, contains("POST /api/v1/tickets/rotate"))
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil, nil, nil, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/admin/members/list"))
	require.True(t, contains("POST /api/v1/admin/purchases/list"))
	require.True(t, contains("POST /api/v1/admin/entry_logs/list"))
	require.True(t, contains("POST /api/v1/admin/member_logs/list"))
	require.True(t, contains("PATCH /api/v1/admin/members/:id"))
	require.True(t, contains("DELETE /api/v1/admin/members/:id"))
	require.True(t, contains("POST /api/v1/admin/statistics"))
}
