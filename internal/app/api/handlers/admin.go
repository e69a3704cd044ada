package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/hyosobang/passgate/internal/app/service/adminauth"
	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/internal/app/service/memberlog"
	"github.com/hyosobang/passgate/internal/app/service/redemption"
	"github.com/hyosobang/passgate/internal/app/service/statistics"
	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/response"
	"github.com/hyosobang/passgate/pkg/types"
)

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// @Summary      Admin login
// @Description  Exchanges the shared admin password for an expiring session token.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body AdminLoginRequest true "Login request"
// @Success      200  {object}  response.APIResponse[AdminLoginResponse]
// @Router       /api/v1/admin/login [post]
func ApiAdminLogin(auth *adminauth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		token, expiresAt, err := auth.Login(req.Password)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&AdminLoginResponse{Token: token, ExpiresAt: expiresAt}))
	}
}

type ListRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	Keyword   string                `json:"keyword"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// MemberItem hides the recovery secret hash from admin listings.
type MemberItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	QrCode      *string   `json:"qr_code"`
	HasSecond   bool      `json:"has_second_password"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMemberItem(m *models.Member) *MemberItem {
	return &MemberItem{
		ID:          m.ID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		QrCode:      m.QrCode,
		HasSecond:   m.SecondPassword != "",
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type ListMembersResponse struct {
	Items []*MemberItem `json:"items"`
	Total int64         `json:"total"`
}

// @Summary      List members (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListRequest true "Filters, keyword, pagination, sorting"
// @Success      200  {object}  response.APIResponse[ListMembersResponse]
// @Router       /api/v1/admin/members/list [post]
func ApiAdminListMembers(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Scan(c.Request.Context(), &member.ScanRequest{
			Filters: req.Filters, Keyword: req.Keyword, From: req.From, Size: req.Size,
			SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(m *models.Member, _ int) *MemberItem { return toMemberItem(m) })
		c.JSON(http.StatusOK, response.OKT(&ListMembersResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      List purchases (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListRequest true "Filters, keyword, pagination, sorting"
// @Success      200  {object}  response.APIResponse[ledger.ScanResponse]
// @Router       /api/v1/admin/purchases/list [post]
func ApiAdminListPurchases(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Scan(c.Request.Context(), &ledger.ScanRequest{
			Filters: req.Filters, Keyword: req.Keyword, From: req.From, Size: req.Size,
			SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List entry logs (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListRequest true "Filters, keyword, pagination, sorting"
// @Success      200  {object}  response.APIResponse[redemption.ScanEntryLogsResponse]
// @Router       /api/v1/admin/entry_logs/list [post]
func ApiAdminListEntryLogs(svc *redemption.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanEntryLogs(c.Request.Context(), &redemption.ScanEntryLogsRequest{
			Filters: req.Filters, Keyword: req.Keyword, From: req.From, Size: req.Size,
			SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List member logs (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListRequest true "Filters, keyword, pagination, sorting"
// @Success      200  {object}  response.APIResponse[memberlog.ScanResponse]
// @Router       /api/v1/admin/member_logs/list [post]
func ApiAdminListMemberLogs(svc *memberlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Scan(c.Request.Context(), &memberlog.ScanRequest{
			Filters: req.Filters, Keyword: req.Keyword, From: req.From, Size: req.Size,
			SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Update a member (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Member id"
// @Param        request body member.UpdateRequest true "Field patch"
// @Success      200  {object}  response.APIResponse[MemberItem]
// @Router       /api/v1/admin/members/{id} [patch]
func ApiAdminUpdateMember(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req member.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		m, err := svc.Update(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toMemberItem(m)))
	}
}

// @Summary      Force-delete a member (Admin)
// @Description  Permanent removal with a best-effort audit row; there is no undo.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Member id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/members/{id} [delete]
func ApiAdminForceDeleteMember(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ForceDelete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Dashboard statistics (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.StatisticRequest true "Requested data items and filters"
// @Success      200  {object}  response.APIResponse[statistics.StatisticResponse]
// @Router       /api/v1/admin/statistics [post]
func ApiAdminStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetStatistics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, members *member.Service, lg *ledger.Service, entries *redemption.Service, logs *memberlog.Service, stats *statistics.Service) {
	r.POST("/members/list", ApiAdminListMembers(members))
	r.POST("/purchases/list", ApiAdminListPurchases(lg))
	r.POST("/entry_logs/list", ApiAdminListEntryLogs(entries))
	r.POST("/member_logs/list", ApiAdminListMemberLogs(logs))
	r.PATCH("/members/:id", ApiAdminUpdateMember(members))
	r.DELETE("/members/:id", ApiAdminForceDeleteMember(members))
	r.POST("/statistics", ApiAdminStatistics(stats))
}
