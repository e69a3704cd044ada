package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/pkg/response"
)

type SignupRequest struct {
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	SecondPassword string `json:"second_password"`
	PassItemID     string `json:"pass_item_id" binding:"required"`
}

// @Summary      Sign up a member
// @Description  Creates the member, grants the selected pass, and issues a ticket token in one transaction.
// @Tags         Member
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      200  {object}  response.APIResponse[member.SignupResult]
// @Router       /api/v1/members/signup [post]
func ApiSignup(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Signup(c.Request.Context(), &member.SignupRequest{
			Name:           req.Name,
			Phone:          req.Phone,
			SecondPassword: req.SecondPassword,
			PassItemID:     req.PassItemID,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Check member passes
// @Description  Returns the member and their full pass history, newest purchase first.
// @Tags         Member
// @Produce      json
// @Param        phone query string true "Phone number"
// @Success      200  {object}  response.APIResponse[member.CheckResult]
// @Router       /api/v1/members/check [get]
func ApiCheck(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Check(c.Request.Context(), c.Query("phone"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type WithdrawRequest struct {
	Phone          string `json:"phone" binding:"required"`
	SecondPassword string `json:"second_password"`
}

// @Summary      Withdraw a member
// @Description  Permanently deletes the member after phone re-identification; the recovery secret must match when one was registered.
// @Tags         Member
// @Accept       json
// @Produce      json
// @Param        request body WithdrawRequest true "Withdraw request"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/members/withdraw [post]
func ApiWithdraw(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WithdrawRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.Withdraw(c.Request.Context(), req.Phone, req.SecondPassword); err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterMemberRoutes(r gin.IRouter, svc *member.Service) {
	r.POST("/members/signup", ApiSignup(svc))
	r.GET("/members/check", ApiCheck(svc))
	r.POST("/members/withdraw", ApiWithdraw(svc))
}
