package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyosobang/passgate/internal/app/service/redemption"
	"github.com/hyosobang/passgate/pkg/response"
)

// Redeemer is the slice of the redemption service the entry endpoint needs.
type Redeemer interface {
	Redeem(ctx context.Context, id redemption.Identity) (*redemption.Result, error)
}

type RedeemRequest struct {
	// Token is a scanned ticket token or /my-qr/{token} deep link payload.
	Token string `json:"token"`
	// Phone is the manual keypad fallback.
	Phone string `json:"phone"`
}

// @Summary      Redeem an entry
// @Description  Consumes one unit of the oldest eligible pass for the identified member and records the entry.
// @Tags         Entry
// @Accept       json
// @Produce      json
// @Param        request body RedeemRequest true "Ticket token (scan) or phone number (keypad)"
// @Success      200  {object}  response.APIResponse[redemption.Result]
// @Router       /api/v1/entry/redeem [post]
func ApiRedeem(svc Redeemer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Token == "" && req.Phone == "" {
			c.JSON(http.StatusOK, response.Message(response.APIResponseCodeBadRequest, "token or phone required"))
			return
		}

		res, err := svc.Redeem(c.Request.Context(), redemption.Identity{Token: req.Token, Phone: req.Phone})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterEntryRoutes(r gin.IRouter, svc Redeemer) {
	r.POST("/entry/redeem", ApiRedeem(svc))
}
