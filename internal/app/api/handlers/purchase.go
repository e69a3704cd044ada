package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/pkg/config"
	"github.com/hyosobang/passgate/pkg/response"
	"github.com/hyosobang/passgate/pkg/types"
)

type PurchaseRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	PassItemID string `json:"pass_item_id" binding:"required"`
}

// @Summary      Purchase a pass
// @Description  Grants a pass to the member with this phone number, creating the member first for guest purchases.
// @Tags         Purchase
// @Accept       json
// @Produce      json
// @Param        request body PurchaseRequest true "Purchase request"
// @Success      200  {object}  response.APIResponse[member.PurchaseResult]
// @Router       /api/v1/purchases [post]
func ApiPurchase(svc *member.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Purchase(c.Request.Context(), &member.PurchaseRequest{
			Name:       req.Name,
			Phone:      req.Phone,
			PassItemID: req.PassItemID,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List pass catalog
// @Description  Returns the configured catalog of sellable pass items.
// @Tags         Purchase
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]types.PassItem]
// @Router       /api/v1/pass-items [get]
func ApiListPassItems(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := cfg.PassItems
		if items == nil {
			items = []*types.PassItem{}
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

func RegisterPurchaseRoutes(r gin.IRouter, svc *member.Service, cfg *config.Config) {
	r.POST("/purchases", ApiPurchase(svc))
	r.GET("/pass-items", ApiListPassItems(cfg))
}
