package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyosobang/passgate/internal/app/service/ticket"
	"github.com/hyosobang/passgate/pkg/response"
)

// @Summary      Ticket display
// @Description  Read-only mobile ticket view: member name, aggregate remaining count, pass list. Viewing never redeems.
// @Tags         Ticket
// @Produce      json
// @Param        token path string true "Ticket token"
// @Success      200  {object}  response.APIResponse[ticket.Display]
// @Router       /api/v1/tickets/{token} [get]
func ApiTicketDisplay(svc *ticket.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.GetDisplay(c.Request.Context(), c.Param("token"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type RotateTicketRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type RotateTicketResponse struct {
	MemberName string `json:"member_name"`
	Token      string `json:"token"`
	TicketURL  string `json:"ticket_url"`
}

// @Summary      Rotate ticket token
// @Description  Re-identifies the member by phone and issues a fresh token; the old token stops resolving immediately.
// @Tags         Ticket
// @Accept       json
// @Produce      json
// @Param        request body RotateTicketRequest true "Rotate request"
// @Success      200  {object}  response.APIResponse[RotateTicketResponse]
// @Router       /api/v1/tickets/rotate [post]
func ApiRotateTicket(svc *ticket.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RotateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		m, token, err := svc.Rotate(c.Request.Context(), req.Phone)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(codeFor(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&RotateTicketResponse{
			MemberName: m.Name,
			Token:      token,
			TicketURL:  svc.TicketURL(token),
		}))
	}
}

func RegisterTicketRoutes(r gin.IRouter, svc *ticket.Service) {
	r.POST("/tickets/rotate", ApiRotateTicket(svc))
	r.GET("/tickets/:token", ApiTicketDisplay(svc))
}
