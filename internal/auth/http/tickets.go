package http

import (
	"net/http"

	"github.com/aussiebroadwan/tillauth/internal/auth/service"
	"github.com/aussiebroadwan/tillauth/pkg/authsdk"
	"github.com/aussiebroadwan/tillauth/pkg/httpx"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

type TicketHandler struct {
	TicketService *service.TicketService
}

// HandleVerify checks a ticket without consuming it.
//
//	@Summary		Verify PIN reset ticket
//	@Description	Lets a till confirm the ticket before prompting for the new PIN. The ticket is not consumed.
//	@Tags			Tickets
//	@Accept			json
//	@Param			request	body	authsdk.TicketVerifyRequest	true	"Account and ticket code"
//	@Success		204		"Ticket valid"
//	@Failure		400		{object}	authsdk.APIError	"Malformed request or invalid ticket"
//	@Failure		403		{object}	authsdk.APIError	"Too many wrong codes"
//	@Failure		410		{object}	authsdk.APIError	"Ticket expired"
//	@Router			/v1/tickets/verify [post].
func (h *TicketHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TicketVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.AccountID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TicketService.Verify(r.Context(), req.AccountID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRedeem sets a new PIN with a ticket.
//
//	@Summary		Redeem PIN reset ticket
//	@Description	Atomically checks the ticket, stores the new PIN and marks the ticket used. Concurrent redemptions of one ticket yield exactly one success.
//	@Tags			Tickets
//	@Accept			json
//	@Param			request	body	authsdk.TicketRedeemRequest	true	"Account, ticket code and new PIN"
//	@Success		204		"PIN updated"
//	@Failure		400		{object}	authsdk.APIError	"Malformed request, invalid ticket or weak PIN"
//	@Failure		403		{object}	authsdk.APIError	"Account inactive or too many wrong codes"
//	@Failure		410		{object}	authsdk.APIError	"Ticket expired"
//	@Router			/v1/tickets/redeem [post].
func (h *TicketHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TicketRedeemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.AccountID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TicketService.Redeem(r.Context(), req.AccountID, req.Code, req.NewPIN, slogx.RequestID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
