package handlers

import (
	"errors"

	"github.com/hyosobang/passgate/internal/app/service/adminauth"
	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/internal/app/service/redemption"
	"github.com/hyosobang/passgate/internal/app/service/ticket"
	"github.com/hyosobang/passgate/pkg/phone"
	"github.com/hyosobang/passgate/pkg/response"
)

// codeFor maps service sentinel errors onto envelope codes. Anything
// unrecognized is a store/write failure.
func codeFor(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, phone.ErrInvalidPhone),
		errors.Is(err, member.ErrUnknownPassItem):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, member.ErrMemberNotFound),
		errors.Is(err, redemption.ErrUnknownMember),
		errors.Is(err, redemption.ErrNoEligiblePass),
		errors.Is(err, ticket.ErrTicketNotFound),
		errors.Is(err, ticket.ErrMemberNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, member.ErrDuplicatePhone):
		return response.APIResponseCodeConflict
	case errors.Is(err, member.ErrSecondPasswordMismatch),
		errors.Is(err, adminauth.ErrBadCredentials),
		errors.Is(err, adminauth.ErrInvalidToken):
		return response.APIResponseCodeUnauthorized
	default:
		return response.APIResponseCodeError
	}
}
