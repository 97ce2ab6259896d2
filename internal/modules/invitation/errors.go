package invitation

import "weddingmarket/internal/pkg/apperror"

var (
	ErrTemplateNotFound   = apperror.New(apperror.KindNotFound, "Template not found")
	ErrContentNotFound    = apperror.New(apperror.KindNotFound, "Invitation content not found, save the content first")
	ErrInvitationNotFound = apperror.New(apperror.KindNotFound, "Invitation not found")
	ErrRSVPNotFound       = apperror.New(apperror.KindNotFound, "RSVP not found")

	ErrNotPurchased = apperror.New(apperror.KindForbidden, "You have not purchased this template")
	ErrRSVPClosed   = apperror.New(apperror.KindConflict, "RSVPs for this invitation are closed")
)
