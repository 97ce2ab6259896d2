package booking

import "weddingmarket/internal/pkg/apperror"

var (
	ErrPackageNotFound = apperror.New(apperror.KindNotFound, "Package not found")
	ErrInquiryNotFound = apperror.New(apperror.KindNotFound, "Inquiry not found")
)
