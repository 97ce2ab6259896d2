package catalog

import "weddingmarket/internal/pkg/apperror"

var (
	ErrTemplateNotFound = apperror.New(apperror.KindNotFound, "Template not found")
	ErrPackageNotFound  = apperror.New(apperror.KindNotFound, "Package not found")
)
