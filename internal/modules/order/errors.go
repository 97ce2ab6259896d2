package order

import "weddingmarket/internal/pkg/apperror"

var ErrOrderNotFound = apperror.New(apperror.KindNotFound, "Order not found")
