package jobs

import "weddingmarket/internal/pkg/apperror"

var (
	ErrPostNotFound        = apperror.New(apperror.KindNotFound, "Job post not found")
	ErrApplicationNotFound = apperror.New(apperror.KindNotFound, "Job application not found")
	ErrUserNotFound        = apperror.New(apperror.KindNotFound, "User not found")

	ErrPostClosed     = apperror.New(apperror.KindConflict, "This job post is no longer accepting applications")
	ErrAlreadyApplied = apperror.New(apperror.KindConflict, "You have already applied for this job")
)
