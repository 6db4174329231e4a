package apperrors

import "net/http"

// Error is a client-caused failure with a stable code. Handlers map Status to
// the HTTP response; Code is what clients switch on.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrNotOnboarded = &Error{Code: "NOT_ONBOARDED", Status: http.StatusForbidden, Message: "viewer has no profile"}

	ErrUserNotFound          = &Error{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "user not found"}
	ErrReviewNotFound        = &Error{Code: "REVIEW_NOT_FOUND", Status: http.StatusNotFound, Message: "review not found"}
	ErrCommentNotFound       = &Error{Code: "COMMENT_NOT_FOUND", Status: http.StatusNotFound, Message: "comment not found"}
	ErrNotificationNotFound  = &Error{Code: "NOTIFICATION_NOT_FOUND", Status: http.StatusNotFound, Message: "notification not found"}
	ErrFollowRequestNotFound = &Error{Code: "FOLLOW_REQUEST_NOT_FOUND", Status: http.StatusNotFound, Message: "follow request not found"}

	ErrReviewForbidden  = &Error{Code: "REVIEW_FORBIDDEN", Status: http.StatusForbidden, Message: "not allowed to act on this review"}
	ErrCommentForbidden = &Error{Code: "COMMENT_FORBIDDEN", Status: http.StatusForbidden, Message: "not allowed to act on this comment"}

	ErrInvalidCursor       = &Error{Code: "INVALID_CURSOR", Status: http.StatusBadRequest, Message: "malformed pagination cursor"}
	ErrInvalidTab          = &Error{Code: "INVALID_FEED_TAB", Status: http.StatusBadRequest, Message: "unrecognized feed tab"}
	ErrInvalidFilter       = &Error{Code: "INVALID_FEED_FILTER", Status: http.StatusBadRequest, Message: "unrecognized feed filter"}
	ErrInvalidReview       = &Error{Code: "INVALID_REVIEW", Status: http.StatusBadRequest, Message: "invalid review payload"}
	ErrInvalidComment      = &Error{Code: "INVALID_COMMENT", Status: http.StatusBadRequest, Message: "invalid comment payload"}
	ErrInvalidFollowTarget = &Error{Code: "INVALID_FOLLOW_TARGET", Status: http.StatusBadRequest, Message: "cannot follow this user"}

	ErrCommentAlreadyReported = &Error{Code: "COMMENT_REPORT_ALREADY_EXISTS", Status: http.StatusConflict, Message: "comment already reported"}
)
