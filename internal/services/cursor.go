package services

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/stacta-app/backend/internal/apperrors"
)

// Cursor scopes. A cursor minted for one paginated view is rejected everywhere
// else, so a Following token replayed against the Popular tab fails instead of
// producing an undefined page.
const (
	cursorScopeNotifications  = "NOTIFICATIONS"
	cursorScopeReviews        = "REVIEWS"
	cursorScopeFollowRequests = "REQUESTS"
)

// TimeCursor resumes a (created_at DESC, id DESC) walk after the given row.
type TimeCursor struct {
	CreatedAt time.Time
	ID        string
}

// ScoreCursor resumes a (score DESC, created_at DESC, id DESC) walk.
type ScoreCursor struct {
	Score     int
	CreatedAt time.Time
	ID        string
}

func feedCursorScope(tab, filter string) string {
	if filter == "" {
		filter = "ALL"
	}
	return tab + ":" + filter
}

func encodeCursor(scope string, parts ...string) string {
	raw := scope + "|" + strings.Join(parts, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor rejects anything that is not a well-formed token for the given
// scope with the expected number of key fields.
func decodeCursor(scope, token string, fields int) ([]string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.ErrInvalidCursor
	}
	parts := strings.Split(string(decoded), "|")
	if len(parts) != fields+1 || parts[0] != scope {
		return nil, apperrors.ErrInvalidCursor
	}
	return parts[1:], nil
}

// EncodeTimeCursor encodes the ordering key of the last returned row.
func EncodeTimeCursor(scope string, createdAt time.Time, id string) string {
	return encodeCursor(scope, createdAt.UTC().Format(time.RFC3339Nano), id)
}

// DecodeTimeCursor parses a time-ordered cursor. An empty token means "start
// from the top" and decodes to nil.
func DecodeTimeCursor(scope, token string) (*TimeCursor, error) {
	if token == "" {
		return nil, nil
	}
	parts, err := decodeCursor(scope, token, 2)
	if err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil || parts[1] == "" {
		return nil, apperrors.ErrInvalidCursor
	}
	return &TimeCursor{CreatedAt: at, ID: parts[1]}, nil
}

// EncodeScoreCursor encodes the ordering key of the last returned popular row.
func EncodeScoreCursor(scope string, score int, createdAt time.Time, id string) string {
	return encodeCursor(scope, strconv.Itoa(score), createdAt.UTC().Format(time.RFC3339Nano), id)
}

// DecodeScoreCursor parses a score-ordered cursor.
func DecodeScoreCursor(scope, token string) (*ScoreCursor, error) {
	if token == "" {
		return nil, nil
	}
	parts, err := decodeCursor(scope, token, 3)
	if err != nil {
		return nil, err
	}
	score, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, apperrors.ErrInvalidCursor
	}
	at, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil || parts[2] == "" {
		return nil, apperrors.ErrInvalidCursor
	}
	return &ScoreCursor{Score: score, CreatedAt: at, ID: parts[2]}, nil
}
