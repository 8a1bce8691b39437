package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"propdesk/internal/types"
)

// wireError is the structured error shape every backend endpoint returns:
// {"status": 404, "detail": "...", "requestId": "..."}.
type wireError struct {
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	RequestID string `json:"requestId"`
}

// decodeBackendError reads an error response body and maps it to an
// AppError. Bodies that do not match the documented shape are rejected as
// upstream_bad_response rather than passed through: unrecognized shapes
// fail fast at the boundary.
func decodeBackendError(status int, body io.Reader) *types.AppError {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyRead))
	if err != nil {
		return types.NewAppError(types.ErrCodeUpstreamBadResponse, "failed to read backend error body", err)
	}

	var we wireError
	if jsonErr := json.Unmarshal(data, &we); jsonErr != nil || we.Status == 0 {
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamBadResponse,
			"backend returned an unrecognized error shape",
			jsonErr,
			map[string]any{"http_status": status},
		)
	}

	detail := we.Detail
	if detail == "" {
		detail = http.StatusText(status)
	}

	appErr := types.NewAppErrorWithDetails(codeForStatus(status, detail), detail, nil, map[string]any{
		"backend_request_id": we.RequestID,
	})
	return appErr
}

// codeForStatus maps an upstream HTTP status (plus its detail text, for 404
// resource discrimination) to a domain error code, so the gateway re-renders
// backend failures with its own taxonomy instead of leaking raw statuses.
func codeForStatus(status int, detail string) types.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return types.ErrCodeValidationInvalidField
	case http.StatusUnauthorized:
		return types.ErrCodeAuthTokenInvalid
	case http.StatusForbidden:
		return types.ErrCodePermissionDenied
	case http.StatusNotFound:
		lower := strings.ToLower(detail)
		switch {
		case strings.Contains(lower, "property"):
			return types.ErrCodeNotFoundProperty
		case strings.Contains(lower, "customer"):
			return types.ErrCodeNotFoundCustomer
		case strings.Contains(lower, "showcase"):
			return types.ErrCodeNotFoundShowcase
		case strings.Contains(lower, "valuation"):
			return types.ErrCodeNotFoundValuation
		default:
			return types.ErrCodeNotFoundResource
		}
	case http.StatusConflict:
		return types.ErrCodeConflictDuplicate
	case http.StatusTooManyRequests:
		return types.ErrCodeQuotaExceeded
	default:
		if status >= 500 {
			return types.ErrCodeUpstreamUnavailable
		}
		return types.ErrCodeUpstreamBadResponse
	}
}
