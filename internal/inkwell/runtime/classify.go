package runtime

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

// transientMarkers are substrings of upstream error messages that
// indicate a failure worth retrying. Providers rarely expose typed
// errors, so message sniffing is the practical fallback.
var transientMarkers = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"overloaded",
	"temporarily unavailable",
	"connection reset",
	"connection refused",
	"unexpected eof",
	"i/o timeout",
	"timeout awaiting",
	"server error",
}

var authMarkers = []string{
	"unauthorized",
	"invalid api key",
	"invalid_api_key",
	"incorrect api key",
	"authentication",
	"permission denied",
}

// HTTP status codes are matched as standalone tokens only, so a model id
// like "gpt-1500" never counts as a retryable failure. Hyphens join
// tokens: "gpt-4-0503" does not contain a status code.
var (
	transientCodes = regexp.MustCompile(`(^|[^0-9a-z-])(429|500|502|503|504)([^0-9a-z-]|$)`)
	authCodes      = regexp.MustCompile(`(^|[^0-9a-z-])(401|403)([^0-9a-z-]|$)`)
)

// Classify maps any dispatch failure to its error category. Sentinel
// errors are checked first; upstream provider errors fall back to
// message sniffing. Anything unrecognized is a model failure.
func Classify(err error) errno.Category {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errno.CategoryTimeout
	case errors.Is(err, context.Canceled):
		return errno.CategoryTimeout
	case errors.Is(err, errno.ErrAgentNotFound),
		errors.Is(err, errno.ErrRunNotFound),
		errors.Is(err, errno.ErrArtifactNotFound):
		return errno.CategoryNotFound
	case errors.Is(err, errno.ErrToolNotFound):
		return errno.CategoryResolution
	case errors.Is(err, errno.ErrRunCorrupted):
		return errno.CategoryPersistence
	case errors.Is(err, errno.ErrIncludeNotFound),
		errors.Is(err, errno.ErrModelNotFound),
		errors.Is(err, errno.ErrModelNoToolCalls):
		return errno.CategoryConfiguration
	case errors.Is(err, errno.ErrUnauthorized):
		return errno.CategoryAuthentication
	case errors.Is(err, errno.ErrMaxRoundsReached):
		return errno.CategoryModel
	}

	var verrs *definition.ValidationErrors
	if errors.As(err, &verrs) {
		if verrs.HasResolutionError() {
			return errno.CategoryResolution
		}
		return errno.CategoryConfiguration
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return errno.CategoryAuthentication
		}
	}
	if authCodes.MatchString(msg) {
		return errno.CategoryAuthentication
	}
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return errno.CategoryTransient
		}
	}
	if transientCodes.MatchString(msg) {
		return errno.CategoryTransient
	}

	return errno.CategoryModel
}
