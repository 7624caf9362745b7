package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoResults       = errors.New("no results")
	ErrDetailFetch     = errors.New("detail fetch failed")
	ErrImageFetch      = errors.New("image fetch failed")
	ErrTemplateInvalid = errors.New("template invalid")
	ErrDistribution    = errors.New("distribution failed")
	ErrConfiguration   = errors.New("configuration error")
	ErrTransient       = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UserMessage maps a classified error to the text shown to the affected user.
// Every failure in the conversation flow ends here; nothing is fatal to the
// process.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoResults):
		return "❌ No results found. Try a different title."
	case errors.Is(err, ErrDetailFetch):
		return "❌ Failed to fetch details. Try again."
	case errors.Is(err, ErrTemplateInvalid):
		return "⚠️ Template must contain at least {title}. Try again:"
	case errors.Is(err, ErrDistribution):
		return "❌ Failed to post. Make sure the bot is admin in your channel."
	case errors.Is(err, ErrConfiguration):
		return "⚠️ The bot is misconfigured for this action. Contact the operator."
	default:
		return "❌ Something went wrong. Please try again."
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
