package session

import (
	"fmt"
	"strings"

	"marquee/internal/media"
)

// Phase identifies where a user's conversation currently stands.
type Phase string

const (
	PhaseIdle              Phase = "IDLE"
	PhaseSearching         Phase = "SEARCHING"
	PhaseSelecting         Phase = "SELECTING"
	PhaseAwaitingThumbnail Phase = "AWAITING_THUMBNAIL"
	PhasePreview           Phase = "PREVIEW"
	PhaseDistributed       Phase = "DISTRIBUTED"
	PhaseCancelled         Phase = "CANCELLED"
)

// ParsePhase converts a stored string into a Phase.
func ParsePhase(value string) (Phase, error) {
	phase := Phase(strings.ToUpper(strings.TrimSpace(value)))
	switch phase {
	case PhaseIdle, PhaseSearching, PhaseSelecting, PhaseAwaitingThumbnail,
		PhasePreview, PhaseDistributed, PhaseCancelled:
		return phase, nil
	default:
		return PhaseIdle, fmt.Errorf("unknown session phase %q", value)
	}
}

// State is the JSON payload persisted per user. Zero values are omitted so a
// fresh session serializes small.
type State struct {
	Phase            Phase          `json:"state"`
	Category         media.Category `json:"category,omitempty"`
	SearchResults    []media.Slim   `json:"searchResults,omitempty"`
	Selected         *media.Record  `json:"selectedMetadata,omitempty"`
	CustomImage      []byte         `json:"customImage,omitempty"`
	TemplateOverride string         `json:"activeTemplateOverride,omitempty"`
	Caption          string         `json:"renderedCaption,omitempty"`
	CardImage        []byte         `json:"renderedImage,omitempty"`

	// Text-input sub-flows outside the main search path. At most one of
	// these is set at a time.
	AwaitingTemplateName bool   `json:"awaitingTemplateName,omitempty"`
	AwaitingTemplateBody bool   `json:"awaitingTemplateBody,omitempty"`
	TemplateName         string `json:"templateName,omitempty"`
	AwaitingWatermark    bool   `json:"awaitingWatermark,omitempty"`
	AwaitingChannel      bool   `json:"awaitingChannel,omitempty"`
	AwaitingBroadcast    bool   `json:"awaitingBroadcast,omitempty"`
}

// NewState returns a fresh idle session.
func NewState() *State {
	return &State{Phase: PhaseIdle}
}

// ClearAwaiting resets every text-input sub-flow flag.
func (s *State) ClearAwaiting() {
	s.AwaitingTemplateName = false
	s.AwaitingTemplateBody = false
	s.TemplateName = ""
	s.AwaitingWatermark = false
	s.AwaitingChannel = false
	s.AwaitingBroadcast = false
}

// AwaitingText reports whether the next plain text message belongs to a
// sub-flow rather than a title search.
func (s *State) AwaitingText() bool {
	return s.AwaitingTemplateName || s.AwaitingTemplateBody ||
		s.AwaitingWatermark || s.AwaitingChannel || s.AwaitingBroadcast
}
