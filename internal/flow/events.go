package flow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"marquee/internal/media"
)

// Action identifies what a user event asks the controller to do.
type Action string

const (
	ActionStart          Action = "start"
	ActionNewPost        Action = "new_post"
	ActionChooseCategory Action = "choose_category"
	ActionText           Action = "text"
	ActionPhoto          Action = "photo"
	ActionSelect         Action = "select"
	ActionSkipThumbnail  Action = "skip_thumbnail"
	ActionChangeTemplate Action = "change_template"
	ActionRedoThumbnail  Action = "redo_thumbnail"
	ActionDistribute     Action = "distribute"
	ActionCancel         Action = "cancel"
	ActionSettings       Action = "settings"
	ActionSetWatermark   Action = "set_watermark"
	ActionSetChannel     Action = "set_channel"
	ActionTemplates      Action = "templates"
	ActionNewTemplate    Action = "new_template"
	ActionUseTemplate    Action = "use_template"
	ActionStats          Action = "stats"
	ActionBan            Action = "ban"
	ActionUnban          Action = "unban"
	ActionPremium        Action = "premium"
	ActionRevoke         Action = "revoke"
	ActionBroadcast      Action = "broadcast"
)

// DefaultTemplateOverride pins a preview to the built-in category template,
// bypassing the user's active stored template. Stored template names never
// collide with it because they cannot start with an underscore.
const DefaultTemplateOverride = "__default__"

// adminActions require the sender to be a configured operator.
var adminActions = map[Action]bool{
	ActionStats:     true,
	ActionBan:       true,
	ActionUnban:     true,
	ActionPremium:   true,
	ActionRevoke:    true,
	ActionBroadcast: true,
}

// Event is the discriminated unit of work produced by the transport. Exactly
// one parser builds these; the controller consumes them by exhaustive match
// on Action.
type Event struct {
	EventID   string
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	Action    Action
	Category  media.Category
	Payload   string
	Image     []byte
}

// NewEvent builds an Event with a fresh correlation ID.
func NewEvent(userID, chatID int64, action Action) *Event {
	return &Event{
		EventID: uuid.NewString(),
		UserID:  userID,
		ChatID:  chatID,
		Action:  action,
	}
}

// ParseCallback converts inline-keyboard callback data into its event parts.
// Recognized forms:
//
//	cat_<category>              choose a category
//	<category>_select_<id>      select a search result
//	thumb_skip                  skip the custom thumbnail
//	preview_post                distribute the preview
//	preview_redo                redo the thumbnail
//	flow_cancel                 cancel the conversation
//	tpl_default                 preview with the built-in template
//	tpl_use_<name>              preview with a stored template
//	tplnew_<category>           start creating a template
//	tplact_<category>_<name>    set the active template
func ParseCallback(data string) (Action, media.Category, string, error) {
	switch data {
	case "thumb_skip":
		return ActionSkipThumbnail, "", "", nil
	case "preview_post":
		return ActionDistribute, "", "", nil
	case "preview_redo":
		return ActionRedoThumbnail, "", "", nil
	case "flow_cancel":
		return ActionCancel, "", "", nil
	case "tpl_default":
		return ActionChangeTemplate, "", DefaultTemplateOverride, nil
	}

	if name, ok := strings.CutPrefix(data, "tpl_use_"); ok && name != "" {
		return ActionChangeTemplate, "", name, nil
	}
	if raw, ok := strings.CutPrefix(data, "cat_"); ok {
		category, ok := media.ParseCategory(raw)
		if !ok {
			return "", "", "", fmt.Errorf("callback %q: unknown category %q", data, raw)
		}
		return ActionChooseCategory, category, "", nil
	}
	if raw, ok := strings.CutPrefix(data, "tplnew_"); ok {
		category, ok := media.ParseCategory(raw)
		if !ok {
			return "", "", "", fmt.Errorf("callback %q: unknown category %q", data, raw)
		}
		return ActionNewTemplate, category, "", nil
	}
	if raw, ok := strings.CutPrefix(data, "tplact_"); ok {
		categoryRaw, name, found := strings.Cut(raw, "_")
		if !found || name == "" {
			return "", "", "", fmt.Errorf("callback %q: missing template name", data)
		}
		category, ok := media.ParseCategory(categoryRaw)
		if !ok {
			return "", "", "", fmt.Errorf("callback %q: unknown category %q", data, categoryRaw)
		}
		return ActionUseTemplate, category, name, nil
	}

	// <category>_select_<id>
	parts := strings.SplitN(data, "_", 3)
	if len(parts) == 3 && parts[1] == "select" {
		category, ok := media.ParseCategory(parts[0])
		if !ok {
			return "", "", "", fmt.Errorf("callback %q: unknown category %q", data, parts[0])
		}
		if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
			return "", "", "", fmt.Errorf("callback %q: bad id: %w", data, err)
		}
		return ActionSelect, category, parts[2], nil
	}

	return "", "", "", fmt.Errorf("unrecognized callback %q", data)
}
