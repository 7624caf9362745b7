package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/media"
	"marquee/internal/notify"
	"marquee/internal/render"
	"marquee/internal/services"
	"marquee/internal/session"
	"marquee/internal/store"
)

const maxTemplateNameLen = 32

// Presenter sends conversational responses back to the user. The transport
// layer implements it.
type Presenter interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendCategoryMenu(ctx context.Context, chatID int64) error
	SendSearchResults(ctx context.Context, chatID int64, category media.Category, results []media.Slim) error
	SendThumbnailPrompt(ctx context.Context, chatID int64) error
	SendPreview(ctx context.Context, chatID int64, image []byte, caption string, templateNames []string) error
	SendTemplateList(ctx context.Context, chatID int64, category media.Category, templates []store.Template) error
}

// Distributor delivers the final image and caption to a target channel.
type Distributor interface {
	Distribute(ctx context.Context, target string, image []byte, caption string) error
}

// Composer renders post cards. Satisfied by card.Compositor.
type Composer interface {
	Compose(posterData, backdropData []byte, watermark string) ([]byte, error)
	Recompose(imageData []byte, watermark string) ([]byte, error)
}

// ImageFetcher downloads source images. Satisfied by card.Fetcher.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) []byte
}

// Options collects the Controller's dependencies.
type Options struct {
	Sessions    *session.Store
	Users       *store.Store
	Catalogs    *catalog.Registry
	Engine      *render.Engine
	Composer    Composer
	Fetcher     ImageFetcher
	Presenter   Presenter
	Distributor Distributor
	Notifier    notify.Service
	Config      *config.Config
	Logger      *slog.Logger
}

// Controller advances user sessions through the post-building conversation.
type Controller struct {
	sessions    *session.Store
	users       *store.Store
	catalogs    *catalog.Registry
	engine      *render.Engine
	composer    Composer
	fetcher     ImageFetcher
	presenter   Presenter
	distributor Distributor
	notifier    notify.Service
	cfg         *config.Config
	logger      *slog.Logger
}

// NewController validates dependencies and builds a Controller.
func NewController(opts Options) (*Controller, error) {
	switch {
	case opts.Sessions == nil:
		return nil, errors.New("session store required")
	case opts.Users == nil:
		return nil, errors.New("user store required")
	case opts.Catalogs == nil:
		return nil, errors.New("catalog registry required")
	case opts.Engine == nil:
		return nil, errors.New("render engine required")
	case opts.Composer == nil:
		return nil, errors.New("composer required")
	case opts.Fetcher == nil:
		return nil, errors.New("image fetcher required")
	case opts.Presenter == nil:
		return nil, errors.New("presenter required")
	case opts.Distributor == nil:
		return nil, errors.New("distributor required")
	case opts.Config == nil:
		return nil, errors.New("config required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		empty := config.Default()
		notifier = notify.NewService(&empty)
	}
	return &Controller{
		sessions:    opts.Sessions,
		users:       opts.Users,
		catalogs:    opts.Catalogs,
		engine:      opts.Engine,
		composer:    opts.Composer,
		fetcher:     opts.Fetcher,
		presenter:   opts.Presenter,
		distributor: opts.Distributor,
		notifier:    notifier,
		cfg:         opts.Config,
		logger:      logging.WithComponent(opts.Logger, "flow"),
	}, nil
}

// Handler returns the event entry point wrapped in the middleware chain.
func (c *Controller) Handler() Handler {
	respond := func(ctx context.Context, ev *Event, text string) error {
		return c.presenter.SendText(ctx, ev.ChatID, text)
	}
	onNewUser := func(ctx context.Context, ev *Event) {
		if err := c.notifier.NotifyNewUser(ctx, ev.UserID, ev.Username); err != nil {
			c.logger.Warn("new user notification failed", "user", ev.UserID, "error", err)
		}
	}
	return Chain(c.dispatch,
		Tracking(c.users, onNewUser, c.logger),
		BanCheck(c.users, respond, c.logger),
		AdminGate(c.cfg.IsAdmin, respond),
	)
}

func (c *Controller) dispatch(ctx context.Context, ev *Event) error {
	c.logger.Debug("event", "id", ev.EventID, "user", ev.UserID, "action", ev.Action)

	switch ev.Action {
	case ActionStart:
		return c.handleStart(ctx, ev)
	case ActionNewPost:
		return c.handleNewPost(ctx, ev)
	case ActionChooseCategory:
		return c.handleChooseCategory(ctx, ev)
	case ActionText:
		return c.handleText(ctx, ev)
	case ActionPhoto:
		return c.handlePhoto(ctx, ev)
	case ActionSelect:
		return c.handleSelect(ctx, ev)
	case ActionSkipThumbnail:
		return c.handleSkipThumbnail(ctx, ev)
	case ActionChangeTemplate:
		return c.handleChangeTemplate(ctx, ev)
	case ActionRedoThumbnail:
		return c.handleRedoThumbnail(ctx, ev)
	case ActionDistribute:
		return c.handleDistribute(ctx, ev)
	case ActionCancel:
		return c.handleCancel(ctx, ev)
	case ActionSettings:
		return c.handleSettings(ctx, ev)
	case ActionSetWatermark:
		return c.startTextFlow(ctx, ev, func(s *session.State) { s.AwaitingWatermark = true },
			"💧 Send the watermark text for your cards, or \"-\" to remove it.")
	case ActionSetChannel:
		return c.startTextFlow(ctx, ev, func(s *session.State) { s.AwaitingChannel = true },
			"📢 Send your channel username (like @mychannel). The bot must be an admin there.")
	case ActionTemplates:
		return c.handleTemplates(ctx, ev)
	case ActionNewTemplate:
		return c.handleNewTemplate(ctx, ev)
	case ActionUseTemplate:
		return c.handleUseTemplate(ctx, ev)
	case ActionStats:
		return c.handleStats(ctx, ev)
	case ActionBan:
		return c.handleSetBan(ctx, ev, true)
	case ActionUnban:
		return c.handleSetBan(ctx, ev, false)
	case ActionPremium:
		return c.handleSetPremium(ctx, ev, true)
	case ActionRevoke:
		return c.handleSetPremium(ctx, ev, false)
	case ActionBroadcast:
		return c.startTextFlow(ctx, ev, func(s *session.State) { s.AwaitingBroadcast = true },
			"📣 Send the message to broadcast to all users.")
	default:
		return c.presenter.SendText(ctx, ev.ChatID, "🤔 I didn't understand that. Try /post.")
	}
}

func (c *Controller) handleStart(ctx context.Context, ev *Event) error {
	name := strings.TrimSpace(ev.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"👋 Hey %s!\n\n"+
			"I build channel-ready posts for movies, TV shows, anime, and manhwa.\n\n"+
			"/post — create a new post\n"+
			"/templates — manage caption templates\n"+
			"/settings — watermark, channel, and preferences\n"+
			"/cancel — abandon the current post", name)
	return c.presenter.SendText(ctx, ev.ChatID, text)
}

func (c *Controller) handleNewPost(ctx context.Context, ev *Event) error {
	c.sessions.Clear(ctx, ev.UserID)
	return c.presenter.SendCategoryMenu(ctx, ev.ChatID)
}

func (c *Controller) handleChooseCategory(ctx context.Context, ev *Event) error {
	if ev.Category == "" {
		return c.presenter.SendCategoryMenu(ctx, ev.ChatID)
	}
	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		*s = session.State{Phase: session.PhaseSearching, Category: ev.Category}
	})

	// A category command can carry the query inline, like "/movie Inception".
	if query := strings.TrimSpace(ev.Payload); query != "" {
		return c.runSearch(ctx, ev, ev.Category, query)
	}

	text := fmt.Sprintf("🔍 Send me a %s title to search. For example: %s",
		ev.Category.DisplayName(), ev.Category.ExampleQuery())
	return c.presenter.SendText(ctx, ev.ChatID, text)
}

func (c *Controller) handleText(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	text := strings.TrimSpace(ev.Payload)
	if text == "" {
		return nil
	}

	if state.AwaitingText() {
		return c.handleAwaitedText(ctx, ev, state, text)
	}

	if state.Phase == session.PhaseSearching && state.Category != "" {
		return c.runSearch(ctx, ev, state.Category, text)
	}

	return c.presenter.SendText(ctx, ev.ChatID, "💡 Use /post to start creating a post.")
}

func (c *Controller) runSearch(ctx context.Context, ev *Event, category media.Category, query string) error {
	provider, ok := c.catalogs.For(category)
	if !ok {
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrConfiguration, "flow", "search", string(category), nil)))
	}

	results, err := provider.Search(ctx, query)
	if err != nil {
		c.logger.Warn("search failed", "user", ev.UserID, "category", category, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "search", query, err)))
	}
	if len(results) == 0 {
		// Recovered locally: back to idle so the next /post starts clean.
		c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
			*s = session.State{Phase: session.PhaseIdle}
		})
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrNoResults, "flow", "search", query, nil)))
	}

	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		s.Phase = session.PhaseSelecting
		s.Category = category
		s.SearchResults = results
	})
	return c.presenter.SendSearchResults(ctx, ev.ChatID, category, results)
}

func (c *Controller) handleSelect(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	if state.Phase != session.PhaseSelecting || len(state.SearchResults) == 0 {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 Nothing to select. Use /post to search first.")
	}

	id, err := selectedID(state.SearchResults, ev.Payload)
	if err != nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 That result is no longer available. Pick one from the list.")
	}

	category := state.Category
	provider, ok := c.catalogs.For(category)
	if !ok {
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrConfiguration, "flow", "detail", string(category), nil)))
	}

	record, err := provider.Detail(ctx, id)
	if err != nil || record == nil {
		// State stays at SELECTING with results intact so the user can retry.
		c.logger.Warn("detail fetch failed", "user", ev.UserID, "id", id, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrDetailFetch, "flow", "detail", fmt.Sprint(id), err)))
	}

	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		s.Phase = session.PhaseAwaitingThumbnail
		s.Selected = record
		s.SearchResults = nil
		s.CustomImage = nil
	})
	return c.presenter.SendThumbnailPrompt(ctx, ev.ChatID)
}

func (c *Controller) handlePhoto(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	if state.Phase != session.PhaseAwaitingThumbnail || state.Selected == nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 I wasn't expecting a photo. Use /post to start.")
	}
	state.CustomImage = ev.Image
	return c.buildPreview(ctx, ev, state, true)
}

func (c *Controller) handleSkipThumbnail(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	if state.Phase != session.PhaseAwaitingThumbnail || state.Selected == nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 Nothing to skip right now. Use /post to start.")
	}
	state.CustomImage = nil
	return c.buildPreview(ctx, ev, state, true)
}

// buildPreview renders the caption and, when rebuildImage is set or no card
// exists yet, the card image. Rendering is deterministic for the stored
// inputs, so rebuilding an unchanged preview yields identical bytes.
func (c *Controller) buildPreview(ctx context.Context, ev *Event, state *session.State, rebuildImage bool) error {
	user, err := c.users.GetUser(ctx, ev.UserID)
	if err != nil {
		c.logger.Warn("user load failed", "user", ev.UserID, "error", err)
	}
	var prefs render.Preferences
	var watermark string
	if user != nil {
		prefs = render.Preferences{Quality: user.Quality, Audio: user.Audio}
		watermark = user.Watermark
	}

	templateBody := c.resolveTemplate(ctx, ev.UserID, state)
	caption := c.engine.Render(state.Selected, templateBody, prefs)

	image := state.CardImage
	if rebuildImage || len(image) == 0 {
		image, err = c.renderCard(ctx, state, watermark)
		if err != nil {
			c.logger.Error("card render failed", "user", ev.UserID, "error", err)
			return c.presenter.SendText(ctx, ev.ChatID,
				services.UserMessage(services.Wrap(services.ErrTransient, "flow", "compose", "", err)))
		}
	}

	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		s.Phase = session.PhasePreview
		s.Category = state.Category
		s.Selected = state.Selected
		s.CustomImage = state.CustomImage
		s.TemplateOverride = state.TemplateOverride
		s.Caption = caption
		s.CardImage = image
		s.SearchResults = nil
	})

	return c.presenter.SendPreview(ctx, ev.ChatID, image, caption, c.templateNames(ctx, ev.UserID, state.Category))
}

func (c *Controller) renderCard(ctx context.Context, state *session.State, watermark string) ([]byte, error) {
	if len(state.CustomImage) > 0 {
		return c.composer.Recompose(state.CustomImage, watermark)
	}
	poster := c.fetcher.Fetch(ctx, state.Selected.PosterURL)
	backdrop := c.fetcher.Fetch(ctx, state.Selected.BackdropURL)
	return c.composer.Compose(poster, backdrop, watermark)
}

// resolveTemplate picks the template body: session override first, then the
// durable active template, then empty for the built-in default. The
// DefaultTemplateOverride sentinel forces the built-in default even when an
// active template exists.
func (c *Controller) resolveTemplate(ctx context.Context, userID int64, state *session.State) string {
	if state.Selected == nil {
		return ""
	}
	if state.TemplateOverride == DefaultTemplateOverride {
		return ""
	}
	category := state.Selected.Category
	if state.TemplateOverride != "" {
		tpl, err := c.users.GetTemplate(ctx, userID, category, state.TemplateOverride)
		if err != nil {
			c.logger.Warn("template load failed", "user", userID, "name", state.TemplateOverride, "error", err)
		}
		if tpl != nil {
			return tpl.Body
		}
	}
	body, ok, err := c.users.ActiveTemplateBody(ctx, userID, category)
	if err != nil {
		c.logger.Warn("active template load failed", "user", userID, "error", err)
	}
	if ok {
		return body
	}
	return ""
}

func (c *Controller) templateNames(ctx context.Context, userID int64, category media.Category) []string {
	templates, err := c.users.ListTemplates(ctx, userID, category)
	if err != nil {
		c.logger.Warn("template list failed", "user", userID, "error", err)
		return nil
	}
	names := make([]string, 0, len(templates))
	for _, tpl := range templates {
		names = append(names, tpl.Name)
	}
	return names
}

func (c *Controller) handleChangeTemplate(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	if state.Phase != session.PhasePreview || state.Selected == nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 There's no preview to restyle. Use /post to start.")
	}
	state.TemplateOverride = ev.Payload
	// Only the caption changed; the stored card image is reused as-is.
	return c.buildPreview(ctx, ev, state, false)
}

func (c *Controller) handleRedoThumbnail(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	if state.Phase != session.PhasePreview || state.Selected == nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 There's no preview to redo. Use /post to start.")
	}
	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		s.Phase = session.PhaseAwaitingThumbnail
		s.CardImage = nil
		s.CustomImage = nil
		s.Caption = ""
	})
	return c.presenter.SendThumbnailPrompt(ctx, ev.ChatID)
}

func (c *Controller) handleDistribute(ctx context.Context, ev *Event) error {
	state := c.sessions.Get(ctx, ev.UserID)
	if state.Phase != session.PhasePreview || len(state.CardImage) == 0 || state.Caption == "" {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 There's no finished preview to post. Use /post to start.")
	}

	canPost, err := c.users.CanPostToday(ctx, ev.UserID,
		c.cfg.Limits.FreePostsPerDay, c.cfg.Limits.PremiumPostsPerDay)
	if err != nil {
		c.logger.Warn("quota check failed", "user", ev.UserID, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "quota", "", err)))
	}
	if !canPost {
		return c.presenter.SendText(ctx, ev.ChatID,
			"📛 You've reached your daily post limit. Try again tomorrow or upgrade to premium.")
	}

	user, err := c.users.GetUser(ctx, ev.UserID)
	if err != nil {
		c.logger.Warn("user load failed", "user", ev.UserID, "error", err)
	}
	target := ""
	if user != nil {
		target = strings.TrimSpace(user.Channel)
	}
	if target == "" {
		return c.presenter.SendText(ctx, ev.ChatID,
			"📢 Set your channel first with /setchannel, then post again.")
	}

	if err := c.distributor.Distribute(ctx, target, state.CardImage, state.Caption); err != nil {
		// The preview, caption, and image stay untouched so the user can retry.
		c.logger.Warn("distribution failed", "user", ev.UserID, "target", target, "error", err)
		if notifyErr := c.notifier.NotifyDistributionFailed(ctx, ev.UserID, target, err); notifyErr != nil {
			c.logger.Warn("distribution alert failed", "error", notifyErr)
		}
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrDistribution, "flow", "distribute", target, err)))
	}

	if err := c.users.IncrementPostCount(ctx, ev.UserID); err != nil {
		c.logger.Warn("post count increment failed", "user", ev.UserID, "error", err)
	}
	c.sessions.Clear(ctx, ev.UserID)
	return c.presenter.SendText(ctx, ev.ChatID, fmt.Sprintf("✅ Posted to %s.", target))
}

func (c *Controller) handleCancel(ctx context.Context, ev *Event) error {
	c.sessions.Clear(ctx, ev.UserID)
	return c.presenter.SendText(ctx, ev.ChatID, "🚮 Cancelled. Use /post to start again.")
}

func (c *Controller) handleSettings(ctx context.Context, ev *Event) error {
	user, err := c.users.GetUser(ctx, ev.UserID)
	if err != nil || user == nil {
		return c.presenter.SendText(ctx, ev.ChatID, "⚙️ No settings yet. Use /post to get started.")
	}
	posted, err := c.users.PostsToday(ctx, ev.UserID)
	if err != nil {
		c.logger.Warn("posts today failed", "user", ev.UserID, "error", err)
	}
	limit := c.cfg.Limits.FreePostsPerDay
	tier := "Free"
	if user.Premium {
		limit = c.cfg.Limits.PremiumPostsPerDay
		tier = "Premium"
	}
	text := fmt.Sprintf(
		"⚙️ Your settings\n\n"+
			"Tier: %s\n"+
			"Posts today: %d/%d\n"+
			"Watermark: %s\n"+
			"Channel: %s\n"+
			"Quality: %s\n"+
			"Audio: %s\n\n"+
			"/setwatermark — change the card watermark\n"+
			"/setchannel — change the target channel",
		tier, posted, limit,
		orDash(user.Watermark), orDash(user.Channel),
		orDefault(user.Quality, c.cfg.Defaults.Quality),
		orDefault(user.Audio, c.cfg.Defaults.Audio))
	return c.presenter.SendText(ctx, ev.ChatID, text)
}

func (c *Controller) handleTemplates(ctx context.Context, ev *Event) error {
	category := ev.Category
	if category == "" {
		state := c.sessions.Get(ctx, ev.UserID)
		category = state.Category
	}
	if category == "" {
		return c.presenter.SendText(ctx, ev.ChatID,
			"💡 Tell me which category: /templates movie, /templates series, /templates anime, or /templates comic.")
	}
	templates, err := c.users.ListTemplates(ctx, ev.UserID, category)
	if err != nil {
		c.logger.Warn("template list failed", "user", ev.UserID, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "templates", "", err)))
	}
	return c.presenter.SendTemplateList(ctx, ev.ChatID, category, templates)
}

func (c *Controller) handleNewTemplate(ctx context.Context, ev *Event) error {
	if ev.Category == "" {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 Pick a category first with /templates.")
	}
	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		s.ClearAwaiting()
		s.Category = ev.Category
		s.AwaitingTemplateName = true
	})
	return c.presenter.SendText(ctx, ev.ChatID, "✏️ Send a short name for the new template:")
}

func (c *Controller) handleUseTemplate(ctx context.Context, ev *Event) error {
	if ev.Category == "" || ev.Payload == "" {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 Pick a template from /templates.")
	}
	if err := c.users.SetActiveTemplate(ctx, ev.UserID, ev.Category, ev.Payload); err != nil {
		c.logger.Warn("activate template failed", "user", ev.UserID, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "templates", ev.Payload, err)))
	}
	return c.presenter.SendText(ctx, ev.ChatID,
		fmt.Sprintf("✅ %q is now your %s template.", ev.Payload, ev.Category.DisplayName()))
}

func (c *Controller) startTextFlow(ctx context.Context, ev *Event, mark func(*session.State), prompt string) error {
	c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
		s.ClearAwaiting()
		mark(s)
	})
	return c.presenter.SendText(ctx, ev.ChatID, prompt)
}

func (c *Controller) handleAwaitedText(ctx context.Context, ev *Event, state *session.State, text string) error {
	switch {
	case state.AwaitingWatermark:
		value := text
		if value == "-" {
			value = ""
		}
		if err := c.users.SetWatermark(ctx, ev.UserID, value); err != nil {
			c.logger.Warn("set watermark failed", "user", ev.UserID, "error", err)
		}
		c.clearAwaiting(ctx, ev.UserID)
		if value == "" {
			return c.presenter.SendText(ctx, ev.ChatID, "💧 Watermark removed.")
		}
		return c.presenter.SendText(ctx, ev.ChatID, fmt.Sprintf("💧 Watermark set to %q.", value))

	case state.AwaitingChannel:
		if err := c.users.SetChannel(ctx, ev.UserID, text); err != nil {
			c.logger.Warn("set channel failed", "user", ev.UserID, "error", err)
		}
		c.clearAwaiting(ctx, ev.UserID)
		return c.presenter.SendText(ctx, ev.ChatID,
			fmt.Sprintf("📢 Channel set to %s. Make sure the bot is an admin there.", text))

	case state.AwaitingTemplateName:
		name := strings.TrimSpace(text)
		if name == "" || len(name) > maxTemplateNameLen || strings.HasPrefix(name, "_") {
			return c.presenter.SendText(ctx, ev.ChatID,
				fmt.Sprintf("✏️ Template names must be 1-%d characters and cannot start with an underscore. Try again:", maxTemplateNameLen))
		}
		c.sessions.Update(ctx, ev.UserID, func(s *session.State) {
			s.AwaitingTemplateName = false
			s.AwaitingTemplateBody = true
			s.TemplateName = name
		})
		return c.presenter.SendText(ctx, ev.ChatID,
			fmt.Sprintf("✏️ Now send the template body. It must include {title}.\n\nAvailable tokens:\n%s",
				render.TokenList(state.Category)))

	case state.AwaitingTemplateBody:
		if err := render.ValidateTemplate(text); err != nil {
			// Still awaiting: the user can resend a corrected body.
			return c.presenter.SendText(ctx, ev.ChatID, services.UserMessage(err))
		}
		if err := c.users.SaveTemplate(ctx, ev.UserID, state.Category, state.TemplateName, text); err != nil {
			c.logger.Warn("save template failed", "user", ev.UserID, "error", err)
			return c.presenter.SendText(ctx, ev.ChatID,
				services.UserMessage(services.Wrap(services.ErrTransient, "flow", "templates", state.TemplateName, err)))
		}
		name := state.TemplateName
		c.clearAwaiting(ctx, ev.UserID)
		return c.presenter.SendText(ctx, ev.ChatID,
			fmt.Sprintf("✅ Template %q saved. Activate it with /templates.", name))

	case state.AwaitingBroadcast:
		c.clearAwaiting(ctx, ev.UserID)
		return c.runBroadcast(ctx, ev, text)
	}
	return nil
}

func (c *Controller) clearAwaiting(ctx context.Context, userID int64) {
	c.sessions.Update(ctx, userID, func(s *session.State) { s.ClearAwaiting() })
}

func selectedID(results []media.Slim, payload string) (int64, error) {
	for _, result := range results {
		if fmt.Sprint(result.ID) == payload {
			return result.ID, nil
		}
	}
	return 0, fmt.Errorf("id %q not in stored results", payload)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
