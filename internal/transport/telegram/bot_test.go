package telegram

import (
	"strings"
	"testing"

	"marquee/internal/flow"
	"marquee/internal/media"
)

func TestCommandAction(t *testing.T) {
	tests := []struct {
		command  string
		args     string
		action   flow.Action
		category media.Category
		payload  string
		ok       bool
	}{
		{command: "start", action: flow.ActionStart, ok: true},
		{command: "help", action: flow.ActionStart, ok: true},
		{command: "movie", args: "Inception", action: flow.ActionChooseCategory, category: media.CategoryMovie, payload: "Inception", ok: true},
		{command: "anime", args: "", action: flow.ActionChooseCategory, category: media.CategoryAnime, ok: true},
		{command: "post", action: flow.ActionNewPost, ok: true},
		{command: "newpost", action: flow.ActionNewPost, ok: true},
		{command: "cancel", action: flow.ActionCancel, ok: true},
		{command: "settings", action: flow.ActionSettings, ok: true},
		{command: "templates", args: "anime", action: flow.ActionTemplates, category: media.CategoryAnime, ok: true},
		{command: "templates", args: "", action: flow.ActionTemplates, ok: true},
		{command: "templates", args: "podcast", action: flow.ActionTemplates, ok: true},
		{command: "setformat", args: "series", action: flow.ActionTemplates, category: media.CategorySeries, ok: true},
		{command: "ban", args: "12345", action: flow.ActionBan, payload: "12345", ok: true},
		{command: "premium", args: "12345", action: flow.ActionPremium, payload: "12345", ok: true},
		{command: "broadcast", action: flow.ActionBroadcast, ok: true},
		{command: "frobnicate", ok: false},
	}

	for _, tc := range tests {
		action, category, payload, ok := commandAction(tc.command, tc.args)
		if ok != tc.ok {
			t.Errorf("commandAction(%q, %q) ok = %v, want %v", tc.command, tc.args, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if action != tc.action || category != tc.category || payload != tc.payload {
			t.Errorf("commandAction(%q, %q) = %s/%s/%q, want %s/%s/%q",
				tc.command, tc.args, action, category, payload, tc.action, tc.category, tc.payload)
		}
	}
}

func TestNormalizeChannel(t *testing.T) {
	if got := normalizeChannel("mychannel"); got != "@mychannel" {
		t.Errorf("normalizeChannel(mychannel) = %q", got)
	}
	if got := normalizeChannel("@mychannel"); got != "@mychannel" {
		t.Errorf("normalizeChannel(@mychannel) = %q", got)
	}
}

func TestTruncateCaption(t *testing.T) {
	short := "a short caption"
	if got := truncateCaption(short); got != short {
		t.Errorf("short caption modified: %q", got)
	}

	long := strings.Repeat("x", 2000)
	got := truncateCaption(long)
	if runes := []rune(got); len(runes) != 1024 {
		t.Errorf("truncated length = %d, want 1024", len(runes))
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("truncated caption missing ellipsis")
	}
}
