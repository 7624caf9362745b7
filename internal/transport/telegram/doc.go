// Package telegram adapts the Telegram Bot API to the conversation flow.
//
// The Bot long-polls for updates, converts each message or inline-keyboard
// callback into a single flow.Event, and hands it to the flow handler. The
// same Bot doubles as the flow.Presenter and flow.Distributor so replies,
// previews, and channel posts all travel over one API connection.
package telegram
