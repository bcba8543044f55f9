// Package events carries notifications from the core to whoever is
// listening: the websocket clients of the webview, the CLI, or tests.
//
// The core emits two events:
//   - file-changed: payload is the watched path, once per modify notification
//   - open-folder: payload is the resolved launch path
//
// Producers depend only on Notifier. Hub fans events out to any number of
// subscribers through bounded queues; a subscriber that falls behind loses
// events instead of stalling the producer. Hub keeps the most recent
// open-folder event and hands it to each new subscriber first, since the
// webview connects after launch.
package events
