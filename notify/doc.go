// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify defines the outbound notification sink.

The Notifier interface is the boundary to whatever delivers winner and
distribution announcements (email, SMS, push). The engine treats it as
fire-and-forget: notifications are dispatched after the state change is
committed, panics and failures are logged and swallowed, and the triggering
operation succeeds regardless.

The Log implementation writes events to the structured log with a unique
event id; swap in a real transport by implementing Notifier.
*/
package notify
