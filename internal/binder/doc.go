// Package binder bridges the protocol engine and a UI page manager.
//
// The protocol core ships with fail-safe NACK defaults for every UI
// command; Bind replaces them with handlers that decode command
// payloads, apply the operation to a PageManager, and acknowledge. This
// keeps the engine ignorant of UI semantics while guaranteeing the
// one-reply-per-request contract the host depends on.
package binder
