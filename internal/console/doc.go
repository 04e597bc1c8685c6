// Package console provides the interactive terminal event monitor.
//
// The monitor shows a live scrolling log of decoded device events
// (button presses, slider changes, page changes, touches) with a
// header naming the connection target and a footer tracking the
// parser's frame counters. Keys: p sends a ping and logs the round
// trip, c clears the log, q quits.
//
// Rendering is built on Bubble Tea with Lip Gloss styling; the event
// log scrolls inside a bubbles viewport.
package console
