// Package idle destroys a dashboard session after a period without user
// activity.
//
// A [Watcher] is a two-state machine. While Armed it holds exactly one
// pending timer; every activity signal cancels that timer and schedules a new
// one at now+timeout. When a deadline passes without activity the watcher
// moves to Expired and runs its expiry callback exactly once. Expired is
// terminal: a new login needs a new Watcher.
//
// [Tracker] keeps one Watcher per client for servers that observe activity
// as requests.
//
// Time comes from an injected [clock.Clock], so tests drive expiry with
// [clock.Fake] instead of sleeping.
package idle
