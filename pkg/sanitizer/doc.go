// Package sanitizer normalizes free-form text captured from monitored
// sessions before it is persisted.
//
// The monitored instance reports statement text, application names and
// client addresses verbatim. Statement text in particular can embed
// customer data in literals, so SanitizeQueryText replaces literals with
// placeholders before anything is written. All sanitizers are pure and
// allocation-light; they run on every sampled row.
package sanitizer
