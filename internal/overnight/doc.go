// Package overnight turns noisy duty events into overnight stays.
//
// The flow is Normalizer -> Calculator -> Merger. All three are pure: they hold
// no state between calls and never fail; malformed input is dropped and logged.
package overnight
