// Package dedup decides whether freshly extracted trend signals restate
// something already reported within a rolling time window.
//
// Detection runs in three stages, cheapest first:
//
//  1. Fingerprint match: an md5 over (primary repo, type, normalized title)
//     catches exact restatements in O(1) per signal.
//  2. Title similarity: Levenshtein distance over raw titles finds
//     near-identical rewordings (distance <= 2).
//  3. Semantic judgment: a completion call classifies the remaining
//     candidates as DUPLICATE or UNIQUE.
//
// Accepted signals are appended, timestamped, to a JSON history store that
// later runs prune by age at read time. Every failure path prefers keeping
// a signal over silently dropping it: corrupt history loads as empty,
// unreadable entries are skipped, and a failed judgment counts as UNIQUE.
package dedup
