// Package track accumulates reasoning-engine usage per action type
// across a chain-of-action run.
package track
