// Package advisor turns an action catalog into guidance for the
// reasoning engine: the initial instructions, the optional plan prompt,
// per-turn recommendations, and the JSON Schemas its structured
// responses must satisfy.
//
// Guidance is soft. The advisor describes what the catalog suggests and
// what the plan expects, but the agent classifies its own actions and
// may deviate at any point. Adherence is measured afterwards by the
// execution context, never enforced here.
package advisor
