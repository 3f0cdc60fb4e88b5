// Package planner compiles oracle responses into validated move plans.
//
// The planner is the only place where the oracle's untrusted output is
// interpreted. It parses the response, rejects hallucinated or unsafe
// assignments, disambiguates destination collisions deterministically, and
// orders operations so that parent directories are populated before their
// children. Compilation never touches the filesystem.
//
// Key responsibilities:
//   - Parse plan JSON, including JSON wrapped in markdown code fences
//   - Reject assignments for entries the inventory does not contain
//   - Enforce root containment and cycle freedom
//   - Produce byte-identical operation ordering for identical inputs
package planner
