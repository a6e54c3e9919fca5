// Package notion implements the Notion backup provider.
//
// Workspaces and commands are mirrored into two Notion databases, one row per
// entity, keyed by the "External ID" rich text property:
//   - API client with pacing and a single Retry-After retry
//   - paginated listing of backed up rows
//   - create-or-update of rows by external id
//   - live verification of the configured credentials
package notion
