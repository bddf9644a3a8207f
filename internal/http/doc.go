// Package http provides HTTP handlers and middleware for the store
// operations API.
//
// The router exposes the following endpoints:
//   - GET /templates, POST /templates, GET /templates/{id}, PUT
//     /templates/{id}, DELETE /templates/{id}: event template management
//     exchanging the `templateDTO` payload defined in template_handler.go.
//   - POST /templates/{id}/expand: materializes a template into tasks for a
//     single date ({"date":"2025-01-13"}) or an inclusive range
//     ({"start":"2025-01-13","end":"2025-01-19"}). The response lists the
//     created tasks and the dates that were skipped, with reasons.
//   - GET /tasks?date=|from=&to=, POST /tasks, GET /tasks/{id}, PUT
//     /tasks/{id}, DELETE /tasks/{id}: task management exchanging the
//     `taskDTO` payload defined in task_handler.go. Mutating responses carry
//     roster conflict warnings.
//   - POST /tasks/{id}/complete, POST /tasks/{id}/pin: lifecycle toggles with
//     an optional {"completed"} or {"pinned"} body defaulting to true.
//   - POST /tasks/{id}/delay: adds {"delay_minutes"} to the task's duration,
//     re-deriving its end time.
//   - POST /conflicts/check: dry-run roster conflict detection for a
//     candidate slot, returning the conflicting member IDs.
//   - GET /working-hours, PUT /working-hours: the store's single validation
//     window. GET returns 200 with {"configured":false} before any window is
//     set.
//   - GET /healthz: liveness and database reachability probe.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
