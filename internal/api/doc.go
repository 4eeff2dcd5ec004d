// Package api provides the local HTTP API the study-aid UI layer talks to.
//
// Routes live under /api/v1 and cover signup and login, saved reviewers,
// quiz results and the bulk user export. Every handler goes through the
// store; there is no other state.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Optional collaborators
//
// Change events (MQTT), quiz analytics (InfluxDB) and the export mirror (S3)
// are optional. Each is called after the store write succeeds, and a failure
// there is logged without failing the request. /health reports MQTT and
// InfluxDB through Deps.Services.
//
// # Security
//
// There is no session or token layer. Login returns the matching user
// without the password, and user-scoped routes take the user ID from the path.
package api
