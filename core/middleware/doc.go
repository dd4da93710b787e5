// Package middleware groups the Fiber middleware used by the start command.
//
//   - auth: checks the X-API-Key header (or api_key query) when a key is configured;
//     listed paths such as /metrics stay open.
//   - rayid: assigns every request a uuid stored in locals and echoed in the
//     response headers, so request and export logs can be correlated.
package middleware
