// Package logger builds the zap logger shared by the server and the CLI.
//
// Level and encoding come from Config: "debug" selects zap's development
// preset, anything else the production preset at the parsed level. Console
// encoding colours levels and hides stack traces; json is the default.
//
// Two helpers scope a logger:
//
//   - WithRayID tags lines with the request id set by the rayid middleware.
//   - WithJob tags lines with an export job id and the record being exported,
//     so the stages of one export can be followed across concurrent batches.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithJob(log, jobID, recordID)
//	l.Info("Geometry selected", zap.String("path", path))
package logger
