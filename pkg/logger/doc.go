// Package logger provides the structured logging interface used across
// vkgallery.
//
// It wraps zerolog and offers:
//   - leveled logging (Debug, Info, Warn, Error)
//   - child loggers carrying fields (WithField, WithFields, WithError)
//   - a console writer on stderr, JSON on stderr, or an append-only file
//   - a global instance for the CLI and a capturing TestLogger for tests
//
// Basic usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.WithField("album", "album-500_12").Info("Rendering gallery")
//
//	log := logger.GetLogger().WithField("component", "vk")
//	log.DebugWithFields("HTTP request completed", map[string]interface{}{
//	    "status":   200,
//	    "duration": 120 * time.Millisecond,
//	})
package logger
