package logger

// LogRequest logs an outgoing API request at a level matching its status
func LogRequest(log Logger, method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	switch {
	case statusCode >= 500:
		log.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		log.WarnWithFields("HTTP request client error", fields)
	default:
		log.DebugWithFields("HTTP request completed", fields)
	}
}

// LogRender logs the outcome of one gallery render
func LogRender(log Logger, album string, rendered, dropped int) {
	fields := map[string]interface{}{
		"album":    album,
		"rendered": rendered,
		"dropped":  dropped,
	}
	if rendered == 0 {
		log.WarnWithFields("Gallery rendered without images", fields)
		return
	}
	log.InfoWithFields("Gallery rendered", fields)
}

// LogComponentStart logs when a component starts
func LogComponentStart(log Logger, component string, settings map[string]interface{}) {
	l := log.WithField("component", component)
	if len(settings) > 0 {
		l = l.WithFields(settings)
	}
	l.Debug("Component started")
}
