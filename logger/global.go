package logger

// Standard field key constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// globalLogger is the process-wide logger used by the package-level functions.
var globalLogger = NewDefault("funcbox")

// Global returns the process-wide logger.
func Global() *Logger {
	return globalLogger
}

// Debug logs a debug message on the global logger.
func Debug(msg string, fields ...map[string]interface{}) {
	globalLogger.Debug(msg, fields...)
}

// Info logs an info message on the global logger.
func Info(msg string, fields ...map[string]interface{}) {
	globalLogger.Info(msg, fields...)
}

// Warn logs a warning message on the global logger.
func Warn(msg string, fields ...map[string]interface{}) {
	globalLogger.Warn(msg, fields...)
}

// Error logs an error message on the global logger.
func Error(msg string, fields ...map[string]interface{}) {
	globalLogger.Error(msg, fields...)
}

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
