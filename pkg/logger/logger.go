package logger

// Info printf 스타일 info 로그 (부트스트랩 메시지용)
func Info(format string, args ...interface{}) {
	zlog.Info().Msgf(format, args...)
}

// Warn printf 스타일 warn 로그
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error printf 스타일 error 로그
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}
