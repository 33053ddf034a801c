package lottery

// PeriodStart - начало окна фиксированной длины, в которое попадает момент now.
// Чистая функция над unix-секундами: now - (now mod periodSeconds)
func PeriodStart(now, periodSeconds int64) int64 {
	return now - now%periodSeconds
}
