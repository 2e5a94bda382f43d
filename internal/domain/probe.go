package domain

// ProbeResult — результат одной проверки доступности хранилища.
//
// Возвращается нативными health-проверками (SELECT 1, PING и т.д.),
// в отличие от классификации статусов compose в пакете stack.
type ProbeResult struct {
	// Name — имя проверяемого сервиса.
	Name string `json:"name"`

	// OK — прошла ли проверка.
	OK bool `json:"ok"`

	// LatencyMs — длительность проверки в миллисекундах.
	LatencyMs int64 `json:"latency_ms"`

	// Error — текст ошибки, если проверка не прошла.
	Error string `json:"error,omitempty"`
}
