package stack

import "strings"

// Health — классификация состояния сервиса по статусу compose.
//
// Классификация тотальна: любая строка статуса (включая пустую)
// отображается ровно в одно из трёх значений.
type Health string

const (
	// HealthHealthy — сервис запущен и считается доступным.
	HealthHealthy Health = "HEALTHY"

	// HealthStarting — контейнер запущен, health-check ещё не прошёл.
	HealthStarting Health = "STARTING"

	// HealthDown — сервис не запущен или в нерабочем состоянии.
	HealthDown Health = "DOWN"
)

// IsHealthy возвращает true, если сервис доступен.
func (h Health) IsHealthy() bool {
	return h == HealthHealthy
}

// Classify отображает строку статуса docker compose в Health.
//
// Эвристика подстрок сознательно сохранена слабой: статус,
// содержащий "healthy" или "Up", считается рабочим. Это
// best-effort проверка, а не строгий контракт готовности —
// структурные проверки делают нативные probes хранилищ.
func Classify(status string) Health {
	if status == "" {
		return HealthDown
	}

	lower := strings.ToLower(status)

	// "(health: starting)" и "(unhealthy)" содержат "Up",
	// поэтому проверяются раньше. Важно не спутать со статусом
	// "Restarting", который рабочим не является.
	if strings.Contains(lower, "health: starting") {
		return HealthStarting
	}
	if strings.Contains(lower, "restarting") {
		return HealthDown
	}
	if strings.Contains(lower, "unhealthy") {
		return HealthDown
	}

	if strings.Contains(lower, "healthy") || strings.Contains(status, "Up") {
		return HealthHealthy
	}

	return HealthDown
}

// ServiceStatus — классифицированное состояние одного сервиса.
type ServiceStatus struct {
	// Spec — спецификация сервиса.
	Spec ServiceSpec

	// Raw — сырая строка статуса из compose ps.
	Raw string

	// Health — итоговая классификация.
	Health Health
}
