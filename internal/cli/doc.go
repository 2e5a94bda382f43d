// Package cli — команды инструмента stackmate.
//
// Команды:
//   - up     — полный запуск стека (clean slate, fixtures, up, poll)
//   - down   — остановка стека
//   - status — классификация состояния сервисов
//   - demo   — сквозной демонстрационный workflow
//   - watch  — периодические health-проверки + /metrics
package cli
