// Package orchestrator поднимает стек backing-сервисов.
//
// Последовательность Bootstrap:
//   - EnsureCleanSlate — если что-то уже запущено, полный teardown
//   - InstallFixtures — статические ответы placeholder API
//   - StartAll — compose up (runtime запускает сервисы параллельно)
//   - WaitAndPoll — пауза, затем fan-out проверок статусов
//
// Политика ошибок сознательно мягкая: после запуска сервисов ничто
// не фатально. Нездоровый сервис — предупреждение в логе, не abort;
// retry и backoff отсутствуют. Единственная фатальная ошибка —
// отсутствие container runtime.
package orchestrator
