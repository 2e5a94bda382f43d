package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Таймаут одной команды docker compose.
// compose up может тянуть образы, поэтому лимит щедрый.
const (
	defaultCommandTimeout = 5 * time.Minute
	defaultQueryTimeout   = 30 * time.Second
)

// ServiceState — состояние одного сервиса по данным compose ps.
type ServiceState struct {
	// Service — имя сервиса в compose-проекте.
	Service string

	// Status — сырая строка статуса ("Up 5 minutes (healthy)").
	Status string
}

// Runner — интерфейс для управления стеком контейнеров.
// Реализуется CLIRunner; в тестах подменяется фейком.
type Runner interface {
	// Available проверяет, что docker и плагин compose установлены.
	Available(ctx context.Context) error

	// Ps возвращает состояния запущенных сервисов проекта.
	Ps(ctx context.Context) ([]ServiceState, error)

	// Up запускает все сервисы в фоне (detached).
	Up(ctx context.Context) error

	// Down останавливает и удаляет все сервисы проекта.
	Down(ctx context.Context) error
}

// ErrRuntimeMissing — docker или плагин compose не установлены.
// Единственная фатальная ошибка оркестратора.
var ErrRuntimeMissing = fmt.Errorf("container runtime not available")

// CLIRunner выполняет команды docker compose как подпроцессы.
type CLIRunner struct {
	// composeFile — путь к docker-compose.yml.
	composeFile string

	// projectName — имя compose-проекта (-p).
	projectName string

	logger *slog.Logger

	// execCommand подменяется в тестах.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCLIRunner создаёт Runner поверх docker compose CLI.
func NewCLIRunner(composeFile, projectName string, logger *slog.Logger) *CLIRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIRunner{
		composeFile: composeFile,
		projectName: projectName,
		logger:      logger,
		execCommand: exec.CommandContext,
	}
}

// Available проверяет наличие docker и плагина compose.
func (r *CLIRunner) Available(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("%w: docker binary not found in PATH", ErrRuntimeMissing)
	}

	cmd := r.execCommand(ctx, "docker", "compose", "version")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: docker compose version failed: %s", ErrRuntimeMissing, strings.TrimSpace(string(out)))
	}

	return nil
}

// psLine — одна строка вывода compose ps --format json.
type psLine struct {
	Service string `json:"Service"`
	Status  string `json:"Status"`
}

// Ps возвращает состояния сервисов проекта.
//
// compose ps --format json печатает по одному JSON-объекту
// на строку (начиная с compose v2.21).
func (r *CLIRunner) Ps(ctx context.Context) ([]ServiceState, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	cmd := r.execCommand(ctx, "docker", r.composeArgs("ps", "--all", "--format", "json")...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("compose ps: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	var states []ServiceState
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var p psLine
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			r.logger.Warn("skipping unparsable compose ps line", "line", line, "error", err)
			continue
		}

		states = append(states, ServiceState{Service: p.Service, Status: p.Status})
	}

	return states, nil
}

// Up запускает все сервисы проекта в detached-режиме.
// Возвращается когда runtime принял запрос, не дожидаясь health.
func (r *CLIRunner) Up(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
	defer cancel()

	r.logger.Info("starting all services", "compose_file", r.composeFile)

	cmd := r.execCommand(ctx, "docker", r.composeArgs("up", "-d")...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("compose up: %s: %w", strings.TrimSpace(string(out)), err)
	}

	return nil
}

// Down останавливает и удаляет все сервисы проекта.
func (r *CLIRunner) Down(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
	defer cancel()

	r.logger.Info("stopping all services", "project", r.projectName)

	cmd := r.execCommand(ctx, "docker", r.composeArgs("down")...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("compose down: %s: %w", strings.TrimSpace(string(out)), err)
	}

	return nil
}

// composeArgs собирает аргументы docker compose с файлом и проектом.
func (r *CLIRunner) composeArgs(args ...string) []string {
	base := []string{"compose"}
	if r.composeFile != "" {
		base = append(base, "-f", r.composeFile)
	}
	if r.projectName != "" {
		base = append(base, "-p", r.projectName)
	}
	return append(base, args...)
}
