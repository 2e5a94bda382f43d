package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Stackmate/internal/compose"
	"github.com/shaiso/Stackmate/internal/orchestrator"
	"github.com/shaiso/Stackmate/internal/stack"
)

// NewUpCmd создаёт команду up — полный запуск стека.
func NewUpCmd(deps *Deps, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Start all backing services and wait for them to settle",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := deps.Config()
			if err != nil {
				return err
			}

			orch := deps.Orchestrator(cfg)

			statuses, err := orch.Bootstrap(cmd.Context())
			if errors.Is(err, compose.ErrRuntimeMissing) {
				// Единственный фатальный исход: exit code 1.
				return err
			}
			if err != nil {
				// Всё остальное — предупреждение, exit code 0.
				deps.Logger.Error("bootstrap incomplete", "error", err)
				out.Error(err.Error())
				return nil
			}

			printStatuses(out, statuses)

			healthy := orchestrator.HealthyCount(statuses)
			out.Success(fmt.Sprintf("stack started: %d/%d services healthy", healthy, len(statuses)))
			if healthy < len(statuses) {
				out.Success("some services are still settling; check logs or run `stackmate status`")
			}
			return nil
		},
	}
}

// NewDownCmd создаёт команду down — остановка стека.
func NewDownCmd(deps *Deps, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop and remove all backing services",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := deps.Config()
			if err != nil {
				return err
			}

			runner := deps.Runner(cfg)
			if err := runner.Available(cmd.Context()); err != nil {
				return err
			}
			if err := runner.Down(cmd.Context()); err != nil {
				return err
			}

			out.Success("stack stopped")
			return nil
		},
	}
}

// NewStatusCmd создаёт команду status — текущее состояние сервисов.
func NewStatusCmd(deps *Deps, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the classified state of every service",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := deps.Config()
			if err != nil {
				return err
			}

			runner := deps.Runner(cfg)
			if err := runner.Available(cmd.Context()); err != nil {
				return err
			}

			states, err := runner.Ps(cmd.Context())
			if err != nil {
				return err
			}

			byService := make(map[string]string, len(states))
			for _, st := range states {
				byService[st.Service] = st.Status
			}

			specs := stack.Default()
			statuses := make([]stack.ServiceStatus, 0, len(specs))
			for _, spec := range specs {
				raw := byService[spec.Name]
				statuses = append(statuses, stack.ServiceStatus{
					Spec:   spec,
					Raw:    raw,
					Health: stack.Classify(raw),
				})
			}

			printStatuses(out, statuses)
			return nil
		},
	}
}

// printStatuses выводит таблицу состояний сервисов.
func printStatuses(out *Output, statuses []stack.ServiceStatus) {
	headers := []string{"SERVICE", "ADDR", "HEALTH", "STATUS"}
	rows := make([][]string, len(statuses))

	type statusJSON struct {
		Service string `json:"service"`
		Addr    string `json:"addr"`
		Health  string `json:"health"`
		Status  string `json:"status,omitempty"`
	}
	jsonData := make([]statusJSON, len(statuses))

	for i, s := range statuses {
		rows[i] = []string{s.Spec.Name, s.Spec.Addr, string(s.Health), s.Raw}
		jsonData[i] = statusJSON{
			Service: s.Spec.Name,
			Addr:    s.Spec.Addr,
			Health:  string(s.Health),
			Status:  s.Raw,
		}
	}

	out.Print(headers, rows, jsonData)
}
