// Stackmate CLI — песочница микросервисного стека для обучения.
//
// Использование:
//
//	stackmate [--config PATH] [--json] <command>
//
// Команды:
//
//	up      Запустить все сервисы и дождаться готовности
//	down    Остановить и удалить все сервисы
//	status  Показать состояние каждого сервиса
//	demo    Прогнать сквозной сценарий по всем хранилищам
//	watch   Периодические health-проверки + Prometheus metrics
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Stackmate/internal/cli"
	"github.com/shaiso/Stackmate/internal/compose"
	"github.com/shaiso/Stackmate/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var configPath string
	var jsonOutput bool

	logger := telemetry.SetupLogger()

	rootCmd := &cobra.Command{
		Use:           "stackmate",
		Short:         "Stackmate — local microservices sandbox",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	deps := &cli.Deps{Logger: logger}
	cobra.OnInitialize(func() { deps.ConfigPath = configPath })

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewUpCmd(deps, outputFn),
		cli.NewDownCmd(deps, outputFn),
		cli.NewStatusCmd(deps, outputFn),
		cli.NewDemoCmd(deps, outputFn),
		cli.NewWatchCmd(deps, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, compose.ErrRuntimeMissing) {
			fmt.Fprintln(os.Stderr, "Error: docker compose is not available:", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
