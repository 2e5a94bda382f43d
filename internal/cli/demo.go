package cli

import (
	"github.com/spf13/cobra"
)

// NewDemoCmd создаёт команду demo — сквозной сценарий по всем хранилищам.
func NewDemoCmd(deps *Deps, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the end-to-end workflow against the running stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			cfg, err := deps.Config()
			if err != nil {
				return err
			}

			_, demo, cleanup, err := deps.Workflow(cmd.Context(), cfg)
			if err != nil {
				deps.Logger.Error("workflow wiring failed", "error", err)
				out.Error(err.Error())
				return nil
			}
			defer cleanup()

			if err := demo.Run(cmd.Context()); err != nil {
				deps.Logger.Error("demo run failed", "error", err)
				out.Error(err.Error())
				return nil
			}

			out.Success("demo completed")
			return nil
		},
	}
}
