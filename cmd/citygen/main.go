package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/maitrix-org/simworld/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "citygen",
		Short: "Procedural city layout generator",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Run the full generation pipeline and export the layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args[0], outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "output", "directory for exported documents")
	return cmd
}

func validateCmd() *cobra.Command {
	var layoutFile string

	cmd := &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a project config, or audit a previously exported layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], layoutFile)
		},
	}

	cmd.Flags().StringVarP(&layoutFile, "layout", "l", "", "layout.json to audit against the project config")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		out   string
		scale float64
	)

	cmd := &cobra.Command{
		Use:   "render [project-path]",
		Short: "Generate a layout and render it to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRender(args[0], out, scale)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "city.png", "output image path")
	cmd.Flags().Float64VarP(&scale, "scale", "s", 1, "pixels per world unit")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server with layout and preview endpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv := server.New(args[0], port)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
