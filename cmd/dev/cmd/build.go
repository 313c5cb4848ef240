package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

// BuildCmd builds the cli with cgo enabled since karalabe/hid needs it.
func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the uvsensor cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			targetOS, err := cmd.Flags().GetString("os")
			if err != nil {
				return fmt.Errorf("could not get os flag: %w", err)
			}
			targetArch, err := cmd.Flags().GetString("arch")
			if err != nil {
				return fmt.Errorf("could not get arch flag: %w", err)
			}
			version, err := cmd.Flags().GetString("version")
			if err != nil {
				return fmt.Errorf("could not get version flag: %w", err)
			}
			crossOS, _ := cmd.Flags().GetString("cross-os")
			crossArch, _ := cmd.Flags().GetString("cross-arch")
			if targetOS == runtime.GOOS && targetArch == runtime.GOARCH {
				if crossOS != "" && crossArch != "" {
					targetOS, targetArch = crossOS, crossArch
				}
				out := fmt.Sprintf("dist/uvsensor-%s-%s", targetOS, targetArch)
				slog.Info("native build", "out", out, "version", version)
				return build.GoBuild(out, "./cmd/uvsensor", build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: "main",
					EnableCgo:     true,
					Arch:          targetArch,
					OS:            targetOS,
				})
			}
			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			slog.Info("cross build", "os", targetOS, "arch", targetArch)
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", targetOS, targetArch), []string{"build", "--version", version, "--cross-os", targetOS, "--cross-arch", targetArch}, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   "gophertribe/gobuild:1.25-bookworm",
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for (used inside the build container)")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for (used inside the build container)")
	return cmd
}
