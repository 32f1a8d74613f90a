package main

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/necaris/k8s-eip-operator/configuration"
	"github.com/necaris/k8s-eip-operator/logger"
	"github.com/necaris/k8s-eip-operator/operator"
)

const flagConfig = "config"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "k8s-eip-operator",
		Short: "Manages AWS Elastic IP addresses for Kubernetes pods and nodes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString(flagConfig)
			if err != nil {
				return err // nolint:wrapcheck // flag error is self-describing
			}
			return run(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(flagConfig, "", "path to an optional config file; env vars take precedence")

	rootCmd.AddCommand(newProbeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func run(configPath string) error {
	var z *zap.Logger
	cfg, err := configuration.Load(configPath, func(fsnotify.Event) {
		if z != nil {
			z.Warn("config file changed on disk; restart to apply")
		}
	})
	if err != nil {
		return err
	}

	z = logger.New(logger.Config{Level: cfg.LogLevel, Filepath: cfg.LogFile})
	defer z.Sync() // nolint:errcheck // best-effort flush on exit
	logger.Hook(z)

	z.Info("starting eip operator",
		zap.String("clusterName", cfg.ClusterName),
		zap.String("namespace", cfg.Namespace),
		zap.String("version", version))

	ctx := ctrl.SetupSignalHandler()
	return operator.Run(ctx, cfg, z)
}
