package operator

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/necaris/k8s-eip-operator/cloud"
	"github.com/necaris/k8s-eip-operator/configuration"
	crdeip "github.com/necaris/k8s-eip-operator/crd/eip"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	"github.com/necaris/k8s-eip-operator/restserver"
	"github.com/necaris/k8s-eip-operator/rpc"
)

// Run wires everything together and blocks until the context is canceled
// or a component fails: CRD install, the three reconcilers, the gRPC and
// HTTP servers, the quota reporter, and the orphan sweeper.
func Run(ctx context.Context, cfg *configuration.Config, logger *zap.Logger) error {
	restCfg, err := ctrl.GetConfig()
	if err != nil {
		return errors.Wrap(err, "loading kubeconfig")
	}

	installer, err := crdeip.NewInstaller(restCfg)
	if err != nil {
		return err
	}
	if err := installer.InstallOrUpdate(ctx); err != nil {
		return err
	}
	logger.Info("eip crd established")

	cloudClient, err := cloud.New(ctx, cloud.Config{
		ClusterName: cfg.ClusterName,
		DefaultTags: cfg.DefaultTags,
		Region:      cfg.Region,
	}, logger)
	if err != nil {
		return err
	}

	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return errors.Wrap(err, "registering core scheme")
	}
	if err := eipv1alpha1.AddToScheme(scheme); err != nil {
		return errors.Wrap(err, "registering eip scheme")
	}

	opts := ctrl.Options{
		Scheme: scheme,
		// the restserver exposes /metrics; no second listener
		Metrics: metricsserver.Options{BindAddress: "0"},
	}
	if cfg.Namespace != "" {
		opts.Cache = cache.Options{
			DefaultNamespaces: map[string]cache.Config{cfg.Namespace: {}},
		}
	}
	mgr, err := ctrl.NewManager(restCfg, opts)
	if err != nil {
		return errors.Wrap(err, "building manager")
	}

	if err := (&EipReconciler{Client: mgr.GetClient(), Cloud: cloudClient, Logger: logger}).SetupWithManager(mgr); err != nil {
		return errors.Wrap(err, "setting up eip reconciler")
	}
	if err := (&PodReconciler{Client: mgr.GetClient(), Cloud: cloudClient, Logger: logger}).SetupWithManager(mgr); err != nil {
		return errors.Wrap(err, "setting up pod reconciler")
	}
	if err := (&NodeReconciler{Client: mgr.GetClient(), Cloud: cloudClient, Logger: logger}).SetupWithManager(mgr); err != nil {
		return errors.Wrap(err, "setting up node reconciler")
	}

	restSrv := restserver.NewServer(cfg.HTTPPort, mgr.GetClient(), logger)
	rpcSrv, err := rpc.NewServer(
		rpc.ServerSettings{Port: uint16(cfg.GRPCPort)},
		&rpc.EipOperatorService{Reader: mgr.GetClient(), Quota: cloudClient, Logger: logger},
		logger,
	)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return errors.Wrap(mgr.Start(ctx), "running manager")
	})
	group.Go(func() error {
		return restSrv.Start(ctx)
	})
	group.Go(func() error {
		return rpcSrv.Start(ctx)
	})
	group.Go(func() error {
		select {
		case <-ctx.Done():
		case <-mgr.Elected():
			restSrv.SetReady(true)
			logger.Info("operator ready")

			// background pollers wait for the cache so their initial
			// list does not race manager startup
			reporter := &QuotaReporter{Cloud: cloudClient, Logger: logger}
			reporter.Start(ctx)
			if cfg.SweepEnabled {
				sweeper := &Sweeper{
					Reader:    mgr.GetClient(),
					Cloud:     cloudClient,
					Logger:    logger,
					Namespace: cfg.Namespace,
					Period:    cfg.SweepPeriod,
				}
				sweeper.Start(ctx)
			}
		}
		return nil
	})
	return group.Wait() // nolint:wrapcheck // first component error is the cause
}
