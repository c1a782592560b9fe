package airflow

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/burmanm/composer-client/pkg/gcloud"
	"github.com/pterm/pterm"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Session holds the resolved environment and scoped cluster access for one
// invocation. Close releases the temporary credentials on every exit path,
// a signal handler drains the same resources when the process is
// interrupted mid-verb.
type Session struct {
	Environment *gcloud.Environment
	Cluster     gcloud.ClusterRef
	RESTConfig  *rest.Config
	Manager     *Manager

	kubeconfig *gcloud.Kubeconfig
	closers    []func()
	mu         sync.Mutex
	closeOnce  sync.Once
	sigCh      chan os.Signal
}

// NewSession describes the environment and fetches scoped cluster
// credentials for it.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cli, err := gcloud.NewCLI(cfg.Project)
	if err != nil {
		return nil, err
	}

	p, err := pterm.DefaultProgressbar.WithTitle("Resolving environment " + cfg.ComposerName).WithShowCount(false).WithShowPercentage(false).Start()
	if err != nil {
		return nil, err
	}
	defer p.Stop()

	env, err := cli.DescribeEnvironment(ctx, cfg.ComposerName, cfg.ComposerLocation)
	if err != nil {
		return nil, err
	}
	if env.State != "" && env.State != "RUNNING" {
		pterm.Warning.Printfln("Environment %s is in state %s", cfg.ComposerName, env.State)
	}

	cluster, err := gcloud.ParseClusterPath(env.Config.GKECluster)
	if err != nil {
		return nil, err
	}

	p.UpdateTitle("Fetching credentials for cluster " + cluster.Name)
	kubeconfig, err := cli.ClusterCredentials(ctx, cluster)
	if err != nil {
		return nil, err
	}

	restConfig, err := clientcmd.BuildConfigFromFlags("", kubeconfig.Path)
	if err != nil {
		kubeconfig.Close()
		return nil, err
	}

	kubeClient, err := GetClient(restConfig)
	if err != nil {
		kubeconfig.Close()
		return nil, err
	}

	s := &Session{
		Environment: env,
		Cluster:     cluster,
		RESTConfig:  restConfig,
		Manager:     NewManager(kubeClient),
		kubeconfig:  kubeconfig,
	}
	s.watchSignals()

	return s, nil
}

// Worker resolves the Composer namespace and its first running worker pod.
func (s *Session) Worker() (string, *corev1.Pod, error) {
	namespace, err := s.Manager.ComposerNamespace()
	if err != nil {
		return "", nil, err
	}

	pod, err := s.Manager.WorkerPod(namespace)
	if err != nil {
		return "", nil, err
	}
	pterm.Debug.Printfln("Resolved worker pod %s/%s", namespace, pod.Name)

	return namespace, pod, nil
}

// Defer registers fn to run when the session closes. Closers run in reverse
// registration order, before the credentials are removed.
func (s *Session) Defer(fn func()) {
	s.mu.Lock()
	s.closers = append(s.closers, fn)
	s.mu.Unlock()
}

// Close releases every registered resource and the temporary credentials.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		closers := s.closers
		s.closers = nil
		s.mu.Unlock()

		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		s.kubeconfig.Close()

		if s.sigCh != nil {
			signal.Stop(s.sigCh)
		}
	})
}

func (s *Session) watchSignals() {
	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-s.sigCh
		s.Close()
		os.Exit(1)
	}()
}
