package tunnel

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"
)

const readyTimeout = 30 * time.Second

// Tunnel forwards a local loopback port to a pod port, in-process. New
// returns only once the forwarder reports itself ready, so callers can
// connect immediately.
type Tunnel struct {
	LocalPort  int
	RemotePort int

	stopCh   chan struct{}
	errCh    chan error
	stopOnce sync.Once
}

// New opens a port-forward to the given pod and waits for it to become
// ready. Close must be called on every path once New succeeds.
func New(restConfig *rest.Config, namespace, podName string, localPort, remotePort int, streams genericclioptions.IOStreams) (*Tunnel, error) {
	if err := checkLocalPort(localPort); err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}

	req := clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(namespace).
		Name(podName).
		SubResource("portforward")

	transport, upgrader, err := spdy.RoundTripperFor(restConfig)
	if err != nil {
		return nil, err
	}
	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, "POST", req.URL())

	t := &Tunnel{
		LocalPort:  localPort,
		RemotePort: remotePort,
		stopCh:     make(chan struct{}),
		errCh:      make(chan error, 1),
	}

	readyCh := make(chan struct{})
	ports := []string{fmt.Sprintf("%d:%d", localPort, remotePort)}

	forwarder, err := portforward.New(dialer, ports, t.stopCh, readyCh, streams.ErrOut, streams.ErrOut)
	if err != nil {
		return nil, err
	}

	go func() {
		t.errCh <- forwarder.ForwardPorts()
	}()

	select {
	case <-readyCh:
	case err := <-t.errCh:
		if err == nil {
			err = fmt.Errorf("forwarder closed before becoming ready")
		}
		return nil, fmt.Errorf("port-forward to %s/%s: %w", namespace, podName, err)
	case <-time.After(readyTimeout):
		t.Close()
		return nil, fmt.Errorf("port-forward to %s/%s not ready after %s", namespace, podName, readyTimeout)
	}

	return t, nil
}

// Addr returns the local endpoint of the tunnel.
func (t *Tunnel) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", t.LocalPort)
}

// Wait blocks until the tunnel terminates. It returns nil after a plain
// Close.
func (t *Tunnel) Wait() error {
	return <-t.errCh
}

// Close tears the tunnel down. Safe to call more than once.
func (t *Tunnel) Close() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// checkLocalPort verifies the local port can be bound before the forward
// starts, for a clearer error than the forwarder's.
func checkLocalPort(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return fmt.Errorf("local port %d is not available: %w", port, err)
	}

	return listener.Close()
}
