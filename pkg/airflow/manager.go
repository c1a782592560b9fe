package airflow

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	// Composer keeps its workloads in a namespace carrying this marker.
	namespaceMarker = "composer"

	workerMarker   = "airflow-worker"
	sqlProxyMarker = "airflow-sqlproxy"

	// WorkerContainer is the container execs target inside the worker pod.
	WorkerContainer = "airflow-worker"
)

var (
	errNoComposerNamespace = fmt.Errorf("no namespace containing %q found in the cluster", namespaceMarker)
	errNoWorkerPod         = fmt.Errorf("no running Airflow worker pod found")
	errNoSQLProxyPod       = fmt.Errorf("no running Airflow SQL proxy pod found")
)

// Manager resolves Airflow workloads inside the environment's GKE cluster.
type Manager struct {
	client client.Client
}

func NewManager(client client.Client) *Manager {
	return &Manager{
		client: client,
	}
}

// ComposerNamespace returns the namespace the Composer workloads run in. When
// several match the marker, the first one in listing order wins.
func (m *Manager) ComposerNamespace() (string, error) {
	namespaces := &corev1.NamespaceList{}
	if err := m.client.List(context.TODO(), namespaces); err != nil {
		return "", err
	}

	for _, namespace := range namespaces.Items {
		if strings.Contains(namespace.Name, namespaceMarker) {
			return namespace.Name, nil
		}
	}

	return "", errNoComposerNamespace
}

// WorkerPod returns the first running Airflow worker pod in the namespace.
func (m *Manager) WorkerPod(namespace string) (*corev1.Pod, error) {
	return m.findPod(namespace, workerMarker, errNoWorkerPod)
}

// SQLProxyPod returns the pod fronting the environment's metadata database.
func (m *Manager) SQLProxyPod(namespace string) (*corev1.Pod, error) {
	return m.findPod(namespace, sqlProxyMarker, errNoSQLProxyPod)
}

func (m *Manager) findPod(namespace, marker string, notFound error) (*corev1.Pod, error) {
	pods := &corev1.PodList{}
	if err := m.client.List(context.TODO(), pods, client.InNamespace(namespace)); err != nil {
		return nil, err
	}

	for i := range pods.Items {
		pod := &pods.Items[i]
		if strings.Contains(pod.Name, marker) && pod.Status.Phase == corev1.PodRunning {
			return pod, nil
		}
	}

	return nil, notFound
}
