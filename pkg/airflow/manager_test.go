package airflow

import (
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func namespace(name string) *corev1.Namespace {
	return &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}
}

func pod(namespace, name string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func TestComposerNamespace(t *testing.T) {
	require := require.New(t)

	client := fake.NewClientBuilder().WithObjects(
		namespace("default"),
		namespace("kube-system"),
		namespace("composer-1-17-0-airflow-1-10-15-a1b2c3d4"),
	).Build()

	manager := NewManager(client)
	found, err := manager.ComposerNamespace()
	require.NoError(err)
	require.Equal("composer-1-17-0-airflow-1-10-15-a1b2c3d4", found)
}

func TestComposerNamespaceMissing(t *testing.T) {
	require := require.New(t)

	client := fake.NewClientBuilder().WithObjects(
		namespace("default"),
		namespace("kube-system"),
	).Build()

	manager := NewManager(client)
	_, err := manager.ComposerNamespace()
	require.ErrorIs(err, errNoComposerNamespace)
}

func TestWorkerPodSkipsNotRunning(t *testing.T) {
	require := require.New(t)

	client := fake.NewClientBuilder().WithObjects(
		pod("composer-ns", "airflow-worker-7d9f8c-pending", corev1.PodPending),
		pod("composer-ns", "airflow-scheduler-6b5c4d-x2kfp", corev1.PodRunning),
		pod("composer-ns", "airflow-worker-7d9f8c-x9df2", corev1.PodRunning),
	).Build()

	manager := NewManager(client)
	worker, err := manager.WorkerPod("composer-ns")
	require.NoError(err)
	require.Equal("airflow-worker-7d9f8c-x9df2", worker.Name)
}

func TestWorkerPodOnlyInNamespace(t *testing.T) {
	require := require.New(t)

	client := fake.NewClientBuilder().WithObjects(
		pod("elsewhere", "airflow-worker-7d9f8c-x9df2", corev1.PodRunning),
	).Build()

	manager := NewManager(client)
	_, err := manager.WorkerPod("composer-ns")
	require.ErrorIs(err, errNoWorkerPod)
}

func TestWorkerPodMissing(t *testing.T) {
	require := require.New(t)

	client := fake.NewClientBuilder().WithObjects(
		pod("composer-ns", "airflow-scheduler-6b5c4d-x2kfp", corev1.PodRunning),
	).Build()

	manager := NewManager(client)
	_, err := manager.WorkerPod("composer-ns")
	require.ErrorIs(err, errNoWorkerPod)
}

func TestSQLProxyPod(t *testing.T) {
	require := require.New(t)

	client := fake.NewClientBuilder().WithObjects(
		pod("composer-ns", "airflow-worker-7d9f8c-x9df2", corev1.PodRunning),
		pod("composer-ns", "airflow-sqlproxy-5f6d7e-k3mfl", corev1.PodRunning),
	).Build()

	manager := NewManager(client)
	proxy, err := manager.SQLProxyPod("composer-ns")
	require.NoError(err)
	require.Equal("airflow-sqlproxy-5f6d7e-k3mfl", proxy.Name)
}
