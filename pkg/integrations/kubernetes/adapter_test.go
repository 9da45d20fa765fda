package kubernetes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/client-go/kubernetes/fake"
	ktesting "k8s.io/client-go/testing"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

func TestAdapter_FetchNamespaces(t *testing.T) {
	created := metav1.NewTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	client := fake.NewSimpleClientset(
		&corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{Name: "prod", CreationTimestamp: created},
			Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceActive},
		},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "bare"}},
	)

	namespaces, err := NewWithClientset(client, "/tmp/kubeconfig").FetchNamespaces(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []Namespace{
		{Name: "prod", Status: "Active", CreatedAt: "2024-03-01T12:00:00Z"},
		{Name: "bare", Status: "Unknown", CreatedAt: "Unknown"},
	}, namespaces)
}

func TestPodStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   corev1.PodStatus
		expected string
	}{
		{name: "phase wins", status: corev1.PodStatus{Phase: corev1.PodRunning}, expected: "Running"},
		{
			name: "waiting container",
			status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
				{State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
				{State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"}}},
			}},
			expected: "Pending",
		},
		{
			name: "first non-running container decides",
			status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
				{State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{}}},
				{State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"}}},
			}},
			expected: "Terminated",
		},
		{
			name: "waiting before terminated",
			status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
				{State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{}}},
				{State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{}}},
			}},
			expected: "Pending",
		},
		{
			name: "terminated container",
			status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
				{State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{ExitCode: 1}}},
			}},
			expected: "Terminated",
		},
		{name: "nothing known", status: corev1.PodStatus{}, expected: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PodStatus(&corev1.Pod{Status: tt.status}))
		})
	}
}

func TestAdapter_FetchPods(t *testing.T) {
	client := fake.NewSimpleClientset(
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "api-0", Namespace: "prod"},
			Spec: corev1.PodSpec{
				NodeName:   "node-a",
				Containers: []corev1.Container{{Name: "api"}, {Name: "sidecar"}},
			},
			Status: corev1.PodStatus{Phase: corev1.PodRunning},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "other", Namespace: "dev"},
		},
	)

	pods, err := NewWithClientset(client, "").FetchPods(context.Background(), "prod")
	require.NoError(t, err)
	require.Len(t, pods, 1)

	pod := pods[0]
	assert.Equal(t, "api-0", pod.Name)
	assert.Equal(t, "prod", pod.Namespace)
	assert.Equal(t, "Running", pod.Status)
	assert.Equal(t, []string{"api", "sidecar"}, pod.Containers)
	require.NotNil(t, pod.Node)
	assert.Equal(t, "node-a", *pod.Node)
}

func TestAdapter_FetchPodDetails(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "api-0", Namespace: "prod"},
	})
	a := NewWithClientset(client, "")

	pod, err := a.FetchPodDetails(context.Background(), "prod", "api-0")
	require.NoError(t, err)
	assert.Equal(t, "api-0", pod.Name)
	assert.Nil(t, pod.Node)

	_, err = a.FetchPodDetails(context.Background(), "prod", "missing")
	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindNotFound, e.Kind)
}

func TestAdapter_FetchServices(t *testing.T) {
	client := fake.NewSimpleClientset(
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "prod"},
			Spec: corev1.ServiceSpec{
				Type: corev1.ServiceTypeLoadBalancer,
				Ports: []corev1.ServicePort{
					{Name: "http", Port: 80, TargetPort: intstr.FromInt32(8080), Protocol: corev1.ProtocolTCP},
					{Port: 53, TargetPort: intstr.FromString("dns"), Protocol: corev1.ProtocolUDP},
					{Port: 9090},
				},
			},
			Status: corev1.ServiceStatus{LoadBalancer: corev1.LoadBalancerStatus{
				Ingress: []corev1.LoadBalancerIngress{{IP: "10.0.0.1"}, {Hostname: "lb.example.com"}},
			}},
		},
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "internal", Namespace: "prod"},
		},
	)

	services, err := NewWithClientset(client, "").FetchServices(context.Background(), "prod")
	require.NoError(t, err)
	require.Len(t, services, 2)

	byName := map[string]Service{}
	for _, s := range services {
		byName[s.Name] = s
	}

	web := byName["web"]
	assert.Equal(t, "LoadBalancer", web.Type)
	require.NotNil(t, web.EndpointCount)
	assert.Equal(t, uint32(2), *web.EndpointCount)
	require.Len(t, web.Ports, 3)

	require.NotNil(t, web.Ports[0].Name)
	assert.Equal(t, "http", *web.Ports[0].Name)
	assert.Equal(t, "8080", *web.Ports[0].TargetPort)

	assert.Nil(t, web.Ports[1].Name)
	assert.Equal(t, "dns", *web.Ports[1].TargetPort)
	assert.Equal(t, "UDP", web.Ports[1].Protocol)

	assert.Nil(t, web.Ports[2].TargetPort)
	assert.Equal(t, "TCP", web.Ports[2].Protocol)

	internal := byName["internal"]
	assert.Equal(t, "ClusterIP", internal.Type)
	assert.Nil(t, internal.EndpointCount)
	assert.Empty(t, internal.Ports)
}

func TestAdapter_ListErrorsAreNetworkErrors(t *testing.T) {
	client := fake.NewSimpleClientset()
	client.PrependReactor("list", "*", func(action ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})
	client.PrependReactor("get", "pods", func(action ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})
	a := NewWithClientset(client, "/k")

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{name: "namespaces", call: func() error { _, err := a.FetchNamespaces(context.Background()); return err }, message: "Failed to list namespaces"},
		{name: "pods", call: func() error { _, err := a.FetchPods(context.Background(), "x"); return err }, message: "Failed to list pods"},
		{name: "services", call: func() error { _, err := a.FetchServices(context.Background(), "x"); return err }, message: "Failed to list services"},
		{name: "pod", call: func() error { _, err := a.FetchPodDetails(context.Background(), "x", "p"); return err }, message: "Failed to get pod"},
		{name: "test connection", call: func() error { return a.TestConnection(context.Background()) }, message: "Failed to list namespaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := integrations.AsError(tt.call())
			require.True(t, ok)
			assert.Equal(t, integrations.KindNetwork, e.Kind)
			assert.Contains(t, e.Message, tt.message)
		})
	}
}

func TestAdapter_Metadata(t *testing.T) {
	a := NewWithClientset(fake.NewSimpleClientset(), "/home/ops/.kube/config")
	assert.Equal(t, "Kubernetes", a.Name())
	assert.Equal(t, integrations.TypeKubernetes, a.Type())
	assert.Equal(t, "/home/ops/.kube/config", a.BaseURL())
}

func TestResolveKubeconfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".kube"), 0o755))

	explicit := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("apiVersion: v1\n"), 0o600))

	t.Run("explicit path", func(t *testing.T) {
		path, err := ResolveKubeconfig(map[string]string{KubeconfigPathKey: explicit})
		require.NoError(t, err)
		assert.Equal(t, explicit, path)
	})

	t.Run("explicit path with tilde", func(t *testing.T) {
		path, err := ResolveKubeconfig(map[string]string{KubeconfigPathKey: "~/custom.yaml"})
		require.NoError(t, err)
		assert.Equal(t, explicit, path)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := ResolveKubeconfig(map[string]string{KubeconfigPathKey: "~/nope.yaml"})
		e, ok := integrations.AsError(err)
		require.True(t, ok)
		assert.Equal(t, integrations.KindConfig, e.Kind)
		assert.Equal(t, "Kubeconfig file not found: "+filepath.Join(home, "nope.yaml"), e.Message)
	})

	t.Run("no defaults present", func(t *testing.T) {
		_, err := ResolveKubeconfig(nil)
		e, ok := integrations.AsError(err)
		require.True(t, ok)
		assert.Contains(t, e.Message, "requires a kubeconfig_path")
	})

	t.Run("falls back to kube config", func(t *testing.T) {
		standard := filepath.Join(home, ".kube", "config")
		require.NoError(t, os.WriteFile(standard, nil, 0o600))
		path, err := ResolveKubeconfig(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, standard, path)
	})

	t.Run("microk8s config preferred", func(t *testing.T) {
		micro := filepath.Join(home, ".kube", "microk8s-config")
		require.NoError(t, os.WriteFile(micro, nil, 0o600))
		path, err := ResolveKubeconfig(map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, micro, path)
	})
}

func TestNew_InvalidKubeconfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o600))

	_, err := New(path)
	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindConfig, e.Kind)
}
