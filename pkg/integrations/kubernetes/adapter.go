// Package kubernetes implements the Kubernetes adapter on top of client-go.
package kubernetes

import (
	"context"
	"time"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8s "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

const (
	requestTimeout = 30 * time.Second
	unknown        = "Unknown"
)

// Adapter reads cluster resources through a kubeconfig file.
type Adapter struct {
	kubeconfig string
	clientset  k8s.Interface
	logger     *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New builds a cluster client from the kubeconfig at path.
func New(path string, opts ...Option) (*Adapter, error) {
	config, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, integrations.ConfigError("Failed to load kubeconfig %s: %v", path, err)
	}
	config.Timeout = requestTimeout

	clientset, err := k8s.NewForConfig(config)
	if err != nil {
		return nil, integrations.ConfigError("Failed to create Kubernetes client: %v", err)
	}
	return NewWithClientset(clientset, path, opts...), nil
}

// NewWithClientset wraps an existing clientset. path is reported by BaseURL.
func NewWithClientset(clientset k8s.Interface, path string, opts ...Option) *Adapter {
	a := &Adapter{
		kubeconfig: path,
		clientset:  clientset,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Name() string { return "Kubernetes" }

func (a *Adapter) Type() integrations.IntegrationType { return integrations.TypeKubernetes }

// BaseURL returns the kubeconfig path the adapter was built from.
func (a *Adapter) BaseURL() string { return a.kubeconfig }

// TestConnection lists namespaces.
func (a *Adapter) TestConnection(ctx context.Context) error {
	_, err := a.FetchNamespaces(ctx)
	return err
}

func (a *Adapter) FetchNamespaces(ctx context.Context) ([]Namespace, error) {
	list, err := a.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		a.logger.Error("Failed to list namespaces", zap.Error(err))
		return nil, integrations.NetworkError("Failed to list namespaces: %v", err)
	}

	namespaces := make([]Namespace, 0, len(list.Items))
	for _, ns := range list.Items {
		status := string(ns.Status.Phase)
		if status == "" {
			status = unknown
		}
		namespaces = append(namespaces, Namespace{
			Name:      ns.Name,
			Status:    status,
			CreatedAt: formatTime(ns.CreationTimestamp),
		})
	}
	return namespaces, nil
}

func (a *Adapter) FetchPods(ctx context.Context, namespace string) ([]Pod, error) {
	list, err := a.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		a.logger.Error("Failed to list pods", zap.String("namespace", namespace), zap.Error(err))
		return nil, integrations.NetworkError("Failed to list pods: %v", err)
	}

	pods := make([]Pod, 0, len(list.Items))
	for i := range list.Items {
		pods = append(pods, toPod(&list.Items[i]))
	}
	return pods, nil
}

// FetchPodDetails returns one pod, or NotFound when it does not exist.
func (a *Adapter) FetchPodDetails(ctx context.Context, namespace, name string) (*Pod, error) {
	pod, err := a.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, integrations.NotFound()
		}
		a.logger.Error("Failed to get pod", zap.String("namespace", namespace), zap.String("pod", name), zap.Error(err))
		return nil, integrations.NetworkError("Failed to get pod: %v", err)
	}
	p := toPod(pod)
	return &p, nil
}

func (a *Adapter) FetchServices(ctx context.Context, namespace string) ([]Service, error) {
	list, err := a.clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		a.logger.Error("Failed to list services", zap.String("namespace", namespace), zap.Error(err))
		return nil, integrations.NetworkError("Failed to list services: %v", err)
	}

	services := make([]Service, 0, len(list.Items))
	for i := range list.Items {
		services = append(services, toService(&list.Items[i]))
	}
	return services, nil
}

func toPod(pod *corev1.Pod) Pod {
	containers := make([]string, 0, len(pod.Spec.Containers))
	for _, c := range pod.Spec.Containers {
		containers = append(containers, c.Name)
	}

	var node *string
	if pod.Spec.NodeName != "" {
		n := pod.Spec.NodeName
		node = &n
	}

	return Pod{
		Name:       pod.Name,
		Namespace:  pod.Namespace,
		Status:     PodStatus(pod),
		Containers: containers,
		Node:       node,
	}
}

// PodStatus is the pod phase, or when the phase is unset, the state of the
// first container that is waiting or terminated.
func PodStatus(pod *corev1.Pod) string {
	if pod.Status.Phase != "" {
		return string(pod.Status.Phase)
	}
	for _, cs := range pod.Status.ContainerStatuses {
		switch {
		case cs.State.Waiting != nil:
			return "Pending"
		case cs.State.Terminated != nil:
			return "Terminated"
		}
	}
	return unknown
}

func toService(svc *corev1.Service) Service {
	serviceType := string(svc.Spec.Type)
	if serviceType == "" {
		serviceType = string(corev1.ServiceTypeClusterIP)
	}

	ports := make([]ServicePort, 0, len(svc.Spec.Ports))
	for _, p := range svc.Spec.Ports {
		ports = append(ports, toServicePort(p))
	}

	var endpoints *uint32
	if ingress := svc.Status.LoadBalancer.Ingress; ingress != nil {
		n := uint32(len(ingress))
		endpoints = &n
	}

	return Service{
		Name:          svc.Name,
		Namespace:     svc.Namespace,
		Type:          serviceType,
		Ports:         ports,
		EndpointCount: endpoints,
	}
}

func toServicePort(p corev1.ServicePort) ServicePort {
	port := ServicePort{
		Port:     p.Port,
		Protocol: string(p.Protocol),
	}
	if port.Protocol == "" {
		port.Protocol = string(corev1.ProtocolTCP)
	}
	if p.Name != "" {
		name := p.Name
		port.Name = &name
	}
	// An unset target port decodes to the integer zero.
	if p.TargetPort.String() != "0" {
		target := p.TargetPort.String()
		port.TargetPort = &target
	}
	return port
}

func formatTime(t metav1.Time) string {
	if t.IsZero() {
		return unknown
	}
	return t.UTC().Format(time.RFC3339)
}
