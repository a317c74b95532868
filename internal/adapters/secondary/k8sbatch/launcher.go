package k8sbatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"entity-linking-service/internal/config"
	ports "entity-linking-service/internal/core/ports/output"
)

var jobGVR = schema.GroupVersionResource{
	Group:    "batch",
	Version:  "v1",
	Resource: "jobs",
}

type launcher struct {
	client    dynamic.Interface
	enabled   bool
	defaultNS string
	image     string
}

// NewLauncher creates a batch Job launcher for the external trainer image.
func NewLauncher(cfg *config.KubernetesConfig) (ports.JobLauncher, error) {
	if !cfg.Enabled {
		return &launcher{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	defaultNS := cfg.Namespace
	if defaultNS == "" {
		defaultNS = "entity-linking"
	}

	return &launcher{
		client:    client,
		enabled:   true,
		defaultNS: defaultNS,
		image:     cfg.TrainerImage,
	}, nil
}

func (l *launcher) IsAvailable() bool {
	return l.enabled
}

func (l *launcher) Launch(ctx context.Context, spec ports.BatchJobSpec) (string, error) {
	namespace := spec.Namespace
	if namespace == "" {
		namespace = l.defaultNS
	}

	obj := l.buildJobCR(spec)

	created, err := l.client.Resource(jobGVR).
		Namespace(namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("create batch job: %w", err)
	}

	return created.GetName(), nil
}

func (l *launcher) Status(ctx context.Context, namespace, externalID string) (*ports.JobStatus, error) {
	if namespace == "" {
		namespace = l.defaultNS
	}

	obj, err := l.client.Resource(jobGVR).
		Namespace(namespace).
		Get(ctx, externalID, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("get batch job: %w", err)
	}

	return parseStatus(obj), nil
}

func (l *launcher) Cancel(ctx context.Context, namespace, externalID string) error {
	if namespace == "" {
		namespace = l.defaultNS
	}

	propagation := metav1.DeletePropagationBackground
	err := l.client.Resource(jobGVR).
		Namespace(namespace).
		Delete(ctx, externalID, metav1.DeleteOptions{PropagationPolicy: &propagation})
	if err != nil {
		return fmt.Errorf("delete batch job: %w", err)
	}
	return nil
}

func (l *launcher) buildJobCR(spec ports.BatchJobSpec) *unstructured.Unstructured {
	resources := map[string]interface{}{}
	limits := map[string]interface{}{}
	requests := map[string]interface{}{}

	if spec.GPUs > 0 {
		limits["nvidia.com/gpu"] = fmt.Sprintf("%d", spec.GPUs)
	}
	if spec.CPUMillis > 0 {
		requests["cpu"] = fmt.Sprintf("%dm", spec.CPUMillis)
	}
	if spec.MemoryMB > 0 {
		requests["memory"] = fmt.Sprintf("%dMi", spec.MemoryMB)
	}
	if len(limits) > 0 {
		resources["limits"] = limits
	}
	if len(requests) > 0 {
		resources["requests"] = requests
	}

	args := make([]interface{}, len(spec.Args))
	for i, a := range spec.Args {
		args[i] = a
	}

	container := map[string]interface{}{
		"name":  "trainer",
		"image": l.image,
		"args":  args,
	}
	if spec.WorkingDir != "" {
		container["workingDir"] = spec.WorkingDir
	}
	if len(resources) > 0 {
		container["resources"] = resources
	}
	if len(spec.Env) > 0 {
		env := make([]interface{}, 0, len(spec.Env))
		for k, v := range spec.Env {
			env = append(env, map[string]interface{}{"name": k, "value": v})
		}
		container["env"] = env
	}

	podSpec := map[string]interface{}{
		"restartPolicy": "Never",
		"containers":    []interface{}{container},
	}
	if len(spec.NodeLabels) > 0 {
		selector := map[string]interface{}{}
		for k, v := range spec.NodeLabels {
			selector[k] = v
		}
		podSpec["nodeSelector"] = selector
	}

	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "batch/v1",
			"kind":       "Job",
			"metadata": map[string]interface{}{
				"name": spec.Name,
				"labels": map[string]interface{}{
					"entitylinking.ai-platform/job": spec.Name,
				},
			},
			"spec": map[string]interface{}{
				// One shot: a failed trainer is diagnosed, not retried.
				"backoffLimit": int64(0),
				"template": map[string]interface{}{
					"spec": podSpec,
				},
			},
		},
	}
}

func parseStatus(obj *unstructured.Unstructured) *ports.JobStatus {
	status := &ports.JobStatus{Phase: ports.JobPhaseUnknown}

	conditions, found, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if found {
		for _, c := range conditions {
			cond, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			condType, _ := cond["type"].(string)
			condStatus, _ := cond["status"].(string)
			if condStatus != "True" {
				continue
			}
			switch condType {
			case "Complete":
				status.Phase = ports.JobPhaseSucceeded
				return status
			case "Failed":
				status.Phase = ports.JobPhaseFailed
				if msg, ok := cond["message"].(string); ok {
					status.Message = msg
				}
				return status
			}
		}
	}

	if active, found, _ := unstructured.NestedInt64(obj.Object, "status", "active"); found && active > 0 {
		status.Phase = ports.JobPhaseRunning
		return status
	}
	status.Phase = ports.JobPhasePending
	return status
}
