package kubernetes

import (
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/util/homedir"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// KubeconfigPathKey is the custom credential field holding the kubeconfig path.
const KubeconfigPathKey = "kubeconfig_path"

// defaultKubeconfigs are tried in order, relative to the home directory.
var defaultKubeconfigs = []string{
	filepath.Join(".kube", "microk8s-config"),
	filepath.Join(".kube", "config"),
}

// ResolveKubeconfig picks the kubeconfig for an integration: the explicit
// kubeconfig_path custom field, else the first default file that exists.
// An explicit path must exist.
func ResolveKubeconfig(custom map[string]string) (string, error) {
	if p := strings.TrimSpace(custom[KubeconfigPathKey]); p != "" {
		path := ExpandHome(p)
		if _, err := os.Stat(path); err != nil {
			return "", integrations.ConfigError("Kubeconfig file not found: %s", path)
		}
		return path, nil
	}

	home := homedir.HomeDir()
	if home != "" {
		for _, rel := range defaultKubeconfigs {
			path := filepath.Join(home, rel)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", integrations.ConfigError("Kubernetes integration requires a kubeconfig_path in custom fields or default kubeconfig file")
}

// ExpandHome replaces a leading "~" with the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := homedir.HomeDir()
	if home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
