package integrations

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the integration command routes under router,
// which is expected to be the /api/v1 group.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	group := router.Group("/integrations")

	group.Get("/status", handler.Status)
	group.Post("/:id/test", handler.TestConnection)

	group.Get("/:id/gitlab/projects", handler.GitLabProjects)
	group.Get("/:id/gitlab/projects/:project/pipelines", handler.GitLabPipelines)
	group.Post("/:id/gitlab/projects/:project/pipelines", handler.GitLabTriggerPipeline)
	group.Get("/:id/gitlab/projects/:project/hooks", handler.GitLabWebhooks)

	group.Get("/:id/jenkins/jobs", handler.JenkinsJobs)
	group.Get("/:id/jenkins/builds", handler.JenkinsBuilds)
	group.Post("/:id/jenkins/builds", handler.JenkinsTriggerBuild)
	group.Get("/:id/jenkins/builds/:number", handler.JenkinsBuildDetails)

	group.Get("/:id/keycloak/realms", handler.KeycloakRealms)
	group.Get("/:id/keycloak/realms/:realm/clients", handler.KeycloakClients)

	group.Get("/:id/kubernetes/namespaces", handler.KubernetesNamespaces)
	group.Get("/:id/kubernetes/namespaces/:ns/pods", handler.KubernetesPods)
	group.Get("/:id/kubernetes/namespaces/:ns/pods/:pod", handler.KubernetesPodDetails)
	group.Get("/:id/kubernetes/namespaces/:ns/services", handler.KubernetesServices)

	group.Get("/:id/sonarqube/projects", handler.SonarQubeProjects)
	group.Get("/:id/sonarqube/projects/:key/metrics", handler.SonarQubeMetrics)
}
