package jenkins

// BuildStatus is the normalized outcome of a build.
type BuildStatus string

const (
	StatusSuccess  BuildStatus = "success"
	StatusFailure  BuildStatus = "failure"
	StatusUnstable BuildStatus = "unstable"
	StatusAborted  BuildStatus = "aborted"
	StatusNotBuilt BuildStatus = "notbuilt"
	StatusBuilding BuildStatus = "building"
	StatusPending  BuildStatus = "pending"
)

// Job is a buildable Jenkins item. Name is the full folder path, e.g.
// "team/service/deploy".
type Job struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

// Build is one run of a job. Timestamp and Duration are milliseconds,
// carried as strings.
type Build struct {
	Number    uint32      `json:"number"`
	Status    BuildStatus `json:"status"`
	Timestamp string      `json:"timestamp"`
	URL       string      `json:"url"`
	Duration  *string     `json:"duration"`
}

type jobItem struct {
	Name  *string `json:"name"`
	URL   *string `json:"url"`
	Color *string `json:"color"`
	Class string  `json:"_class"`
}

type jobList struct {
	Jobs *[]jobItem `json:"jobs"`
}

type buildItem struct {
	Number    *uint32 `json:"number"`
	Result    *string `json:"result"`
	Timestamp *int64  `json:"timestamp"`
	URL       *string `json:"url"`
	Duration  *int64  `json:"duration"`
	Building  *bool   `json:"building"`
}

type buildList struct {
	Builds *[]buildItem `json:"builds"`
}
