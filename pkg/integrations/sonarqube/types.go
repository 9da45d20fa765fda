package sonarqube

// Project is an analysed SonarQube component.
type Project struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Qualifier string `json:"qualifier"`
}

// Metrics is the flattened quality summary of a project. TechnicalDebt is
// the sqale_index value in minutes, kept as the string SonarQube returns.
type Metrics struct {
	Coverage        *float64 `json:"coverage"`
	Bugs            int      `json:"bugs"`
	Vulnerabilities int      `json:"vulnerabilities"`
	CodeSmells      int      `json:"code_smells"`
	TechnicalDebt   *string  `json:"technical_debt"`
}

// metricKeys are requested from /measures/component in this order.
var metricKeys = []string{"coverage", "bugs", "vulnerabilities", "code_smells", "sqale_index"}

type componentItem struct {
	Key       *string `json:"key"`
	Name      *string `json:"name"`
	Qualifier *string `json:"qualifier"`
}

type searchResponse struct {
	Components *[]componentItem `json:"components"`
}

type measure struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

type measuresResponse struct {
	Component struct {
		Measures *[]measure `json:"measures"`
	} `json:"component"`
}
