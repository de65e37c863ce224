package dto

// Health status values reported by the probe endpoints.
const (
	HealthAlive    = "ok"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
	CheckPassing   = "ok"
	CheckFailing   = "failing"
)

// HealthResponse is the body of GET /health/live and GET /health/ready.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one backend check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ToHealthResponse folds registry results into a readiness body. The second
// return value is false when any backend failed.
func ToHealthResponse(results map[string]error) (HealthResponse, bool) {
	resp := HealthResponse{
		Status: HealthReady,
		Checks: make(map[string]CheckResult, len(results)),
	}
	ready := true
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = CheckResult{Status: CheckFailing, Error: err.Error()}
			ready = false
			continue
		}
		resp.Checks[name] = CheckResult{Status: CheckPassing}
	}
	if !ready {
		resp.Status = HealthNotReady
	}
	return resp, ready
}
