package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string        `json:"status"` // healthy, degraded
	Snapshot *SnapshotInfo `json:"snapshot,omitempty"`
}

// SnapshotInfo describes the dataset snapshot currently being served.
type SnapshotInfo struct {
	ID       string `json:"id"`
	Records  int    `json:"records"`
	LoadedAt string `json:"loadedAt"`
}

// EngineMetrics is returned by GET /v1/metrics/engine.
type EngineMetrics struct {
	TotalRequests   int64   `json:"totalRequests"`
	ErrorRate       float64 `json:"errorRate"`
	CacheHitRate    float64 `json:"cacheHitRate"`
	SnapshotReloads int64   `json:"snapshotReloads"`
	Period          string  `json:"period"`
}
