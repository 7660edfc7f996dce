package orgapimodels

type MonitorStatsView struct {
	SampleCount       int     `json:"sample_count"`
	AvgResolutionMs   float64 `json:"avg_resolution_ms"`
	MaxResolutionMs   int64   `json:"max_resolution_ms"`
	CacheHitRate      float64 `json:"cache_hit_rate"`
	SlaViolationCount int64   `json:"sla_violation_count"`
	SlaThresholdMs    int64   `json:"sla_threshold_ms"`
}

type AuditEntryView struct {
	ID         string `json:"id"`
	Sequence   int64  `json:"sequence"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	ActionName string `json:"action_name"`
	ObjectType string `json:"object_type"`
	ObjectID   string `json:"object_id"`
	CreatedAt  string `json:"created_at"`
}
