package config

import (
	"time"
)

// Config is the full tuning surface of the engine. Every table the scorers
// consult lives here so it can be loaded from YAML and tested in isolation.
type Config struct {
	Risk       RiskConfig       `yaml:"risk" json:"risk"`
	Weights    Weights          `yaml:"weights" json:"weights"`
	Business   BusinessConfig   `yaml:"business" json:"business"`
	ROI        ROIConfig        `yaml:"roi" json:"roi"`
	Timing     TimingConfig     `yaml:"timing" json:"timing"`
	Coverage   CoverageConfig   `yaml:"coverage" json:"coverage"`
	Regression RegressionConfig `yaml:"regression" json:"regression"`
	Context    BatchContext     `yaml:"context" json:"context"`
	Schedule   ScheduleConfig   `yaml:"schedule" json:"schedule"`
	Stats      StatsConfig      `yaml:"stats" json:"stats"`
	Advisor    AdvisorConfig    `yaml:"advisor" json:"advisor"`
	Execution  ExecutionConfig  `yaml:"execution" json:"execution"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" json:"telemetry"`
}

// Triple is a severity/occurrence/detection FMEA factor set.
type Triple struct {
	Severity   float64 `yaml:"severity" json:"severity"`
	Occurrence float64 `yaml:"occurrence" json:"occurrence"`
	Detection  float64 `yaml:"detection" json:"detection"`
}

// RPN returns severity × occurrence × detection.
func (t Triple) RPN() float64 {
	return t.Severity * t.Occurrence * t.Detection
}

// RiskConfig drives the heuristic RiskScorer.
type RiskConfig struct {
	// PriorityTable maps a priority hint to its heuristic triple.
	PriorityTable map[string]Triple `yaml:"priority_table" json:"priority_table"`

	// UserRequirementTags mark scenarios that trace a direct user requirement.
	UserRequirementTags []string `yaml:"user_requirement_tags" json:"user_requirement_tags"`

	// Historical failure-rate thresholds (strict) and their occurrence bumps.
	FailureRateSevere   float64 `yaml:"failure_rate_severe" json:"failure_rate_severe"`
	SevereBump          float64 `yaml:"severe_bump" json:"severe_bump"`
	FailureRateElevated float64 `yaml:"failure_rate_elevated" json:"failure_rate_elevated"`
	ElevatedBump        float64 `yaml:"elevated_bump" json:"elevated_bump"`
}

// Weights are the composite-score weights plus the normalisation constants
// the Prioritizer applies to each signal.
type Weights struct {
	Risk       float64 `yaml:"risk" json:"risk"`
	Business   float64 `yaml:"business" json:"business"`
	ROI        float64 `yaml:"roi" json:"roi"`
	Coverage   float64 `yaml:"coverage" json:"coverage"`
	Regression float64 `yaml:"regression" json:"regression"`
	Success    float64 `yaml:"success" json:"success"`

	ROICeiling         float64 `yaml:"roi_ceiling" json:"roi_ceiling"`
	CoverageCeiling    float64 `yaml:"coverage_ceiling" json:"coverage_ceiling"`
	DefaultSuccessRate float64 `yaml:"default_success_rate" json:"default_success_rate"`
	ComplianceOverride float64 `yaml:"compliance_override" json:"compliance_override"`
}

// Sum returns the total of the six composite weights.
func (w Weights) Sum() float64 {
	return w.Risk + w.Business + w.ROI + w.Coverage + w.Regression + w.Success
}

// BusinessConfig drives the BusinessValueScorer.
type BusinessConfig struct {
	RevenueWeights       map[string]float64 `yaml:"revenue_weights" json:"revenue_weights"`
	DefaultRevenueWeight float64            `yaml:"default_revenue_weight" json:"default_revenue_weight"`
	UserBaseline         float64            `yaml:"user_baseline" json:"user_baseline"`
	ComplianceKeywords   []string           `yaml:"compliance_keywords" json:"compliance_keywords"`
	PublicReputation     float64            `yaml:"public_reputation" json:"public_reputation"`
	InternalReputation   float64            `yaml:"internal_reputation" json:"internal_reputation"`
}

// ROIConfig drives the ROIEstimator.
type ROIConfig struct {
	HourlyBugCost        map[string]float64 `yaml:"hourly_bug_cost" json:"hourly_bug_cost"`
	DefaultHourlyBugCost float64            `yaml:"default_hourly_bug_cost" json:"default_hourly_bug_cost"`
	DetectionFloor       float64            `yaml:"detection_floor" json:"detection_floor"`
	DevelopmentCost      float64            `yaml:"development_cost" json:"development_cost"`
	ExecutionCost        float64            `yaml:"execution_cost" json:"execution_cost"`
	MaintenanceCost      float64            `yaml:"maintenance_cost" json:"maintenance_cost"`
	HorizonDays          float64            `yaml:"horizon_days" json:"horizon_days"`
}

// TestCost is the flat development + execution + maintenance cost.
func (r ROIConfig) TestCost() float64 {
	return r.DevelopmentCost + r.ExecutionCost + r.MaintenanceCost
}

// ActionCost prices one kind of UI action found in scenario text.
type ActionCost struct {
	Name     string   `yaml:"name" json:"name"`
	Seconds  float64  `yaml:"seconds" json:"seconds"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// TimingConfig drives the ExecutionTimeEstimator.
type TimingConfig struct {
	Actions         []ActionCost `yaml:"actions" json:"actions"`
	BaseSeconds     float64      `yaml:"base_seconds" json:"base_seconds"`
	FlakinessBuffer float64      `yaml:"flakiness_buffer" json:"flakiness_buffer"`
	FastBelow       float64      `yaml:"fast_below" json:"fast_below"`
	MediumBelow     float64      `yaml:"medium_below" json:"medium_below"`
}

// CoverageConfig drives the CoverageImpactAnalyzer.
type CoverageConfig struct {
	HighImpactCategories   []string `yaml:"high_impact_categories" json:"high_impact_categories"`
	HighImpactDelta        float64  `yaml:"high_impact_delta" json:"high_impact_delta"`
	MediumImpactCategories []string `yaml:"medium_impact_categories" json:"medium_impact_categories"`
	MediumImpactDelta      float64  `yaml:"medium_impact_delta" json:"medium_impact_delta"`
	DefaultDelta           float64  `yaml:"default_delta" json:"default_delta"`
	NewCodeThreshold       float64  `yaml:"new_code_threshold" json:"new_code_threshold"`
	GapHighBelow           float64  `yaml:"gap_high_below" json:"gap_high_below"`
	GapMediumBelow         float64  `yaml:"gap_medium_below" json:"gap_medium_below"`
}

// RegressionProfile is the churn/recency placeholder for one category.
type RegressionProfile struct {
	ChurnScore          float64 `yaml:"churn_score" json:"churn_score"`
	RecentChanges       int     `yaml:"recent_changes" json:"recent_changes"`
	DaysSinceLastChange int     `yaml:"days_since_last_change" json:"days_since_last_change"`
}

// RegressionConfig drives the RegressionRiskAnalyzer.
type RegressionConfig struct {
	Profiles map[string]RegressionProfile `yaml:"profiles" json:"profiles"`
	Default  RegressionProfile            `yaml:"default" json:"default"`
}

// BatchContext describes the application under test for the whole batch.
type BatchContext struct {
	UserCount       int     `yaml:"user_count" json:"user_count"`
	Public          bool    `yaml:"public" json:"public"`
	CurrentCoverage float64 `yaml:"current_coverage" json:"current_coverage"`
}

// ScheduleConfig drives the ScheduleBuilder.
type ScheduleConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// StatsConfig points at an optional historical stats file.
type StatsConfig struct {
	File string `yaml:"file" json:"file"`
}

// AdvisorConfig configures the optional risk advisor.
type AdvisorConfig struct {
	HintsFile string        `yaml:"hints_file" json:"hints_file"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// ExecutionConfig configures optional real execution of top-ranked scenarios.
type ExecutionConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	TopN      int           `yaml:"top_n" json:"top_n"`
	BatchSize int           `yaml:"batch_size" json:"batch_size"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	Command   []string      `yaml:"command" json:"command"`
}

// LoggingConfig configures internal/log.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" json:"enabled"`
	Endpoint   string  `yaml:"endpoint" json:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}
