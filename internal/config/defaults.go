package config

import "time"

// DefaultPath is where the CLI looks for a configuration file.
const DefaultPath = ".testrank/config.yaml"

// Default returns the built-in tables.
func Default() *Config {
	return &Config{
		Risk: RiskConfig{
			PriorityTable: map[string]Triple{
				"critical": {Severity: 5, Occurrence: 4, Detection: 5},
				"high":     {Severity: 4, Occurrence: 3, Detection: 4},
				"medium":   {Severity: 3, Occurrence: 2, Detection: 3},
				"low":      {Severity: 2, Occurrence: 1, Detection: 2},
			},
			UserRequirementTags: []string{"user-requirement", "user_requirement"},
			FailureRateSevere:   0.5,
			SevereBump:          1,
			FailureRateElevated: 0.3,
			ElevatedBump:        0.5,
		},
		Weights: Weights{
			Risk:               0.25,
			Business:           0.25,
			ROI:                0.20,
			Coverage:           0.15,
			Regression:         0.10,
			Success:            0.05,
			ROICeiling:         50,
			CoverageCeiling:    0.2,
			DefaultSuccessRate: 0.85,
			ComplianceOverride: 0.8,
		},
		Business: BusinessConfig{
			RevenueWeights: map[string]float64{
				"checkout":       1.0,
				"payment":        1.0,
				"cart":           0.9,
				"authentication": 0.8,
				"login":          0.8,
				"signup":         0.8,
				"security":       0.7,
				"search":         0.6,
				"profile":        0.4,
				"navigation":     0.3,
				"ui":             0.2,
			},
			DefaultRevenueWeight: 0.5,
			UserBaseline:         10000,
			ComplianceKeywords:   []string{"compliance", "gdpr", "privacy", "pci", "hipaa", "payment", "audit", "legal", "consent"},
			PublicReputation:     0.9,
			InternalReputation:   0.3,
		},
		ROI: ROIConfig{
			HourlyBugCost: map[string]float64{
				"payment":        500,
				"checkout":       400,
				"security":       350,
				"authentication": 300,
				"functional":     150,
				"ui":             60,
			},
			DefaultHourlyBugCost: 150,
			DetectionFloor:       0.5,
			DevelopmentCost:      60,
			ExecutionCost:        5,
			MaintenanceCost:      25,
			HorizonDays:          30,
		},
		Timing: TimingConfig{
			Actions: []ActionCost{
				{Name: "navigation", Seconds: 3, Keywords: []string{"navigate", "go to", "open", "visit", "load"}},
				{Name: "click", Seconds: 1, Keywords: []string{"click", "press", "tap", "select", "submit"}},
				{Name: "type", Seconds: 2, Keywords: []string{"type", "enter", "fill", "input"}},
				{Name: "wait", Seconds: 5, Keywords: []string{"wait", "until", "loading"}},
				{Name: "assertion", Seconds: 1, Keywords: []string{"verify", "assert", "check", "should", "expect", "see"}},
			},
			BaseSeconds:     10,
			FlakinessBuffer: 1.2,
			FastBelow:       30,
			MediumBelow:     120,
		},
		Coverage: CoverageConfig{
			HighImpactCategories:   []string{"security", "critical"},
			HighImpactDelta:        0.15,
			MediumImpactCategories: []string{"functional"},
			MediumImpactDelta:      0.10,
			DefaultDelta:           0.05,
			NewCodeThreshold:       0.10,
			GapHighBelow:           0.5,
			GapMediumBelow:         0.8,
		},
		Regression: RegressionConfig{
			Profiles: map[string]RegressionProfile{
				"security":   {ChurnScore: 0.8, RecentChanges: 5, DaysSinceLastChange: 3},
				"critical":   {ChurnScore: 0.8, RecentChanges: 5, DaysSinceLastChange: 3},
				"functional": {ChurnScore: 0.5, RecentChanges: 3, DaysSinceLastChange: 7},
			},
			Default: RegressionProfile{ChurnScore: 0.3, RecentChanges: 1, DaysSinceLastChange: 30},
		},
		Context: BatchContext{
			UserCount:       1000,
			Public:          true,
			CurrentCoverage: 0.6,
		},
		Schedule: ScheduleConfig{Workers: 3},
		Advisor:  AdvisorConfig{Timeout: 10 * time.Second},
		Execution: ExecutionConfig{
			TopN:      5,
			BatchSize: 3,
			Timeout:   2 * time.Minute,
		},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Telemetry: TelemetryConfig{SampleRate: 1.0},
	}
}
