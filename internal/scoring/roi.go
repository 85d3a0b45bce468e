package scoring

import (
	"math"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/risk"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// NoBreakEven is reported when a test never pays for itself.
const NoBreakEven = 999.0

// ROIEstimate compares the expected value of the bugs a test catches with
// what the test costs to build and run.
type ROIEstimate struct {
	ROI               float64 `json:"roi" yaml:"roi"`
	BugDetectionValue float64 `json:"bug_detection_value" yaml:"bug_detection_value"`
	TestCost          float64 `json:"test_cost" yaml:"test_cost"`
	BreakEvenDays     float64 `json:"break_even_days" yaml:"break_even_days"`
}

// EstimateROI derives the return on investment from the scenario's risk
// factors and the category's bug history.
func EstimateROI(s scenario.Scenario, a risk.Assessment, history risk.CategoryStats, cfg config.ROIConfig) ROIEstimate {
	occurrence := a.Occurrence / risk.MaxFactor
	detectionRate := math.Max(cfg.DetectionFloor, (risk.MaxFactor+1-a.Detection)/risk.MaxFactor)

	hourly, ok := config.LookupCategory(cfg.HourlyBugCost, s.Category)
	if !ok {
		hourly = cfg.DefaultHourlyBugCost
	}
	fixHours := history.AvgFixTime.Hours()
	if fixHours <= 0 {
		fixHours = risk.DefaultAvgFixTime.Hours()
	}
	bugCost := hourly * fixHours * (1 + history.BugFrequency)

	value := occurrence * detectionRate * bugCost
	cost := cfg.TestCost()

	est := ROIEstimate{
		BugDetectionValue: value,
		TestCost:          cost,
		BreakEvenDays:     NoBreakEven,
	}
	if cost > 0 {
		est.ROI = (value - cost) / cost
	}
	if value > 0 && cfg.HorizonDays > 0 {
		est.BreakEvenDays = cost / (value / cfg.HorizonDays)
	}
	return est
}
