package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/piwi3910/RollCut/internal/model"
)

// SysInfo describes the machine a plan was computed on.
type SysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	Memory   string `json:"memory"`
}

// CollectSysInfo queries the host. Fields that cannot be read stay empty.
func CollectSysInfo() SysInfo {
	var info SysInfo
	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.Memory = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}
	return info
}

// Report is the JSON document written by ExportJSON.
type Report struct {
	Plan      model.CutPlan `json:"plan"`
	RollsUsed int           `json:"rolls_used"`
	Waste     float64       `json:"waste"`
	System    *SysInfo      `json:"system,omitempty"`
}

func NewReport(plan model.CutPlan, sys *SysInfo) Report {
	return Report{
		Plan:      plan,
		RollsUsed: len(plan.Rolls),
		Waste:     plan.TotalWaste(),
		System:    sys,
	}
}

// ExportJSON writes the report as indented JSON.
func ExportJSON(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
