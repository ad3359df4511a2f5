package models

// MonitorState is the operating mode reported by the detector.
type MonitorState int

const (
	StateWarmup MonitorState = iota
	StateMonitoring
	StateMonitoringAlarmsInhibited
	StateMonitoringAlarmsFaultsInhibited
	StateMonitoringEveryResponseInhibited
	StateSimulation
	StateBumpTest
	StateLoopCalibration
	StateNonAnalogCalibration
)

var monitorStateNames = []string{
	"Warmup",
	"Monitoring",
	"Monitoring with alarms inhibited",
	"Monitoring with alarms and faults inhibited",
	"Monitoring with every response inhibited",
	"Alarm or fault simulation",
	"Bump test mode",
	"4-20 mA loop calibration mode",
	"Non-analog calibration mode",
}

func (s MonitorState) String() string {
	if s < 0 || int(s) >= len(monitorStateNames) {
		return "Unknown"
	}
	return monitorStateNames[s]
}

// AlarmLevel reports which concentration alarm is active, if any.
type AlarmLevel int

const (
	AlarmNone AlarmLevel = iota
	AlarmLow
	AlarmHigh
)

func (a AlarmLevel) String() string {
	switch a {
	case AlarmLow:
		return "low"
	case AlarmHigh:
		return "high"
	default:
		return "none"
	}
}

// FaultStatus classifies the active fault, if any. Maintenance faults
// ("m" codes) flag servicing issues; instrument faults ("F" codes) mean
// the detector can no longer monitor gas.
type FaultStatus int

const (
	FaultNone FaultStatus = iota
	FaultMaintenance
	FaultInstrument
)

func (f FaultStatus) String() string {
	switch f {
	case FaultMaintenance:
		return "Maintenance fault"
	case FaultInstrument:
		return "Instrument fault"
	default:
		return "No fault"
	}
}

// ConcentrationUnit is the unit of the gas concentration reading,
// set by the installed sensor cartridge.
type ConcentrationUnit int

const (
	UnitPPM ConcentrationUnit = iota
	UnitPPB
	UnitPercentVolume
	UnitPercentLEL
	UnitMilliamp
)

var unitNames = []string{"ppm", "ppb", "% volume", "% LEL", "mA"}

func (u ConcentrationUnit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "ppm"
	}
	return unitNames[u]
}

// Fault is the active fault reported by the detector, enriched with the
// matching fault-table entry when the code is known.
type Fault struct {
	Status      FaultStatus `json:"-"`
	StatusName  string      `json:"status"`
	Code        string      `json:"code,omitempty"`
	Description string      `json:"description,omitempty"`
	Condition   string      `json:"condition,omitempty"`
	Recovery    string      `json:"recovery,omitempty"`
}

// Status is a full snapshot of the detector state, decoded from one
// read of the status register block.
type Status struct {
	Address            string            `json:"address"`
	Connected          bool              `json:"connected"`
	State              MonitorState      `json:"-"`
	StateName          string            `json:"state"`
	Alarm              AlarmLevel        `json:"-"`
	AlarmName          string            `json:"alarm"`
	Fault              Fault             `json:"fault"`
	Concentration      float64           `json:"concentration"`
	Unit               ConcentrationUnit `json:"-"`
	UnitName           string            `json:"units"`
	Temperature        int               `json:"temperature"`
	Flow               int               `json:"flow"`
	CellLife           float64           `json:"life"`
	LowAlarmThreshold  float64           `json:"low-alarm threshold"`
	HighAlarmThreshold float64           `json:"high-alarm threshold"`
	Uptime             uint32            `json:"hours-of-operation"`
}

// Normalize fills the derived JSON name fields from the enum values.
func (s *Status) Normalize() {
	s.StateName = s.State.String()
	s.AlarmName = s.Alarm.String()
	s.UnitName = s.Unit.String()
	s.Fault.StatusName = s.Fault.Status.String()
	s.Fault.Description = ""
	s.Fault.Condition = ""
	s.Fault.Recovery = ""
	if entry, ok := LookupFault(s.Fault.Code); ok {
		s.Fault.Description = entry.Description
		s.Fault.Condition = entry.Condition
		s.Fault.Recovery = entry.Recovery
	}
}
