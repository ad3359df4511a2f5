package modbus

import (
	"fmt"
	"math"

	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/models"
)

// decodeStatus converts the raw status register block into a Status.
func decodeStatus(address string, regs []uint16) (models.Status, error) {
	if len(regs) < midas.StatusBlockLength {
		return models.Status{}, fmt.Errorf("short status block: %d registers, want %d",
			len(regs), midas.StatusBlockLength)
	}

	status := models.Status{
		Address:   address,
		Connected: true,
	}

	status.Concentration = roundTo(float64(registerFloat(
		regs[midas.RegConcentrationHigh], regs[midas.RegConcentrationLow])), 4)

	status.State = models.MonitorState(regs[midas.RegStateAlarm] >> 8)
	if status.State.String() == "Unknown" {
		return models.Status{}, fmt.Errorf("unknown monitor state %d", regs[midas.RegStateAlarm]>>8)
	}
	status.Alarm = models.AlarmLevel(regs[midas.RegStateAlarm] & 0xff)

	status.Fault = decodeFault(regs[midas.RegFault])
	status.Unit = models.ConcentrationUnit(regs[midas.RegUnits])
	status.Temperature = int(int16(regs[midas.RegTemperature]))
	status.CellLife = float64(regs[midas.RegCellLife]) / 10
	status.Flow = int(regs[midas.RegFlow])

	status.LowAlarmThreshold = roundTo(float64(registerFloat(
		regs[midas.RegLowAlarmHigh], regs[midas.RegLowAlarmLow])), 4)
	status.HighAlarmThreshold = roundTo(float64(registerFloat(
		regs[midas.RegHighAlarmHigh], regs[midas.RegHighAlarmLow])), 4)

	status.Uptime = uint32(regs[midas.RegUptimeHigh])<<16 | uint32(regs[midas.RegUptimeLow])

	status.Normalize()
	return status, nil
}

// decodeFault builds the fault code string from the fault register:
// high byte selects the fault family, low byte the number within it.
func decodeFault(reg uint16) models.Fault {
	fault := models.Fault{Status: models.FaultStatus(reg >> 8)}
	number := reg & 0xff
	switch fault.Status {
	case models.FaultMaintenance:
		fault.Code = fmt.Sprintf("m%02d", number)
	case models.FaultInstrument:
		fault.Code = fmt.Sprintf("F%02d", number)
	default:
		fault.Status = models.FaultNone
	}
	return fault
}

// registerFloat reassembles an IEEE 754 float stored across two
// registers, high word first.
func registerFloat(high, low uint16) float32 {
	return math.Float32frombits(uint32(high)<<16 | uint32(low))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
