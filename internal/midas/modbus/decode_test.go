package modbus

import (
	"math"
	"testing"

	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// floatWords splits a float32 into its high and low register words.
func floatWords(v float32) (uint16, uint16) {
	bits := math.Float32bits(v)
	return uint16(bits >> 16), uint16(bits & 0xffff)
}

func statusBlock() []uint16 {
	regs := make([]uint16, midas.StatusBlockLength)
	regs[midas.RegConcentrationHigh], regs[midas.RegConcentrationLow] = floatWords(1.5)
	regs[midas.RegStateAlarm] = uint16(models.StateMonitoring)<<8 | uint16(models.AlarmLow)
	regs[midas.RegFault] = uint16(models.FaultMaintenance)<<8 | 12
	regs[midas.RegUnits] = uint16(models.UnitPPM)
	regs[midas.RegTemperature] = 25
	regs[midas.RegCellLife] = 875
	regs[midas.RegFlow] = 500
	regs[midas.RegLowAlarmHigh], regs[midas.RegLowAlarmLow] = floatWords(2)
	regs[midas.RegHighAlarmHigh], regs[midas.RegHighAlarmLow] = floatWords(5)
	regs[midas.RegHeartbeat] = 7
	regs[midas.RegUptimeHigh] = uint16(70000 >> 16)
	regs[midas.RegUptimeLow] = uint16(70000 & 0xffff)
	return regs
}

func TestDecodeStatus(t *testing.T) {
	status, err := decodeStatus("192.168.1.100:502", statusBlock())
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.100:502", status.Address)
	assert.True(t, status.Connected)
	assert.Equal(t, "Monitoring", status.StateName)
	assert.Equal(t, "low", status.AlarmName)
	assert.InDelta(t, 1.5, status.Concentration, 1e-9)
	assert.Equal(t, "ppm", status.UnitName)
	assert.Equal(t, 25, status.Temperature)
	assert.InDelta(t, 87.5, status.CellLife, 1e-9)
	assert.Equal(t, 500, status.Flow)
	assert.InDelta(t, 2, status.LowAlarmThreshold, 1e-9)
	assert.InDelta(t, 5, status.HighAlarmThreshold, 1e-9)
	assert.Equal(t, uint32(70000), status.Uptime)

	assert.Equal(t, models.FaultMaintenance, status.Fault.Status)
	assert.Equal(t, "Maintenance fault", status.Fault.StatusName)
	assert.Equal(t, "m12", status.Fault.Code)
	assert.Equal(t, "Sensor life low", status.Fault.Description)
}

func TestDecodeStatusNegativeTemperature(t *testing.T) {
	regs := statusBlock()
	regs[midas.RegTemperature] = uint16(0xFFF6) // -10 as int16

	status, err := decodeStatus("addr", regs)
	require.NoError(t, err)
	assert.Equal(t, -10, status.Temperature)
}

func TestDecodeStatusNoFault(t *testing.T) {
	regs := statusBlock()
	regs[midas.RegFault] = 0

	status, err := decodeStatus("addr", regs)
	require.NoError(t, err)
	assert.Equal(t, models.FaultNone, status.Fault.Status)
	assert.Empty(t, status.Fault.Code)
	assert.Empty(t, status.Fault.Description)
}

func TestDecodeStatusInstrumentFault(t *testing.T) {
	regs := statusBlock()
	regs[midas.RegFault] = uint16(models.FaultInstrument)<<8 | 40

	status, err := decodeStatus("addr", regs)
	require.NoError(t, err)
	assert.Equal(t, "F40", status.Fault.Code)
	assert.Equal(t, "Flow failure", status.Fault.Description)
}

func TestDecodeStatusShortBlock(t *testing.T) {
	_, err := decodeStatus("addr", make([]uint16, 4))
	assert.Error(t, err)
}

func TestDecodeStatusUnknownState(t *testing.T) {
	regs := statusBlock()
	regs[midas.RegStateAlarm] = 42 << 8

	_, err := decodeStatus("addr", regs)
	assert.Error(t, err)
}

func TestReadSpans(t *testing.T) {
	spans := readSpans(0, 16)
	require.Len(t, spans, 1)
	assert.Equal(t, span{address: 0, count: 16}, spans[0])

	// requests above the protocol ceiling split at 124
	spans = readSpans(10, 300)
	require.Len(t, spans, 3)
	assert.Equal(t, span{address: 10, count: 124}, spans[0])
	assert.Equal(t, span{address: 134, count: 124}, spans[1])
	assert.Equal(t, span{address: 258, count: 52}, spans[2])

	spans = readSpans(0, 124)
	require.Len(t, spans, 1)
	assert.Equal(t, uint16(124), spans[0].count)
}

func TestWordsFromBytes(t *testing.T) {
	words, err := wordsFromBytes([]byte{0x3F, 0xC0, 0x00, 0x2A}, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x3FC0, 0x002A}, words)

	_, err = wordsFromBytes([]byte{0x00}, 2)
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Address: "192.168.1.100"}.withDefaults()
	assert.Equal(t, "192.168.1.100:502", cfg.Address)
	assert.Equal(t, byte(DefaultUnitID), cfg.UnitID)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = Config{Address: "192.168.1.100:10502", UnitID: 3}.withDefaults()
	assert.Equal(t, "192.168.1.100:10502", cfg.Address)
	assert.Equal(t, byte(3), cfg.UnitID)
}
