package midas

// Holding-register offsets of the detector status block. The whole block
// is read in one request and decoded into a models.Status.
//
// Multi-register values are big-endian with the high word first.
const (
	RegConcentrationHigh = 0  // float32, high word
	RegConcentrationLow  = 1  // float32, low word
	RegStateAlarm        = 2  // high byte monitor state, low byte alarm level
	RegFault             = 3  // high byte fault status, low byte fault number
	RegUnits             = 4  // concentration unit code
	RegTemperature       = 5  // internal temperature, signed, degrees C
	RegCellLife          = 6  // remaining cell life, 0.1% units
	RegFlow              = 7  // sample flow, cc/min
	RegLowAlarmHigh      = 8  // low alarm threshold float32, high word
	RegLowAlarmLow       = 9  // low alarm threshold float32, low word
	RegHighAlarmHigh     = 10 // high alarm threshold float32, high word
	RegHighAlarmLow      = 11 // high alarm threshold float32, low word
	RegHeartbeat         = 12 // increments every detector scan cycle
	RegRelayStatus       = 13 // relay and analog output bitfield
	RegUptimeHigh        = 14 // hours of operation uint32, high word
	RegUptimeLow         = 15 // hours of operation uint32, low word

	// StatusBlockStart and StatusBlockLength cover the full block above.
	StatusBlockStart  = 0
	StatusBlockLength = 16
)
