package driver

import "fmt"

// SupportedFloor is the newest driver that ships a matching 3D Vision
// component. Drivers at or below it are not handled.
const SupportedFloor Version = 45206

// Eligibility is the outcome of the eligibility gate
type Eligibility int

const (
	// IneligibleNoDevice means no NVIDIA GPU or driver could be queried.
	IneligibleNoDevice Eligibility = iota
	// IneligibleOldDriver means the driver is at or below SupportedFloor.
	IneligibleOldDriver
	// Eligible means the pipeline may proceed.
	Eligible
)

func (e Eligibility) String() string {
	switch e {
	case IneligibleNoDevice:
		return "ineligible-no-device"
	case IneligibleOldDriver:
		return "ineligible-old-driver"
	case Eligible:
		return "eligible"
	}
	return "unknown"
}

// MarshalText lets reports carry the readable form.
func (e Eligibility) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses the form written by MarshalText.
func (e *Eligibility) UnmarshalText(text []byte) error {
	for _, c := range []Eligibility{IneligibleNoDevice, IneligibleOldDriver, Eligible} {
		if c.String() == string(text) {
			*e = c
			return nil
		}
	}
	return fmt.Errorf("unknown eligibility %q", text)
}

// CheckEligibility decides whether the pipeline may run for the probed device.
func CheckEligibility(present bool, v Version) Eligibility {
	if !present {
		return IneligibleNoDevice
	}
	if v <= SupportedFloor {
		return IneligibleOldDriver
	}
	return Eligible
}
