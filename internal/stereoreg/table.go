package stereoreg

// Entry is one REG_DWORD value under the stereo namespace.
type Entry struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Value uint32 `json:"value" yaml:"value"`
}

// Table is an ordered list of entries. Order is write order; it is not sorted.
type Table []Entry

// Lookup returns the last value written for name.
func (t Table) Lookup(name string) (uint32, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Name == name {
			return t[i].Value, true
		}
	}
	return 0, false
}

// Then returns a new table with other's entries after t's.
func (t Table) Then(other Table) Table {
	out := make(Table, 0, len(t)+len(other))
	out = append(out, t...)
	return append(out, other...)
}

// Hotkey values pack a virtual key code with modifier bits:
// 0x200 Ctrl, 0x400 Alt, 0x100 Shift.
const (
	modShift = 0x100
	modCtrl  = 0x200
	modAlt   = 0x400

	vkF1  = 0x70
	vkF3  = 0x72
	vkF4  = 0x73
	vkF5  = 0x74
	vkF6  = 0x75
	vkF7  = 0x76
	vkF8  = 0x77
	vkF9  = 0x78
	vkF10 = 0x79
	vkF11 = 0x7A
	vkF12 = 0x7B
	vkT   = 0x54
)

// baseline is the factory Stereo3D configuration written on every run.
var baseline = Table{
	{"StereoDefaultOn", 1},
	{"StereoAdjustEnable", 1},
	{"StereoSeparation", 15},
	{"StereoAdvancedHKConfig", 0},
	{"StereoVisionConfirmed", 0},
	{"StereoViewerType", 0},
	{"StereoImageType", 1},
	{"StereoMemoEnabled", 1},
	{"StereoToggleMode", 0},
	{"StereoToggle", modCtrl | vkT},
	{"StereoSeparationAdjustMore", modCtrl | vkF4},
	{"StereoSeparationAdjustLess", modCtrl | vkF3},
	{"StereoConvergenceAdjustMore", modCtrl | vkF6},
	{"StereoConvergenceAdjustLess", modCtrl | vkF5},
	{"WriteConfig", modCtrl | vkF7},
	{"DeleteConfig", modCtrl | modAlt | vkF12},
	{"ToggleMemo", modCtrl | vkF8},
	{"ToggleLaserSight", modCtrl | vkF9},
	{"SaveStereoImage", modAlt | vkF1},
	{"CycleFrustumAdjust", modCtrl | vkF11},
	{"GlassesDelayPlus", modCtrl | modShift | vkF10},
	{"GlassesDelayMinus", modCtrl | modShift | vkF11},
	{"RHWAtScreenMore", modCtrl | modAlt | vkF6},
	{"RHWAtScreenLess", modCtrl | modAlt | vkF5},
	{"RHWLessAtScreenMore", modCtrl | modAlt | vkF4},
	{"RHWLessAtScreenLess", modCtrl | modAlt | vkF3},
	{"LaserSightEnabled", 1},
	{"LaserSightIndex", 0},
	{"SnapShotQuality", 50},
	{"EnableWindowedMode", 0},
	{"EnablePersistentStereoDesktop", 0},
	{"FrustumAdjustMode", 0},
	{"MonitorSize", 0},
	{"InterleavePattern0", 0xAAAAAAAA},
	{"InterleavePattern1", 0x55555555},
	{"LogEnabled", 0},
}

// overrides are the preferences applied on top of the baseline.
var overrides = Table{
	{"StereoSeparation", 20},
	{"StereoAdvancedHKConfig", 1},
	{"LaserSightEnabled", 0},
	{"SnapShotQuality", 85},
	{"EnableWindowedMode", 5},
	{"StereoVisionConfirmed", 1},
	{"StereoViewerType", 1},
}

// Baseline returns a copy of the default Stereo3D table.
func Baseline() Table {
	return append(Table(nil), baseline...)
}

// Overrides returns a copy of the preference overrides.
func Overrides() Table {
	return append(Table(nil), overrides...)
}
