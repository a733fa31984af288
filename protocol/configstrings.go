// SPDX-License-Identifier: GPL-2.0-or-later

package protocol

// Configstring slot indices.
const (
	CsName           = 0
	CsCdTrack        = 1
	CsSky            = 2
	CsSkyAxis        = 3
	CsSkyRotate      = 4
	CsStatusBar      = 5 // spans up to CsAirAccel
	CsAirAccel       = 29
	CsMaxClients     = 30
	CsMapCheckSum    = 31
	CsModels         = 32
	CsSounds         = CsModels + MaxModels
	CsImages         = CsSounds + MaxSounds
	CsLights         = CsImages + MaxImages
	CsItems          = CsLights + MaxLightStyles
	CsPlayerSkins    = CsItems + MaxItems
	CsGeneral        = CsPlayerSkins + MaxClients
	MaxConfigStrings = CsGeneral + MaxGeneral
)

// ConfigStringSize returns the number of bytes slot i may hold including the
// terminating zero. The status bar program is allowed to spill over into the
// following unused slots.
func ConfigStringSize(i int) int {
	if i >= CsStatusBar && i < CsAirAccel {
		return MaxQPath * (CsAirAccel - i)
	}
	return MaxQPath
}
