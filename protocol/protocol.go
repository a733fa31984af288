// SPDX-License-Identifier: GPL-2.0-or-later

package protocol

const (
	Version = 34

	PortServer = 27910
	PortMaster = 27900
)

const (
	MaxQPath          = 64
	MaxClients        = 256
	ClientNumReserved = MaxClients - 1
	MaxEdicts         = 1024
	MaxModels         = 256
	MaxSounds         = 256
	MaxImages         = 256
	MaxLightStyles    = 256
	MaxItems          = 256
	MaxGeneral        = MaxClients * 2

	// UpdateBackup frames are kept per client for delta compression.
	UpdateBackup      = 16
	MaxPacketEntities = 128

	MaxMapEntString = 0x40000
	MaxMapModels    = 1024

	HeartbeatSeconds = 300
)

// server to client
const (
	SvcBad = iota
	SvcMuzzleFlash
	SvcMuzzleFlash2
	SvcTempEntity
	SvcLayout
	SvcInventory
	SvcNop
	SvcDisconnect
	SvcReconnect
	SvcSound
	SvcPrint
	SvcStuffText
	SvcServerData
	SvcConfigString
	SvcSpawnBaseline
	SvcCenterPrint
	SvcDownload
	SvcPlayerInfo
	SvcPacketEntities
	SvcDeltaPacketEntities
	SvcFrame
	SvcZPacket
)

// print levels
const (
	PrintLow = iota
	PrintMedium
	PrintHigh
	PrintChat
)
