package project

// Type is the closed set of VPM/UPM project kinds.
type Type int

const (
	Unknown Type = iota
	LegacySDK2
	LegacyWorlds
	LegacyAvatars
	UpmWorlds
	UpmAvatars
	UpmStarter
	Worlds
	Avatars
	VpmStarter
)

func (t Type) String() string {
	switch t {
	case LegacySDK2:
		return "LegacySDK2"
	case LegacyWorlds:
		return "LegacyWorlds"
	case LegacyAvatars:
		return "LegacyAvatars"
	case UpmWorlds:
		return "UpmWorlds"
	case UpmAvatars:
		return "UpmAvatars"
	case UpmStarter:
		return "UpmStarter"
	case Worlds:
		return "Worlds"
	case Avatars:
		return "Avatars"
	case VpmStarter:
		return "VpmStarter"
	default:
		return "Unknown"
	}
}

const (
	sdkWorldsPackage  = "com.vrchat.worlds"
	sdkAvatarsPkgName = "com.vrchat.avatars"
	sdkBasePkgName    = "com.vrchat.base"
)

// DetectType follows the fixed cascade: locked SDK-Avatars -> Avatars;
// locked SDK-Worlds -> Worlds; any locked -> VpmStarter; else
// UPM-based detection (com.vrchat.base specifically gates UpmStarter,
// not any non-empty UpmDependencies); else Unknown.
func (p *Project) DetectType() Type {
	if _, ok := p.Manifest.Locked.Get(sdkAvatarsPkgName); ok {
		return Avatars
	}
	if _, ok := p.Manifest.Locked.Get(sdkWorldsPackage); ok {
		return Worlds
	}
	if p.Manifest.Locked.Len() > 0 {
		return VpmStarter
	}

	if p.UpmDependencies != nil {
		if _, ok := p.UpmDependencies[sdkAvatarsPkgName]; ok {
			return UpmAvatars
		}
		if _, ok := p.UpmDependencies[sdkWorldsPackage]; ok {
			return UpmWorlds
		}
		if _, ok := p.UpmDependencies[sdkBasePkgName]; ok {
			return UpmStarter
		}
	}

	if p.hasUnlockedLegacySDK() {
		return p.detectLegacyType()
	}

	return Unknown
}

// hasUnlockedLegacySDK reports whether an on-disk, unlocked legacy SDK
// folder is present — the signal that the project predates VPM/UPM.
func (p *Project) hasUnlockedLegacySDK() bool {
	for _, up := range p.UnlockedPackages {
		if up.FolderName == "VRCSDK" {
			return true
		}
	}
	return false
}

func (p *Project) detectLegacyType() Type {
	for _, up := range p.UnlockedPackages {
		switch up.FolderName {
		case "VRCSDK-Avatars", "VRC_SDK2-Avatars":
			return LegacyAvatars
		case "VRCSDK-Worlds", "VRC_SDK2-Worlds":
			return LegacyWorlds
		}
	}
	return LegacySDK2
}
