package utils

import (
	"runtime/debug"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
	revisionSettingKey = "vcs.revision"

	shortRevisionLength = 7
)

// Version is injected at build time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = EmptyString

// GetApplicationVersion reports the linked version, then the module version recorded in the
// build information, and finally "unknown".
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == revisionSettingKey && len(setting.Value) >= shortRevisionLength {
			return setting.Value[:shortRevisionLength]
		}
	}
	return unknownVersion
}
