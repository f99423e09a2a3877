// ABOUTME: Framework version read from the build metadata.
// ABOUTME: Falls back to "dev" for untagged or test builds.

package admin

import "runtime/debug"

const modulePath = "github.com/2389/panel"

// Version of the running panel module
var Version = readVersion()

func readVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return versionFrom(info)
}

func versionFrom(info *debug.BuildInfo) string {
	if info.Main.Path == modulePath {
		return normalizeVersion(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path != modulePath {
			continue
		}
		if dep.Replace != nil {
			return normalizeVersion(dep.Replace.Version)
		}
		return normalizeVersion(dep.Version)
	}
	return "dev"
}

func normalizeVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "dev"
	}
	return v
}
