package host

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Feature identifies an optional host platform capability.
type Feature int

const (
	// FeatureObservers indicates the host supports native per-field data
	// change observers on component definitions.
	FeatureObservers Feature = iota
	// FeatureBatchedPatch indicates the host can accept several patch maps
	// in a single bridge crossing.
	FeatureBatchedPatch
)

// minimum host SDK version per feature.
var featureVersions = map[Feature]string{
	FeatureObservers:    "v2.6.1",
	FeatureBatchedPatch: "v2.4.0",
}

// Info describes the host platform an application is running on.
type Info struct {
	// SDKVersion is the host base library version, with or without a
	// leading "v" (e.g., "2.9.0").
	SDKVersion string
}

// Supports reports whether the host SDK version satisfies the minimum
// version required by the feature. An empty or malformed version string
// supports nothing.
func (i Info) Supports(f Feature) bool {
	min, ok := featureVersions[f]
	if !ok {
		return false
	}
	v := i.SDKVersion
	if v == "" {
		return false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, min) >= 0
}
