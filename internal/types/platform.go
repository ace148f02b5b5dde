package types

import "strings"

// Platform identifies a target professional-network site.
// The set is open: any unrecognized value gets default content conventions.
type Platform string

const (
	// PlatformUpwork is the Upwork freelancing marketplace
	PlatformUpwork Platform = "upwork"
	// PlatformLinkedIn is the LinkedIn professional network
	PlatformLinkedIn Platform = "linkedin"
	// PlatformDefault selects generic content conventions
	PlatformDefault Platform = "default"
)

// ParsePlatform normalizes a caller-supplied platform name.
// An empty name maps to PlatformDefault.
func ParsePlatform(name string) Platform {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PlatformDefault
	}
	return Platform(name)
}

// PlatformInfo describes a platform for the platform listing endpoint.
type PlatformInfo struct {
	ID          Platform `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Supported   bool     `json:"supported"`
}

// SupportedPlatforms lists the platforms a profile can be built for.
func SupportedPlatforms() []PlatformInfo {
	return []PlatformInfo{
		{
			ID:          PlatformUpwork,
			Name:        "Upwork",
			Description: "One of the largest freelancing platforms with opportunities across numerous fields",
			Supported:   true,
		},
		{
			ID:          PlatformLinkedIn,
			Name:        "LinkedIn",
			Description: "Professional networking platform ideal for job searching and professional branding",
			Supported:   true,
		},
	}
}
