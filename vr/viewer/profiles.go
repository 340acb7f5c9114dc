package viewer

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/vizorvr/webvr-boilerplate/common"
)

// ViewerProfile describes the optical geometry of a stereoscopic viewer
// (the physical holder and its lenses). Distances are in meters.
type ViewerProfile struct {
	// ID uniquely identifies the viewer model.
	ID string `toml:"id"`

	// Label is the human-readable viewer name.
	Label string `toml:"label"`

	// InterLensDistance is the distance between the two lens centers.
	InterLensDistance float32 `toml:"inter_lens_distance"`

	// BaselineLensDistance is the distance from the bottom of the phone tray
	// to the lens centers.
	BaselineLensDistance float32 `toml:"baseline_lens_distance"`

	// ScreenLensDistance is the distance from the screen to the lenses.
	ScreenLensDistance float32 `toml:"screen_lens_distance"`

	// DistortionCoefficients are the (k1, k2) terms of the even-order radial
	// distortion polynomial of the lenses.
	DistortionCoefficients [2]float32 `toml:"distortion_coefficients"`

	// FOV is the maximum half-angle visible through the lens, in degrees.
	FOV float32 `toml:"fov"`
}

// ScreenProfile describes the display panel the viewer holds, both in pixels
// (for viewport math) and meters (for optical math).
type ScreenProfile struct {
	// ID uniquely identifies the screen model.
	ID string `toml:"id"`

	// WidthPixels and HeightPixels are the landscape pixel dimensions.
	WidthPixels  int `toml:"width_pixels"`
	HeightPixels int `toml:"height_pixels"`

	// WidthMeters and HeightMeters are the landscape physical dimensions.
	WidthMeters  float32 `toml:"width_meters"`
	HeightMeters float32 `toml:"height_meters"`

	// BorderSizeMeters is the size of the bezel below the display when the
	// phone sits in the viewer tray.
	BorderSizeMeters float32 `toml:"border_size_meters"`
}

// Built-in viewer profiles. Values match the published Cardboard device specs.
var (
	// CardboardV1 is the original 2014 Google Cardboard viewer.
	CardboardV1 = ViewerProfile{
		ID:                     "CardboardV1",
		Label:                  "Cardboard I/O 2014",
		InterLensDistance:      0.060,
		BaselineLensDistance:   0.035,
		ScreenLensDistance:     0.042,
		DistortionCoefficients: [2]float32{0.441, 0.156},
		FOV:                    40,
	}

	// CardboardV2 is the 2015 Google Cardboard viewer.
	CardboardV2 = ViewerProfile{
		ID:                     "CardboardV2",
		Label:                  "Cardboard I/O 2015",
		InterLensDistance:      0.064,
		BaselineLensDistance:   0.035,
		ScreenLensDistance:     0.039,
		DistortionCoefficients: [2]float32{0.34, 0.55},
		FOV:                    60,
	}
)

// Built-in screen profiles for common handsets.
var (
	// Nexus5 is a 4.95" 1080p panel.
	Nexus5 = ScreenProfile{
		ID:               "Nexus5",
		WidthPixels:      1920,
		HeightPixels:     1080,
		WidthMeters:      0.110,
		HeightMeters:     0.062,
		BorderSizeMeters: 0.004,
	}

	// IPhone6 is a 4.7" 750p panel.
	IPhone6 = ScreenProfile{
		ID:               "iPhone6",
		WidthPixels:      1334,
		HeightPixels:     750,
		WidthMeters:      0.1038,
		HeightMeters:     0.0584,
		BorderSizeMeters: 0.004,
	}
)

// profileFile is the on-disk TOML shape for custom profile sets.
type profileFile struct {
	Viewers []ViewerProfile `toml:"viewers"`
	Screens []ScreenProfile `toml:"screens"`
}

// LoadProfiles reads viewer and screen profiles from a TOML document.
// Either list may be empty; unknown keys are rejected so typos in calibration
// files surface as errors instead of silently defaulting.
//
// Parameters:
//   - r: the TOML document to read
//
// Returns:
//   - []ViewerProfile: the viewer profiles defined in the document
//   - []ScreenProfile: the screen profiles defined in the document
//   - error: an error if the document cannot be parsed
func LoadProfiles(r io.Reader) ([]ViewerProfile, []ScreenProfile, error) {
	var f profileFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse profile document: %w", err)
	}
	for i := range f.Viewers {
		// Calibration files may omit the FOV clamp.
		f.Viewers[i].FOV = common.Coalesce(f.Viewers[i].FOV, 60)
	}
	return f.Viewers, f.Screens, nil
}
