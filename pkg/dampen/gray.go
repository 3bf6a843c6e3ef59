// Package dampen pulls pixel colors toward neutral gray. The closer a pixel
// already is to gray, the larger the share of its distance to the mean it
// gives up; fully saturated pixels keep their color. Power sets how steeply
// that share falls off.
package dampen

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jpfielding/colorcast.go/pkg/tiff"
)

const (
	// MinPower is almost completely gray
	MinPower = 0.1
	// MaxPower is almost no change
	MaxPower = 15.0
)

// ValidatePower rejects powers outside [MinPower, MaxPower]
func ValidatePower(power float64) error {
	if math.IsNaN(power) || power < MinPower || power > MaxPower {
		return fmt.Errorf("power %v must be between %v and %v", power, MinPower, MaxPower)
	}
	return nil
}

// ParsePower parses and validates a user supplied power
func ParsePower(s string) (float64, error) {
	power, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("power %q is not a number: %w", s, err)
	}
	return power, ValidatePower(power)
}

// maxChannel is the largest sample value for a bit depth
func maxChannel(bitsPerSample uint32) float64 {
	if bitsPerSample == 16 {
		return math.MaxUint16
	}
	return math.MaxUint8
}

// Grayness maps rgb to [0,1], 1 being neutral gray and 0 full saturation
func Grayness(rgb [3]int32, bitsPerSample uint32) float64 {
	r, g, b := float64(rgb[0]), float64(rgb[1]), float64(rgb[2])
	raw := math.Abs(r-g) + math.Abs(r-b) + math.Abs(b-g)
	return 1 - raw/(2*maxChannel(bitsPerSample))
}

// Normalize moves each channel toward the pixel mean by
// diff*grayness^power, never past the mean.
func Normalize(rgb [3]int32, power float64, bitsPerSample uint32) [3]int32 {
	factor := math.Pow(Grayness(rgb, bitsPerSample), power)
	avg := float64(rgb[0]+rgb[1]+rgb[2]) / tiff.SamplesPerPixel

	var out [3]int32
	for c, x := range rgb {
		out[c] = dampenChannel(x, avg, factor)
	}
	return out
}

func dampenChannel(x int32, avg, factor float64) int32 {
	diff := math.Abs(float64(x) - avg)
	// rounding may not carry a channel across the mean
	change := int32(math.Min(math.Round(diff*factor), math.Floor(diff)))
	if float64(x) > avg {
		return x - change
	}
	return x + change
}
