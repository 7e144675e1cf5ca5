package depthclust

import "image/color"

// paletteSize is the number of distinct cluster colors before hues repeat.
const paletteSize = 200

// noiseGray is the neutral color for unassigned points.
var noiseGray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// pointColor returns the plot color for a point: the palette entry for its
// cluster, desaturated toward gray by (1 - prob), or neutral gray for
// noise. alpha is applied to the result.
func pointColor(label int, prob float64, alpha uint8) color.NRGBA {
	if label < 0 {
		c := noiseGray
		c.A = alpha
		return c
	}
	h, s, l := paletteHSL(label)
	if prob < 0 {
		prob = 0
	} else if prob > 1 {
		prob = 1
	}
	r, g, b := hslToRGB(h, s*prob, l)
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// paletteHSL returns the fixed palette entry for a cluster ID. Hues step
// around the color wheel with alternating lightness so adjacent IDs stay
// distinguishable, repeating after paletteSize entries.
func paletteHSL(id int) (h, s, l float64) {
	i := id % paletteSize
	h = float64(i) / float64(paletteSize)
	s = 0.7
	l = 0.45
	if i%2 == 1 {
		l = 0.65
	}
	return h, s, l
}

// hslToRGB converts HSL in [0,1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
