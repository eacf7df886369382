package export

import "github.com/philipparndt/primforge/pkg/model"

// ACI values of the seven base AutoCAD colors
const (
	ACIRed     = 1
	ACIYellow  = 2
	ACIGreen   = 3
	ACICyan    = 4
	ACIBlue    = 5
	ACIMagenta = 6
	ACIWhite   = 7
)

var aciPalette = []struct {
	index int
	color model.Color
}{
	{ACIRed, model.Color{R: 255}},
	{ACIYellow, model.Color{R: 255, G: 255}},
	{ACIGreen, model.Color{G: 255}},
	{ACICyan, model.Color{G: 255, B: 255}},
	{ACIBlue, model.Color{B: 255}},
	{ACIMagenta, model.Color{R: 255, B: 255}},
}

// NearestACI maps c to the closest of the seven base ACI colors.
// Index 7 renders white on dark and black on light backgrounds, so it is
// matched against both and wins every tie.
func NearestACI(c model.Color) int {
	best := ACIWhite
	bestDist := min(colorDistance(c, model.Color{R: 255, G: 255, B: 255}), colorDistance(c, model.Color{}))
	for _, entry := range aciPalette {
		if d := colorDistance(c, entry.color); d < bestDist {
			best, bestDist = entry.index, d
		}
	}
	return best
}

func colorDistance(a, b model.Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
