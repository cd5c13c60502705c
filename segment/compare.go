package segment

import (
	"image"

	"github.com/pkg/errors"
)

// ErrSizeMismatch is returned by Compare for masks of differing dimensions.
var ErrSizeMismatch = errors.New("masks differ in size")

// Scores rate a segmentation mask against a reference mask. Pixels having any
// non-zero color channel are object pixels; all others are background.
type Scores struct {
	Object     float64 // Share of pixels which both masks mark as object.
	Background float64 // Share of pixels which both masks mark as background.
	Overall    float64 // Share of pixels on which the masks agree.
	Jaccard    float64 // Object pixels of both masks, over object pixels of either.
}

// Compare scores mask |out| against reference mask |ref|. Masks are aligned on
// their minimum points. If neither mask has object pixels, Jaccard is one.
func Compare(ref, out image.Image) (Scores, error) {
	var rr, ro = ref.Bounds(), out.Bounds()
	if rr.Size() != ro.Size() {
		return Scores{}, errors.Wrapf(ErrSizeMismatch, "%v and %v", rr.Size(), ro.Size())
	} else if rr.Empty() {
		return Scores{}, ErrEmptyImage
	}

	var both, neither, either int
	for y := 0; y != rr.Dy(); y++ {
		for x := 0; x != rr.Dx(); x++ {
			var a = isObject(ref, rr.Min.X+x, rr.Min.Y+y)
			var b = isObject(out, ro.Min.X+x, ro.Min.Y+y)

			switch {
			case a && b:
				both++
			case !a && !b:
				neither++
			}
			if a || b {
				either++
			}
		}
	}

	var total = float64(rr.Dx() * rr.Dy())
	var scores = Scores{
		Object:     float64(both) / total,
		Background: float64(neither) / total,
		Overall:    float64(both+neither) / total,
		Jaccard:    1,
	}
	if either != 0 {
		scores.Jaccard = float64(both) / float64(either)
	}
	return scores, nil
}

func isObject(img image.Image, x, y int) bool {
	var r, g, b, _ = img.At(x, y).RGBA()
	return r|g|b != 0
}
