// Package segment separates an object from the background of an image with a
// minimum cut. Each pixel is a node of a flow network. Neighbouring pixels are
// joined by boundary edges which are expensive to cut where intensities are
// similar, and each pixel is joined to the source (object) and sink
// (background) by region edges priced from intensity histograms of seed
// pixels marked by the user. Seeds are bound to their side by hard edges which
// no minimum cut severs.
package segment

import (
	"image"
	"image/color"
	"math"

	"github.com/kalexmills/preflow"
	"github.com/kalexmills/preflow/edgelist"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Options tune the network built for an image.
type Options struct {
	// Lambda weights region costs against boundary costs. Zero uses 100.
	Lambda float64
	// Sigma is the intensity difference around which boundary costs fall off. Zero uses 1.
	Sigma float64
	// Color compares the RGB channels of neighbouring pixels rather than
	// their gray intensities.
	Color bool
}

const (
	boundaryScale = 100 // Boundary cost of neighbours having equal intensity.
	histogramBins = 51
)

// Errors returned by Build.
var (
	ErrEmptyImage   = errors.New("image has no pixels")
	ErrSeedBounds   = errors.New("seed pixel lies outside the image")
	ErrSeedConflict = errors.New("pixel seeds both object and background")
	ErrNoSeeds      = errors.New("object and background each require at least one seed")
)

var neighbours = [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Build returns the segmentation network of |img|, given object and
// background seed pixels in image coordinates. Node 0 is the source, node
// 1+y*width+x is the pixel at offset (x, y) from the image's minimum point,
// and the last node is the sink. Every pixel has edges from the source and to
// the sink, even of zero capacity, so the source and sink are the only nodes
// lacking incoming and outgoing edges respectively.
func Build(img image.Image, obj, bg []image.Point, opts Options) (*edgelist.Instance, error) {
	var g, err = newGrid(img, opts)
	if err != nil {
		return nil, err
	}
	if len(obj) == 0 || len(bg) == 0 {
		return nil, ErrNoSeeds
	}
	var seeds = make(map[image.Point]bool, len(obj)+len(bg)) // true for object seeds.
	for _, p := range obj {
		if !p.In(g.rect) {
			return nil, errors.Wrapf(ErrSeedBounds, "object seed %v not in %v", p, g.rect)
		}
		seeds[p] = true
	}
	for _, p := range bg {
		if !p.In(g.rect) {
			return nil, errors.Wrapf(ErrSeedBounds, "background seed %v not in %v", p, g.rect)
		}
		if seeds[p] {
			return nil, errors.Wrapf(ErrSeedConflict, "pixel %v", p)
		}
		seeds[p] = false
	}

	var pixels = g.w * g.h
	var inst = &edgelist.Instance{
		NumNodes: pixels + 2,
		Edges:    make([]preflow.Edge, 0, 6*pixels),
	}
	var sink = pixels + 1

	// Boundary edges come first, as the largest summed boundary cost of a
	// pixel fixes the capacity of hard edges.
	var hard int64
	for y := g.rect.Min.Y; y != g.rect.Max.Y; y++ {
		for x := g.rect.Min.X; x != g.rect.Max.X; x++ {
			var p, sum = image.Pt(x, y), int64(0)
			for _, d := range neighbours {
				var q = p.Add(d)
				if !q.In(g.rect) {
					continue
				}
				var c = g.boundary(p, q)
				inst.Edges = append(inst.Edges, preflow.Edge{From: g.node(p), To: g.node(q), Capacity: c})
				sum += c
			}
			hard = max(hard, sum)
		}
	}
	hard++

	var objCost, bgCost = g.regionCosts(obj, hard), g.regionCosts(bg, hard)

	for y := g.rect.Min.Y; y != g.rect.Max.Y; y++ {
		for x := g.rect.Min.X; x != g.rect.Max.X; x++ {
			var p = image.Pt(x, y)
			var toSource, toSink int64

			if isObj, ok := seeds[p]; ok && isObj {
				toSource = hard
			} else if ok {
				toSink = hard
			} else {
				// Cutting the source edge labels the pixel background, and
				// cutting the sink edge labels it object.
				var b = bin(g.gray(p))
				toSource, toSink = bgCost[b], objCost[b]
			}
			inst.Edges = append(inst.Edges,
				preflow.Edge{From: 0, To: g.node(p), Capacity: toSource},
				preflow.Edge{From: g.node(p), To: sink, Capacity: toSink},
			)
		}
	}
	return inst, nil
}

// Segment builds the network of |img|, solves it, and returns a mask in which
// object pixels are white, along with the cost of the minimum cut.
func Segment(img image.Image, obj, bg []image.Point, opts Options) (*image.Gray, int64, error) {
	var inst, err = Build(img, obj, bg, opts)
	if err != nil {
		return nil, 0, err
	}
	fn, err := inst.Network()
	if err != nil {
		return nil, 0, err
	}
	if err = fn.PushRelabel(); err != nil {
		return nil, 0, errors.WithMessage(err, "solving segmentation network")
	}
	var side, cut = fn.MinCut()

	log.WithFields(log.Fields{
		"bounds": img.Bounds(),
		"edges":  fn.NumEdges(),
		"cut":    cut,
		"object": len(side) - 1,
	}).Debug("segmented image")

	return Mask(img.Bounds(), side), cut, nil
}

// Mask returns a mask over |bounds| in which pixels of the given source side of
// a cut are white, and all others black. Node IDs are as assigned by Build;
// the source and sink nodes are ignored.
func Mask(bounds image.Rectangle, sourceSide []int) *image.Gray {
	var mask = image.NewGray(bounds)
	var w, pixels = bounds.Dx(), bounds.Dx() * bounds.Dy()

	for _, id := range sourceSide {
		if id < 1 || id > pixels {
			continue
		}
		var i = id - 1
		mask.SetGray(bounds.Min.X+i%w, bounds.Min.Y+i/w, color.Gray{Y: 0xff})
	}
	return mask
}

type grid struct {
	img  image.Image
	rect image.Rectangle
	w, h int
	opts Options
}

func newGrid(img image.Image, opts Options) (*grid, error) {
	var rect = img.Bounds()
	if rect.Empty() {
		return nil, ErrEmptyImage
	}
	if opts.Lambda == 0 {
		opts.Lambda = 100
	}
	if opts.Sigma == 0 {
		opts.Sigma = 1
	}
	if opts.Lambda < 0 || opts.Sigma < 0 {
		return nil, errors.Errorf("lambda (%v) and sigma (%v) must be positive", opts.Lambda, opts.Sigma)
	}
	if pixels := rect.Dx() * rect.Dy(); pixels > edgelist.MaxNodes-2 {
		return nil, errors.Errorf("image of %d pixels is too large", pixels)
	}
	return &grid{img: img, rect: rect, w: rect.Dx(), h: rect.Dy(), opts: opts}, nil
}

func (g *grid) node(p image.Point) int {
	return 1 + (p.Y-g.rect.Min.Y)*g.w + (p.X - g.rect.Min.X)
}

func (g *grid) gray(p image.Point) uint8 {
	return color.GrayModel.Convert(g.img.At(p.X, p.Y)).(color.Gray).Y
}

// boundary returns the cost of separating neighbouring pixels |p| and |q|,
// which falls off as a Gaussian of their intensity difference.
func (g *grid) boundary(p, q image.Point) int64 {
	var d2 float64
	if g.opts.Color {
		var r1, g1, b1, _ = g.img.At(p.X, p.Y).RGBA()
		var r2, g2, b2, _ = g.img.At(q.X, q.Y).RGBA()
		d2 = square(r1>>8, r2>>8) + square(g1>>8, g2>>8) + square(b1>>8, b2>>8)
	} else {
		d2 = square(uint32(g.gray(p)), uint32(g.gray(q)))
	}
	return int64(boundaryScale * math.Exp(-d2/(2*g.opts.Sigma*g.opts.Sigma)))
}

// regionCosts returns, for each intensity bin, the cost of assigning a pixel
// of that bin to the class sampled by |seeds|: the negative log-likelihood of
// the bin among the seeds, scaled by lambda. Bins without seeds, and costs
// beyond |hard|, cost |hard|.
func (g *grid) regionCosts(seeds []image.Point, hard int64) [histogramBins]int64 {
	var counts [histogramBins]int
	for _, p := range seeds {
		counts[bin(g.gray(p))]++
	}
	var costs [histogramBins]int64
	for i, n := range counts {
		if n == 0 {
			costs[i] = hard
			continue
		}
		var cost = -g.opts.Lambda * math.Log(float64(n)/float64(len(seeds)))
		costs[i] = int64(math.Min(cost, float64(hard)))
	}
	return costs
}

func bin(intensity uint8) int { return int(intensity) * histogramBins / 256 }

func square(a, b uint32) float64 {
	var d = float64(a) - float64(b)
	return d * d
}
