package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kalexmills/preflow/segment"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// seedRegion is a flag value naming seed pixels, either as a single pixel
// "x,y" or as a rectangle "x0,y0,x1,y1" which excludes its maximum point.
type seedRegion image.Rectangle

func (r *seedRegion) UnmarshalFlag(value string) error {
	var parts = strings.Split(value, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return errors.Errorf("seed %q must be x,y or x0,y0,x1,y1", value)
	}
	var c [4]int
	for i, part := range parts {
		var n, err = strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return errors.Wrapf(err, "seed %q", value)
		}
		c[i] = n
	}
	if len(parts) == 2 {
		c[2], c[3] = c[0]+1, c[1]+1
	}
	var rect = image.Rect(c[0], c[1], c[2], c[3])
	if rect.Empty() {
		return errors.Errorf("seed %q covers no pixels", value)
	}
	*r = seedRegion(rect)
	return nil
}

func (r seedRegion) MarshalFlag() (string, error) {
	return fmt.Sprintf("%d,%d,%d,%d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y), nil
}

// points lists the pixels of all |regions|.
func points(regions []seedRegion) []image.Point {
	var out []image.Point
	for _, r := range regions {
		for y := r.Min.Y; y != r.Max.Y; y++ {
			for x := r.Min.X; x != r.Max.X; x++ {
				out = append(out, image.Pt(x, y))
			}
		}
	}
	return out
}

type cmdSegment struct {
	Object     []seedRegion `long:"object" required:"true" description:"Object seed pixels, as x,y or as a rectangle x0,y0,x1,y1. May be repeated"`
	Background []seedRegion `long:"background" required:"true" description:"Background seed pixels, as x,y or as a rectangle x0,y0,x1,y1. May be repeated"`
	Lambda     float64      `long:"lambda" default:"100" description:"Weight of region costs relative to boundary costs"`
	Sigma      float64      `long:"sigma" default:"1" description:"Intensity difference around which boundary costs fall off"`
	Color      bool         `long:"color" description:"Compare the RGB channels of neighbouring pixels rather than gray intensities"`
	Output     string       `long:"output" required:"true" description:"Path of the PNG object mask to write"`
	Reference  string       `long:"reference" description:"Reference mask to score the result against"`
	Args       struct {
		Image string `positional-arg-name:"IMAGE" required:"1" description:"PNG, JPEG, GIF, BMP, TIFF or WebP image to segment"`
	} `positional-args:"yes"`
}

func (cmd *cmdSegment) Execute([]string) error {
	initLog(Config.Log)
	return cmd.segment(os.Stdout)
}

// segment writes the object mask to cmd.Output, and writes scores against
// cmd.Reference to |w| if one is given.
func (cmd *cmdSegment) segment(w io.Writer) error {
	var img, err = readImage(cmd.Args.Image)
	if err != nil {
		return err
	}
	mask, cut, err := segment.Segment(img, points(cmd.Object), points(cmd.Background), segment.Options{
		Lambda: cmd.Lambda,
		Sigma:  cmd.Sigma,
		Color:  cmd.Color,
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"image":  cmd.Args.Image,
		"bounds": img.Bounds(),
		"cut":    cut,
	}).Info("segmented image")

	f, err := os.Create(cmd.Output)
	if err != nil {
		return errors.Wrap(err, "creating mask")
	}
	if err = png.Encode(f, mask); err != nil {
		f.Close()
		return errors.Wrap(err, "encoding mask")
	} else if err = f.Close(); err != nil {
		return errors.Wrap(err, "writing mask")
	}

	if cmd.Reference == "" {
		return nil
	}
	ref, err := readImage(cmd.Reference)
	if err != nil {
		return err
	}
	scores, err := segment.Compare(ref, mask)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "object %.4f\nbackground %.4f\noverall %.4f\njaccard %.4f\n",
		scores.Object, scores.Background, scores.Overall, scores.Jaccard)
	return nil
}

func readImage(path string) (image.Image, error) {
	var f, err = os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	log.WithFields(log.Fields{"path": path, "format": format}).Debug("decoded image")
	return img, nil
}
