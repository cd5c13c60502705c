package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	var path = filepath.Join(dir, name)
	var f, err = os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func parseSeeds(t *testing.T, values ...string) []seedRegion {
	var out = make([]seedRegion, len(values))
	for i, v := range values {
		require.NoError(t, out[i].UnmarshalFlag(v))
	}
	return out
}

func TestSeedRegionFlag(t *testing.T) {
	var r seedRegion
	require.NoError(t, r.UnmarshalFlag("3,4"))
	require.Equal(t, seedRegion(image.Rect(3, 4, 4, 5)), r)

	require.NoError(t, r.UnmarshalFlag("1, 2, 3, 5"))
	require.Equal(t, seedRegion(image.Rect(1, 2, 3, 5)), r)
	var s, _ = r.MarshalFlag()
	require.Equal(t, "1,2,3,5", s)
	require.Len(t, points([]seedRegion{r}), 6)

	require.EqualError(t, r.UnmarshalFlag("1,2,3"), `seed "1,2,3" must be x,y or x0,y0,x1,y1`)
	require.EqualError(t, r.UnmarshalFlag("1,1,1,4"), `seed "1,1,1,4" covers no pixels`)
	require.Error(t, r.UnmarshalFlag("a,1"))
}

func TestSegment(t *testing.T) {
	var dir = t.TempDir()

	var img = image.NewGray(image.Rect(0, 0, 6, 4))
	var expect = image.NewGray(img.Bounds())
	for y := 0; y != 4; y++ {
		for x := 0; x != 6; x++ {
			if x < 3 {
				img.SetGray(x, y, color.Gray{Y: 20})
			} else {
				img.SetGray(x, y, color.Gray{Y: 230})
				expect.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	img.SetGray(1, 1, color.Gray{Y: 25})

	var cmd = &cmdSegment{
		Object:     parseSeeds(t, "4,1,5,3"),
		Background: parseSeeds(t, "0,0", "0,3"),
		Lambda:     100,
		Sigma:      10,
		Output:     filepath.Join(dir, "mask.png"),
		Reference:  writePNG(t, dir, "reference.png", expect),
	}
	cmd.Args.Image = writePNG(t, dir, "image.png", img)

	var buf bytes.Buffer
	require.NoError(t, cmd.segment(&buf))
	require.Equal(t, "object 0.5000\nbackground 0.5000\noverall 1.0000\njaccard 1.0000\n", buf.String())

	var mask, err = readImage(cmd.Output)
	require.NoError(t, err)
	require.Equal(t, expect.Bounds(), mask.Bounds())
	for y := 0; y != 4; y++ {
		for x := 0; x != 6; x++ {
			require.Equal(t, color.GrayModel.Convert(expect.At(x, y)), color.GrayModel.Convert(mask.At(x, y)))
		}
	}

	// Seeds outside the image are rejected, and no scores are written.
	buf.Reset()
	cmd.Object = parseSeeds(t, "6,0")
	require.Error(t, cmd.segment(&buf))
	require.Empty(t, buf.String())

	cmd.Args.Image = filepath.Join(dir, "missing.png")
	require.Error(t, cmd.segment(&buf))
}
