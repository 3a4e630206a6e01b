// Package environment loads the HDR panorama that lights the scene and serves as its backdrop.
package environment

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/reject-ocean/common"

	"github.com/anthonynsimon/bild/blur"
	"github.com/chewxy/math32"
	"github.com/gabriel-vasile/mimetype"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/draw"
)

const radianceMIME = "image/vnd.radiance"

var (
	errNotRadiance = errors.New("file is not a Radiance HDR image")
	errNotHDR      = errors.New("decoded image carries no HDR data")
)

// Environment is a decoded equirectangular HDR panorama together with the
// low-resolution, blurred preview the renderer draws as the backdrop.
type Environment struct {
	Name       string
	Width      int
	Height     int
	Background bool
	Blurriness float32

	// Preview is the tone-mapped, downsampled and blurred panorama.
	Preview *image.RGBA
	// Mean is the average colour of Preview.
	Mean common.Color
	// Radiance is the average linear radiance of the full-resolution panorama.
	Radiance [3]float32
}

// Load reads a Radiance HDR panorama from disk.
//
// Parameters:
//   - path: the .hdr file
//   - options: functional options controlling the backdrop
//
// Returns:
//   - *Environment: the decoded environment
//   - error: *common.AssetLoadError if the file is missing or not a valid HDR image
func Load(path string, options ...EnvironmentOption) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindEnvironment, path, err)
	}
	env, err := Decode(filepath.Base(path), data, options...)
	if err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindEnvironment, path, err)
	}
	return env, nil
}

// Decode builds an Environment from in-memory Radiance HDR data.
//
// Parameters:
//   - name: the environment name, usually the file name
//   - data: the file contents
//   - options: functional options controlling the backdrop
//
// Returns:
//   - *Environment: the decoded environment
//   - error: if the data is not a valid HDR image
func Decode(name string, data []byte, options ...EnvironmentOption) (*Environment, error) {
	o := defaultOptions()
	for _, option := range options {
		option(o)
	}

	if !isRadiance(name, data) {
		return nil, errNotRadiance
	}
	img, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode RGBE: %w", err)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, errNotHDR
	}

	b := hdrImg.Bounds()
	env := &Environment{
		Name:       name,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Background: o.background,
		Blurriness: o.blurriness,
		Radiance:   meanRadiance(hdrImg),
	}
	env.Preview = preview(hdrImg, o.previewWidth, o.blurriness)
	env.Mean = meanColor(env.Preview)

	o.logger.Debugw("environment decoded",
		"name", name,
		"width", env.Width,
		"height", env.Height,
		"mean", env.Mean,
	)
	return env, nil
}

// isRadiance accepts data sniffed as Radiance HDR, or unrecognised data under
// an .hdr name, which the decoder then judges.
func isRadiance(name string, data []byte) bool {
	mt := mimetype.Detect(data)
	if mt.Is(radianceMIME) {
		return true
	}
	if strings.ToLower(filepath.Ext(name)) != ".hdr" {
		return false
	}
	return mt.Is("application/octet-stream") || mt.Is("text/plain")
}

// toneMap converts linear radiance to display range with the Reinhard operator and a 2.2 gamma.
func toneMap(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	mapped := math32.Pow(float32(v/(1+v)), 1/2.2)
	return uint8(common.Clamp(mapped*255+0.5, 0, 255))
}

// preview tone-maps img, scales it to width pixels wide and blurs it by blurriness.
func preview(img hdr.Image, width int, blurriness float32) *image.RGBA {
	b := img.Bounds()
	ldr := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.HDRAt(x, y).HDRRGBA()
			i := ldr.PixOffset(x-b.Min.X, y-b.Min.Y)
			ldr.Pix[i+0] = toneMap(r)
			ldr.Pix[i+1] = toneMap(g)
			ldr.Pix[i+2] = toneMap(bl)
			ldr.Pix[i+3] = 0xff
		}
	}

	width = min(max(width, 1), b.Dx())
	height := max(1, b.Dy()*width/max(b.Dx(), 1))
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), ldr, ldr.Bounds(), draw.Src, nil)

	radius := float64(blurriness) * float64(width) / 32
	if radius <= 0 {
		return scaled
	}
	return blur.Gaussian(scaled, radius)
}

func meanColor(img *image.RGBA) common.Color {
	var sum [3]float64
	n := 0
	for i := 0; i+3 < len(img.Pix); i += 4 {
		sum[0] += float64(img.Pix[i])
		sum[1] += float64(img.Pix[i+1])
		sum[2] += float64(img.Pix[i+2])
		n++
	}
	if n == 0 {
		return common.Color{0, 0, 0, 1}
	}
	scale := 1 / (255 * float64(n))
	return common.Color{float32(sum[0] * scale), float32(sum[1] * scale), float32(sum[2] * scale), 1}
}

func meanRadiance(img hdr.Image) [3]float32 {
	b := img.Bounds()
	var sum [3]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.HDRAt(x, y).HDRRGBA()
			sum[0] += r
			sum[1] += g
			sum[2] += bl
		}
	}
	n := float64(b.Dx() * b.Dy())
	if n == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(sum[0] / n), float32(sum[1] / n), float32(sum[2] / n)}
}
