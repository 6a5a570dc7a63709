// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-floatsim/pkg/entity"
)

// SpriteKey selects the sprite a body is drawn with
type SpriteKey struct {
	Policy  entity.Policy
	Settled bool
}

// KeyFor returns the sprite key for a body
func KeyFor(body *entity.FloatingBody) SpriteKey {
	return SpriteKey{Policy: body.Policy, Settled: body.State == entity.Settled}
}

var (
	orangeColor  = color.NRGBA{R: 255, G: 140, B: 0, A: 255}
	leafColor    = color.NRGBA{R: 70, G: 170, B: 60, A: 255}
	settledColor = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	rimColor     = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	waterColor   = color.NRGBA{R: 30, G: 90, B: 200, A: 160}
)

// SpriteSet holds the generated body and water images. Images are built in
// software; textures are only created by Load, which needs a GL context.
type SpriteSet struct {
	size     int
	images   map[SpriteKey]*image.NRGBA
	water    *image.NRGBA
	textures map[SpriteKey]common.Drawable
	waterTex common.Drawable
}

// NewSpriteSet builds sprites size pixels across
func NewSpriteSet(size int) *SpriteSet {
	if size < 4 {
		size = 4
	}
	s := &SpriteSet{
		size:     size,
		images:   make(map[SpriteKey]*image.NRGBA),
		textures: make(map[SpriteKey]common.Drawable),
	}
	for _, p := range []entity.Policy{entity.OpenWater, entity.Contained, entity.SurfaceLocked} {
		s.images[SpriteKey{Policy: p}] = s.bodyImage(p, false)
		s.images[SpriteKey{Policy: p, Settled: true}] = s.bodyImage(p, true)
	}
	s.water = solidImage(size, size, waterColor)
	return s
}

// Size returns the sprite edge length in pixels
func (s *SpriteSet) Size() int {
	return s.size
}

// Image returns the generated image for key
func (s *SpriteSet) Image(key SpriteKey) (*image.NRGBA, bool) {
	img, ok := s.images[key]
	return img, ok
}

// WaterImage returns the water tile
func (s *SpriteSet) WaterImage() *image.NRGBA {
	return s.water
}

// Load uploads every image as a texture
func (s *SpriteSet) Load() error {
	for key, img := range s.images {
		s.textures[key] = common.NewTextureSingle(common.NewImageObject(img))
	}
	s.waterTex = common.NewTextureSingle(common.NewImageObject(s.water))
	return nil
}

// Drawable returns the loaded texture for key
func (s *SpriteSet) Drawable(key SpriteKey) (common.Drawable, bool) {
	d, ok := s.textures[key]
	return d, ok
}

// WaterDrawable returns the loaded water tile, or nil before Load
func (s *SpriteSet) WaterDrawable() common.Drawable {
	return s.waterTex
}

func (s *SpriteSet) bodyImage(policy entity.Policy, settled bool) *image.NRGBA {
	fill := orangeColor
	if policy == entity.SurfaceLocked {
		fill = leafColor
	}
	if settled {
		fill = settledColor
	}

	img := image.NewNRGBA(image.Rect(0, 0, s.size, s.size))
	c := float64(s.size-1) / 2
	r := float64(s.size) / 2
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			var inside, rim bool
			switch policy {
			case entity.SurfaceLocked:
				// Flat diamond, like a leaf lying on the water.
				d := abs(dx)/r + abs(dy)/(r*0.5)
				inside, rim = d <= 1, d > 0.8
			default:
				d := dx*dx + dy*dy
				inside, rim = d <= r*r, d > (r-1.5)*(r-1.5)
			}
			switch {
			case !inside:
			case rim && policy == entity.Contained:
				img.SetNRGBA(x, y, rimColor)
			default:
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
