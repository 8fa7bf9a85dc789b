// Package render composites recipient text onto a certificate template.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"workshop-feedback/pkg/utils"
)

var (
	ErrMissingField  = errors.New("missing certificate data")
	ErrTemplateFetch = errors.New("template fetch failed")
	ErrTemplate      = errors.New("template is not a decodable image")
)

// Text placement on the template. Baselines are absolute pixel rows; x
// positions are fractions of the template width the text is centered on.
const (
	nameSize     = 40
	bodySize     = 30
	nameBaseline = 650
	workBaseline = 730
	provBaseline = 790
	nameXDivisor = 2.0
	workXDivisor = 1.67
	provXDivisor = 1.78
)

// Fields are the strings a certificate is issued for. All are required.
type Fields struct {
	Name         string
	WorkshopName string
	Provider     string
	Date         string
}

func (f Fields) Validate() error {
	switch {
	case utils.IsBlank(f.Name):
		return fmt.Errorf("%w: name", ErrMissingField)
	case utils.IsBlank(f.WorkshopName):
		return fmt.Errorf("%w: workshopName", ErrMissingField)
	case utils.IsBlank(f.Provider):
		return fmt.Errorf("%w: provider", ErrMissingField)
	case utils.IsBlank(f.Date):
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	return nil
}

// TemplateFetcher downloads template images.
type TemplateFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Renderer struct {
	fetcher TemplateFetcher
	font    *opentype.Font
}

func New(fetcher TemplateFetcher) (*Renderer, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("error parsing certificate font: %w", err)
	}
	return &Renderer{fetcher: fetcher, font: f}, nil
}

// Render fetches the template at templateURL and returns the finished
// certificate as PNG bytes with the template's dimensions.
func (r *Renderer) Render(ctx context.Context, templateURL string, f Fields) ([]byte, error) {
	const op = "render.Render"

	if err := f.Validate(); err != nil {
		return nil, err
	}

	raw, err := r.fetcher.Fetch(ctx, templateURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTemplateFetch, err)
	}

	tpl, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	img, err := r.Composite(tpl, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%s: error encoding png: %w", op, err)
	}
	return buf.Bytes(), nil
}

func Decode(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return img, nil
}

// Composite draws tpl onto a canvas of the same size and writes the
// recipient text over it.
func (r *Renderer) Composite(tpl image.Image, f Fields) (*image.RGBA, error) {
	b := tpl.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), tpl, b.Min, draw.Src)

	// Faces keep internal buffers, so each render gets its own.
	nameFace, err := r.face(nameSize)
	if err != nil {
		return nil, err
	}
	defer nameFace.Close()

	bodyFace, err := r.face(bodySize)
	if err != nil {
		return nil, err
	}
	defer bodyFace.Close()

	w := float64(b.Dx())
	drawCentered(canvas, nameFace, f.Name, w/nameXDivisor, nameBaseline)
	drawCentered(canvas, bodyFace, f.WorkshopName, w/workXDivisor, workBaseline)
	drawCentered(canvas, bodyFace, "By "+f.Provider, w/provXDivisor, provBaseline)

	return canvas, nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating %vpx font face: %w", size, err)
	}
	return face, nil
}

func drawCentered(dst draw.Image, face font.Face, text string, centerX float64, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(centerX*64) - width/2,
		Y: fixed.I(baseline),
	}
	d.DrawString(text)
}
