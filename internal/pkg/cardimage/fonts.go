package cardimage

import (
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Embedded Go fonts keep rendering self-contained; no font files are
// shipped or looked up on the host.
type fontKind int

const (
	regularFont fontKind = iota
	boldFont
)

var (
	fontOnce    sync.Once
	fontErr     error
	regularFace *opentype.Font
	boldFace    *opentype.Font

	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

type faceKey struct {
	kind fontKind
	size float64
}

func loadFonts() {
	regularFace, fontErr = opentype.Parse(goregular.TTF)
	if fontErr != nil {
		fontErr = fmt.Errorf("failed to parse regular font: %w", fontErr)
		return
	}
	boldFace, fontErr = opentype.Parse(gobold.TTF)
	if fontErr != nil {
		fontErr = fmt.Errorf("failed to parse bold font: %w", fontErr)
	}
}

// face returns a cached font.Face for the given kind and pixel size
func face(kind fontKind, size float64) (font.Face, error) {
	fontOnce.Do(loadFonts)
	if fontErr != nil {
		return nil, fontErr
	}

	faceMu.Lock()
	defer faceMu.Unlock()

	key := faceKey{kind: kind, size: size}
	if f, ok := faceCache[key]; ok {
		return f, nil
	}

	src := regularFace
	if kind == boldFont {
		src = boldFace
	}

	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}

	faceCache[key] = f
	return f, nil
}

// setFace installs a font face on the drawing context
func setFace(dc *gg.Context, kind fontKind, size float64) error {
	f, err := face(kind, size)
	if err != nil {
		return err
	}
	dc.SetFontFace(f)
	return nil
}
