package cardimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/pkg/logger"
)

// Front side palette, a deep indigo gradient with light foreground.
var (
	gradientTop    = [3]float64{0.16, 0.20, 0.48}
	gradientBottom = [3]float64{0.28, 0.16, 0.56}
)

// Render rasterizes one card side at the given pixel ratio. A ratio of
// 1 yields the 340x214 preview; export uses dto.ExportPixelRatio.
func Render(layout *dto.CardLayout, pixelRatio float64) (image.Image, error) {
	if layout == nil {
		return nil, fmt.Errorf("nil layout")
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	w := int(dto.PreviewWidthPx * pixelRatio)
	h := int(dto.PreviewHeightPx * pixelRatio)
	dc := gg.NewContext(w, h)

	switch layout.Side {
	case dto.CardSideFront:
		if layout.Front == nil {
			return nil, fmt.Errorf("layout has no front side")
		}
		if err := drawFront(dc, layout.Front, pixelRatio); err != nil {
			return nil, err
		}
	case dto.CardSideBack:
		if layout.Back == nil {
			return nil, fmt.Errorf("layout has no back side")
		}
		if err := drawBack(dc, layout.Back, pixelRatio); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown card side %q", layout.Side)
	}

	return dc.Image(), nil
}

// RenderPNG rasterizes one card side and encodes it as PNG bytes.
func RenderPNG(layout *dto.CardLayout, pixelRatio float64) ([]byte, error) {
	img, err := Render(layout, pixelRatio)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode card image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawFront(dc *gg.Context, front *dto.CardFront, r float64) error {
	w := float64(dc.Width())
	h := float64(dc.Height())

	// Background gradient
	grad := gg.NewLinearGradient(0, 0, w, h)
	grad.AddColorStop(0, rgb(gradientTop))
	grad.AddColorStop(1, rgb(gradientBottom))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	pad := 16 * r

	// Header: emblem box plus institution name and tagline
	dc.SetRGBA(1, 1, 1, 0.10)
	dc.DrawRoundedRectangle(pad, pad, 40*r, 40*r, 8*r)
	dc.Fill()
	dc.SetRGBA(1, 1, 1, 0.85)
	if err := setFace(dc, boldFont, 16*r); err != nil {
		return err
	}
	dc.DrawStringAnchored("ID", pad+20*r, pad+20*r, 0.5, 0.35)

	dc.SetRGB(1, 1, 1)
	if err := setFace(dc, boldFont, 13*r); err != nil {
		return err
	}
	dc.DrawString(front.InstitutionName, pad+48*r, pad+18*r)
	dc.SetRGBA(1, 1, 1, 0.70)
	if err := setFace(dc, regularFont, 9*r); err != nil {
		return err
	}
	dc.DrawString(front.Tagline, pad+48*r, pad+32*r)

	// Photo slot, 80x96, or the fallback initial glyph
	photoX, photoY := pad, 64*r
	photoW, photoH := 80*r, 96*r
	dc.SetRGBA(1, 1, 1, 0.20)
	dc.DrawRoundedRectangle(photoX, photoY, photoW, photoH, 8*r)
	dc.Fill()

	drawn := false
	if front.PhotoPath != "" {
		if img, err := imaging.Open(front.PhotoPath); err == nil {
			fitted := imaging.Fill(img, int(photoW), int(photoH), imaging.Center, imaging.Lanczos)
			dc.DrawImage(fitted, int(photoX), int(photoY))
			drawn = true
		} else {
			logger.Warn().Err(err).Str("path", front.PhotoPath).Msg("Card photo could not be loaded, using initial glyph")
		}
	}
	if !drawn && front.PhotoInitial != "" {
		dc.SetRGB(1, 1, 1)
		if err := setFace(dc, boldFont, 28*r); err != nil {
			return err
		}
		dc.DrawStringAnchored(front.PhotoInitial, photoX+photoW/2, photoY+photoH/2, 0.5, 0.35)
	}

	// Info column
	infoX := pad + photoW + 12*r
	y := 72 * r
	entries := []struct{ label, value string }{
		{"Name", front.Name},
		{"Roll No", front.RollNo},
		{"Program", front.Program},
		{"Blood Group", front.BloodGroup},
	}
	for _, e := range entries {
		dc.SetRGBA(1, 1, 1, 0.60)
		if err := setFace(dc, regularFont, 8*r); err != nil {
			return err
		}
		dc.DrawString(e.label, infoX, y)
		dc.SetRGB(1, 1, 1)
		if err := setFace(dc, regularFont, 11*r); err != nil {
			return err
		}
		dc.DrawString(truncate(e.value, 26), infoX, y+12*r)
		y += 26 * r
	}

	// Footer: validity window and QR symbol
	dc.SetRGBA(1, 1, 1, 0.20)
	dc.DrawLine(pad, h-48*r, w-pad, h-48*r)
	dc.SetLineWidth(1 * r)
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 0.60)
	if err := setFace(dc, regularFont, 8*r); err != nil {
		return err
	}
	validity := fmt.Sprintf("Valid: %s - %s", front.ValidFrom, front.ValidUntil)
	dc.DrawString(validity, pad, h-24*r)

	if front.QRPayload != "" {
		qrSize := int(40 * r)
		qr, err := qrcode.New(front.QRPayload, qrcode.Medium)
		if err != nil {
			return fmt.Errorf("failed to build QR symbol: %w", err)
		}
		qr.DisableBorder = true
		qrX := w - pad - float64(qrSize)
		qrY := h - pad - float64(qrSize)
		dc.SetRGB(1, 1, 1)
		dc.DrawRoundedRectangle(qrX-2*r, qrY-2*r, float64(qrSize)+4*r, float64(qrSize)+4*r, 4*r)
		dc.Fill()
		dc.DrawImage(qr.Image(qrSize), int(qrX), int(qrY))
	}

	return nil
}

func drawBack(dc *gg.Context, back *dto.CardBack, r float64) error {
	w := float64(dc.Width())
	h := float64(dc.Height())

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	pad := 16 * r

	// Header
	dc.SetRGB(0.10, 0.10, 0.14)
	if err := setFace(dc, boldFont, 13*r); err != nil {
		return err
	}
	dc.DrawStringAnchored("STUDENT ID CARD", w/2, pad+6*r, 0.5, 0.35)
	dc.SetRGB(0.45, 0.45, 0.50)
	if err := setFace(dc, regularFont, 9*r); err != nil {
		return err
	}
	dc.DrawStringAnchored(back.InstitutionName, w/2, pad+20*r, 0.5, 0.35)

	// Info rows, label column fixed at 80 preview px
	rows := []struct{ label, value string }{
		{"Father:", back.FatherName},
		{"Department:", back.Department},
		{"Session:", back.Session},
		{"Contact:", back.Contact},
		{"Address:", truncate(back.Address, 44)},
	}
	y := 62 * r
	for _, row := range rows {
		dc.SetRGB(0.45, 0.45, 0.50)
		if err := setFace(dc, regularFont, 9*r); err != nil {
			return err
		}
		dc.DrawString(row.label, pad, y)
		dc.SetRGB(0.10, 0.10, 0.14)
		dc.DrawString(row.value, pad+80*r, y)
		y += 16 * r
	}

	// Cosmetic barcode strip
	barTop := h - 56*r
	dc.SetRGBA(0, 0, 0, 0.05)
	dc.DrawRoundedRectangle(pad, barTop, w-2*pad, 32*r, 4*r)
	dc.Fill()

	barWidth := 2 * r
	gap := 2 * r
	total := float64(len(back.BarcodeBars)) * (barWidth + gap)
	x := (w - total) / 2
	for _, height := range back.BarcodeBars {
		bh := float64(height) * r
		dc.SetRGBA(0, 0, 0, 0.70)
		dc.DrawRectangle(x, barTop+16*r-bh/2, barWidth, bh)
		dc.Fill()
		x += barWidth + gap
	}

	dc.SetRGB(0.45, 0.45, 0.50)
	if err := setFace(dc, regularFont, 8*r); err != nil {
		return err
	}
	dc.DrawStringAnchored("Emergency: "+back.EmergencyContact, w/2, h-14*r, 0.5, 0.35)

	return nil
}

func rgb(c [3]float64) color.Color {
	return color.NRGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: 255,
	}
}

// truncate shortens long free-text values so they stay inside the card
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
