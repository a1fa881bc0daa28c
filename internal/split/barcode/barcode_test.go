package barcode

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

func TestFromText(t *testing.T) {
	reader := NewReader()

	testCases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "Too Short To Carry Signal",
			text: "12345",
			want: "",
		},
		{
			name: "Seven Digits Pass Gate But Match Nothing",
			text: "1234567",
			want: "",
		},
		{
			name: "Bare Digit Run",
			text: "some header text 1122334455 footer",
			want: "1122334455",
		},
		{
			name: "Digit Run Too Long",
			text: "serial 123456789012345678901 end",
			want: "",
		},
		{
			name: "Arabic Label",
			text: "باركود: 12345",
			want: "12345",
		},
		{
			name: "Barcode Label Without Colon",
			text: "Barcode 998877",
			want: "998877",
		},
		{
			name: "Code Label Tight",
			text: "something Code:55667 trailing",
			want: "55667",
		},
		{
			name: "Lowercase Barcode Label",
			text: "barcode: 12345",
			want: "12345",
		},
		{
			name: "Uppercase Code Label",
			text: "header CODE: 55667 footer",
			want: "55667",
		},
		{
			name: "Raqm Label With Spaces",
			text: "الوثيقة رقم : 4321",
			want: "4321",
		},
		{
			name: "Bare Run Beats Labels",
			text: "Code: 111 and also 87654321 in the body",
			want: "87654321",
		},
		{
			name: "Short Candidate Rejected Next Pattern Wins",
			text: "density filler Code: 12 then رقم: 4567",
			want: "4567",
		},
		{
			name: "Nothing Decodable",
			text: "plain prose with no numbers at all",
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := reader.FromText(tc.text)
			if got != tc.want {
				t.Errorf("FromText(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func encodeCode128(t *testing.T, content string) image.Image {
	t.Helper()
	matrix, err := oned.NewCode128Writer().Encode(content, gozxing.BarcodeFormat_CODE_128, 400, 80, nil)
	if err != nil {
		t.Fatalf("encoding fixture barcode: %v", err)
	}

	img := image.NewGray(image.Rect(0, 0, matrix.GetWidth(), matrix.GetHeight()))
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// colorize copies a fixture barcode onto an RGBA canvas, the shape a page
// render arrives in before grayscale normalization.
func colorize(src image.Image) image.Image {
	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Src)
	return rgba
}

func TestDecode_Code128(t *testing.T) {
	reader := NewReader()

	got := reader.Decode(context.Background(), encodeCode128(t, "20240115001"))
	if got != "20240115001" {
		t.Errorf("Decode = %q, want %q", got, "20240115001")
	}
}

func TestDecode_ColorImage(t *testing.T) {
	reader := NewReader()

	got := reader.Decode(context.Background(), colorize(encodeCode128(t, "20240115001")))
	if got != "20240115001" {
		t.Errorf("Decode of color render = %q, want %q", got, "20240115001")
	}
}

func TestDecode_BlankImage(t *testing.T) {
	reader := NewReader()

	blank := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			blank.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	if got := reader.Decode(context.Background(), blank); got != "" {
		t.Errorf("Decode of blank image = %q, want empty", got)
	}
}

func TestDecode_NilImage(t *testing.T) {
	reader := NewReader()
	if got := reader.Decode(context.Background(), nil); got != "" {
		t.Errorf("Decode(nil) = %q, want empty", got)
	}
}

func TestDecodeZbar(t *testing.T) {
	if _, err := exec.LookPath("zbarimg"); err != nil {
		t.Skip("zbarimg not installed")
	}

	reader := NewReader()
	got := reader.decodeZbar(context.Background(), encodeCode128(t, "555666777"))
	if got != "555666777" {
		t.Errorf("decodeZbar = %q, want %q", got, "555666777")
	}

	// color input is normalized to grayscale before the subprocess sees it
	got = reader.decodeZbar(context.Background(), colorize(encodeCode128(t, "555666777")))
	if got != "555666777" {
		t.Errorf("decodeZbar of color render = %q, want %q", got, "555666777")
	}
}

func TestDecodeZbar_MissingBinary(t *testing.T) {
	reader := &Reader{zbarPath: filepath.Join(os.TempDir(), "definitely-not-zbarimg")}

	// a broken path behaves like an absent binary: silence, not an error
	if got := reader.decodeZbar(context.Background(), encodeCode128(t, "12121212")); got != "" {
		t.Errorf("decodeZbar with broken binary = %q, want empty", got)
	}
}
