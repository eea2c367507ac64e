package iconconv

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tenntenn/golden"
	"golang.org/x/image/bmp"
)

func writeTestPNG(t *testing.T, path string, size int, at func(x, y int) color.NRGBA) {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			m.SetNRGBA(x, y, at(x, y))
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, m); err != nil {
		t.Fatal(err)
	}
}

// blackSquare is the end-to-end fixture: an opaque black square on a
// fully transparent surround.
func blackSquare(x, y int) color.NRGBA {
	if x >= 12 && x < 36 && y >= 12 && y < 36 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{}
}

func TestConvertMissingSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := New(WithSourceDir(filepath.Join(dir, "material")), WithOutDir(dir))
	if err != nil {
		t.Fatal(err)
	}

	ok, err := c.Convert(ctx, "edit")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Convert() = true, want false for missing source")
	}
	if _, err := os.Stat(c.OutPath("edit")); !os.IsNotExist(err) {
		t.Error("no output file must be written for a missing source")
	}
}

func TestConvertEndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "material")
	writeTestPNG(t, filepath.Join(srcDir, "edit.png"), IconSize, blackSquare)
	c, err := New(WithSourceDir(srcDir), WithOutDir(dir))
	if err != nil {
		t.Fatal(err)
	}

	ok, err := c.Convert(ctx, "edit")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Convert() = false, want true")
	}

	f, err := os.Open(c.OutPath("edit"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != IconSize || img.Bounds().Dy() != IconSize {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), IconSize, IconSize)
	}
	if diff := cmp.Diff(color.RGBA{60, 60, 60, 255}, color.RGBAModel.Convert(img.At(24, 24))); diff != "" {
		t.Errorf("square region: %s", diff)
	}
	if diff := cmp.Diff(color.RGBA{255, 0, 255, 255}, color.RGBAModel.Convert(img.At(0, 0))); diff != "" {
		t.Errorf("surround: %s", diff)
	}
}

func TestConvertAll(t *testing.T) {
	ctx := context.Background()
	// Relative paths keep the skip lines in the report stable.
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
	for _, name := range []string{"edit", "start", "stop"} {
		writeTestPNG(t, filepath.Join("material", name+".png"), IconSize, blackSquare)
	}
	c, err := New(WithSourceDir("material"), WithOutDir("out"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.ConvertAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Converted != 3 || res.Total != 7 {
		t.Errorf("Converted/Total = %d/%d, want 3/7", res.Converted, res.Total)
	}
	if got, want := res.Summary(), "Converted 3/7 icons"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
	for _, e := range res.Entries {
		_, err := os.Stat(c.OutPath(e.Name))
		if e.Converted && err != nil {
			t.Errorf("missing output for converted icon %s: %v", e.Name, err)
		}
		if !e.Converted && !os.IsNotExist(err) {
			t.Errorf("unexpected output for skipped icon %s", e.Name)
		}
	}

	got := []byte(res.Report())
	goldenDir := filepath.Join(wd, "testdata")
	if os.Getenv("UPDATE_GOLDEN") != "" {
		golden.Update(t, goldenDir, "convert_report", got)
		return
	}
	if diff := golden.Diff(t, goldenDir, "convert_report", got); diff != "" {
		t.Error(diff)
	}
}

func TestConvertAllIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "material")
	writeTestPNG(t, filepath.Join(srcDir, "edit.png"), IconSize, blackSquare)
	c, err := New(WithSourceDir(srcDir), WithOutDir(dir), WithIcons([]string{"edit"}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.ConvertAll(ctx); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(c.OutPath("edit"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConvertAll(ctx); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(c.OutPath("edit"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("reruns with unchanged inputs must produce byte-identical output")
	}
}

func TestWithIcons(t *testing.T) {
	tests := []struct {
		name    string
		icons   []string
		wantErr bool
	}{
		{"subset", []string{"edit", "start"}, false},
		{"empty list keeps defaults", nil, false},
		{"empty name", []string{""}, true},
		{"path separator", []string{"../evil"}, true},
		{"extension included", []string{"edit.png"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(WithIcons(tt.icons))
			if tt.wantErr {
				if err == nil {
					t.Error("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			want := tt.icons
			if len(want) == 0 {
				want = DefaultIcons
			}
			if diff := cmp.Diff(want, c.Icons()); diff != "" {
				t.Error(diff)
			}
		})
	}
}
