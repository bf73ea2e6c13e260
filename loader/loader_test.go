package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"testing/fstest"

	"github.com/oliverbestmann/rtcylinder/scene"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"vt_logo_200x200_must.jpg": {Data: encodeJPEG(t, 200, 200)},
		"logo.png":                 {Data: encodePNG(t, 16, 8)},
		"broken.jpg":               {Data: []byte("not an image")},
	}
}

func TestLoadSuccess(t *testing.T) {
	l := New(DirSource{FS: testFS(t)})
	defer l.Close()

	var results []Result
	texture := l.Load("/vt_logo_200x200_must.jpg", func(r Result) {
		results = append(results, r)
	})

	if texture.Status != scene.TexturePending {
		t.Errorf("Status = %s before Poll, want pending", texture.Status)
	}

	l.Wait()

	if texture.Status != scene.TexturePending {
		t.Errorf("Status = %s before Poll, texture changed off thread", texture.Status)
	}

	if n := l.Poll(); n != 1 {
		t.Fatalf("Poll applied %d results, want 1", n)
	}

	if texture.Status != scene.TextureLoaded || texture.Image == nil {
		t.Fatalf("Status = %s, Image = %v, want loaded", texture.Status, texture.Image)
	}

	if b := texture.Image.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("image size = %v, want 200x200", b)
	}

	if len(results) != 1 || results[0].Err != nil || results[0].Texture != texture {
		t.Errorf("callback results = %+v", results)
	}

	if l.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", l.Pending())
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing", "/does_not_exist.jpg"},
		{"undecodable", "/broken.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(DirSource{FS: testFS(t)})
			defer l.Close()

			var result Result
			texture := l.Load(tt.path, func(r Result) { result = r })

			l.Wait()
			l.Poll()

			if texture.Status != scene.TextureFailed || texture.Err == nil {
				t.Errorf("Status = %s, Err = %v, want failed", texture.Status, texture.Err)
			}

			if texture.Image != nil {
				t.Error("failed texture has an image")
			}

			if result.Err == nil || result.Path != tt.path {
				t.Errorf("callback result = %+v, want error for %s", result, tt.path)
			}
		})
	}
}

func TestLoadColorSpace(t *testing.T) {
	l := New(DirSource{FS: testFS(t)})
	defer l.Close()

	l.ColorSpace = scene.SRGBColorSpace

	texture := l.Load("/logo.png", nil)
	if texture.ColorSpace != scene.SRGBColorSpace {
		t.Errorf("ColorSpace = %s, want srgb", texture.ColorSpace)
	}

	l.Wait()
	l.Poll()

	if texture.Status != scene.TextureLoaded {
		t.Errorf("Status = %s, want loaded", texture.Status)
	}
}

func TestLoadPending(t *testing.T) {
	l := New(DirSource{FS: testFS(t)})
	defer l.Close()

	l.Load("/logo.png", nil)
	l.Load("/vt_logo_200x200_must.jpg", nil)

	if l.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", l.Pending())
	}

	l.Wait()

	if n := l.Poll(); n != 2 {
		t.Errorf("Poll applied %d results, want 2", n)
	}

	if n := l.Poll(); n != 0 {
		t.Errorf("second Poll applied %d results, want 0", n)
	}
}

func TestFitTextureSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{200, 200, 8192, 200, 200},
		{400, 100, 200, 200, 50},
		{100, 400, 200, 50, 200},
		{300, 300, 0, 300, 300},
	}

	for _, tt := range tests {
		img := fitTextureSize(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.max)

		if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("fitTextureSize(%dx%d, %d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.max, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestHTTPSource(t *testing.T) {
	pngData := encodePNG(t, 4, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/logo.png" {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write(pngData)
	}))
	defer srv.Close()

	base, _ := url.Parse(srv.URL + "/assets/")
	source := HTTPSource{BaseURL: base, Client: srv.Client()}

	for _, name := range []string{"logo.png", "/logo.png", "/./logo.png"} {
		body, err := source.Open(context.Background(), name)
		if err != nil {
			t.Errorf("Open(%q): %v", name, err)
			continue
		}

		data, _ := io.ReadAll(body)
		_ = body.Close()

		if !bytes.Equal(data, pngData) {
			t.Errorf("Open(%q): served data differs", name)
		}
	}

	if _, err := source.Open(context.Background(), "missing.png"); err == nil {
		t.Error("Open of missing asset succeeded")
	}
}

func TestDirSourceStripsSlash(t *testing.T) {
	source := DirSource{FS: testFS(t)}

	for _, name := range []string{"/logo.png", "logo.png", "/./logo.png"} {
		fp, err := source.Open(context.Background(), name)
		if err != nil {
			t.Errorf("Open(%q): %v", name, err)
			continue
		}

		_ = fp.Close()
	}
}
