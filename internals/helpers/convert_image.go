// file: internals/helpers/convert_image.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	avatarMaxUploadBytes = 5 << 20 // 5MB
	avatarMaxDimension   = 512
	avatarWebPQuality    = 85
)

/* =======================================================================
   Decode gambar (jpeg/png/webp) dari []byte dengan sniff MIME
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	var (
		img image.Image
		err error
	)

	switch {
	case strings.Contains(ct, "jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		img, err = png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		// fallback by extension
		ext := strings.ToLower(filepath.Ext(filename))
		switch ext {
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(bytes.NewReader(all))
		case ".png":
			img, err = png.Decode(bytes.NewReader(all))
		case ".webp":
			img, err = webp.Decode(bytes.NewReader(all))
		default:
			return nil, fmt.Errorf("format tidak didukung: %s / %s", ct, ext)
		}
	}
	return img, err
}

/* =======================================================================
   SaveAvatarWebP: decode → fit ≤512px → encode WebP → simpan ke disk.
   Return path publik (relatif terhadap mount statis /uploads).
======================================================================= */

func SaveAvatarWebP(fileHeader *multipart.FileHeader, dir, publicPath string) (string, error) {
	if fileHeader.Size > avatarMaxUploadBytes {
		return "", fmt.Errorf("ukuran file melebihi %dMB", avatarMaxUploadBytes>>20)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(io.LimitReader(src, avatarMaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("gagal membaca file: %w", err)
	}
	if len(all) > avatarMaxUploadBytes {
		return "", fmt.Errorf("ukuran file melebihi %dMB", avatarMaxUploadBytes>>20)
	}

	img, err := decodeImage(all, fileHeader.Filename)
	if err != nil {
		return "", err
	}

	// Fit ke dalam kotak 512x512, aspect ratio tetap
	img = imaging.Fit(img, avatarMaxDimension, avatarMaxDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: avatarWebPQuality}); err != nil {
		return "", fmt.Errorf("gagal konversi ke WebP: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("gagal menyiapkan folder avatar: %w", err)
	}

	name := fmt.Sprintf("%s-%s.webp", time.Now().Format("20060102"), uuid.New().String())
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("gagal menyimpan avatar: %w", err)
	}

	return strings.TrimRight(publicPath, "/") + "/" + name, nil
}

// RemoveAvatarFile menghapus file avatar lama (best-effort, dipanggil saat replace).
func RemoveAvatarFile(dir, publicPath, storedPath string) {
	prefix := strings.TrimRight(publicPath, "/") + "/"
	if !strings.HasPrefix(storedPath, prefix) {
		return
	}
	name := strings.TrimPrefix(storedPath, prefix)
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return
	}
	_ = os.Remove(filepath.Join(dir, name))
}
