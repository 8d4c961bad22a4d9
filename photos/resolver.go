package photos

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"voyara/models"
)

// Photo is one image ready for document embedding.
type Photo struct {
	Name  string // registration key, unique per document
	Bytes []byte // JPEG-encoded
}

// Resolver loads and downscales segment photos for document rendering.
// BaseDir is the upload root; MaxWidth bounds the embedded width in
// pixels (0 means 900).
type Resolver struct {
	BaseDir  string
	MaxWidth int
}

func NewResolver(baseDir string) *Resolver {
	return &Resolver{BaseDir: baseDir, MaxWidth: 900}
}

// ResolveAll fans out one goroutine per segment and joins before
// returning. A failed segment simply has no photos in the result; a
// broken image never fails the whole export.
func (r *Resolver) ResolveAll(segments []*models.TripSegment) map[string][]Photo {
	results := make([][]Photo, len(segments))

	var wg sync.WaitGroup
	for i, seg := range segments {
		if len(seg.Photos) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, seg *models.TripSegment) {
			defer wg.Done()
			results[i] = r.load(seg)
		}(i, seg)
	}
	wg.Wait()

	out := make(map[string][]Photo, len(segments))
	for i, seg := range segments {
		if len(results[i]) > 0 {
			out[seg.SegmentID] = results[i]
		}
	}
	return out
}

func (r *Resolver) load(seg *models.TripSegment) []Photo {
	maxW := r.MaxWidth
	if maxW <= 0 {
		maxW = 900
	}

	var photos []Photo
	for n, rel := range seg.Photos {
		path := filepath.Join(r.BaseDir, filepath.Clean("/"+rel))
		img, err := imaging.Open(path)
		if err != nil {
			log.Printf("[Photos] open %s: %v", rel, err)
			continue
		}
		if img.Bounds().Dx() > maxW {
			img = imaging.Resize(img, maxW, 0, imaging.Lanczos)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(82)); err != nil {
			log.Printf("[Photos] encode %s: %v", rel, err)
			continue
		}
		photos = append(photos, Photo{
			Name:  fmt.Sprintf("%s-%d", seg.SegmentID, n),
			Bytes: buf.Bytes(),
		})
	}
	return photos
}

// SaveImage normalizes an uploaded image: auto-orients it, bounds the
// width at 1600px and stores it under subdir/ with a fresh name. PNG
// input stays PNG so logo transparency survives; everything else is
// re-encoded as JPEG. Returns the stored path relative to baseDir.
func SaveImage(baseDir, subdir string, src io.Reader, ext string) (string, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > 1600 {
		img = imaging.Resize(img, 1600, 0, imaging.Lanczos)
	}

	if strings.ToLower(ext) != ".png" {
		ext = ".jpg"
	}
	rel := path.Join(subdir, uuid.New().String()+strings.ToLower(ext))
	dst := filepath.Join(baseDir, filepath.Clean("/"+rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := imaging.Save(img, dst, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return rel, nil
}

// Thumbnail writes a small preview next to the original upload and
// returns its relative path. Used by the document vault.
func Thumbnail(baseDir, rel string) (string, error) {
	src := filepath.Join(baseDir, filepath.Clean("/"+rel))
	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", rel, err)
	}
	thumb := imaging.Fit(img, 320, 320, imaging.Lanczos)

	ext := filepath.Ext(rel)
	thumbRel := strings.TrimSuffix(rel, ext) + "_thumb.jpg"
	dst := filepath.Join(baseDir, filepath.Clean("/"+thumbRel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	return thumbRel, nil
}
