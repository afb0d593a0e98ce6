package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
)

const (
	// MaxSize is the largest accepted upload in bytes.
	MaxSize = 2 * 1024 * 1024

	// Side is the width and height of the stored square avatar.
	Side = 256
)

var (
	ErrTooLarge        = errors.New("file too large (max 2MB)")
	ErrUnsupportedType = errors.New("only JPG, PNG, WEBP allowed")
	ErrEmpty           = errors.New("file is empty")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store writes processed avatars into a directory served under a public prefix.
type Store struct {
	dir          string
	publicPrefix string
}

// NewStore creates a store rooted at dir whose files are served at publicPrefix.
func NewStore(dir, publicPrefix string) *Store {
	return &Store{
		dir:          dir,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}
}

// Init creates the avatar directory if it doesn't exist
func (s *Store) Init() error {
	return os.MkdirAll(s.dir, 0755)
}

// Dir returns the directory avatars are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates an uploaded image, crops it to a Side x Side square and
// stores it as WebP. It returns the public URL path of the stored file.
func (s *Store) Save(userID int64, r io.Reader) (string, error) {
	// Read one byte past the limit so oversized uploads are detected without buffering them whole.
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data).String()
	if !allowedTypes[mtype] {
		return "", ErrUnsupportedType
	}

	img, err := decode(data, mtype)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	square := imaging.Fill(img, Side, Side, imaging.Center, imaging.Lanczos)

	if err := s.Init(); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}

	filename := fmt.Sprintf("avatar_%d_%s.webp", userID, ulid.Make().String())
	target := filepath.Join(s.dir, filename)
	if err := webp.Save(target, square, &webp.Options{Quality: 85}); err != nil {
		os.Remove(target) // Clean up partial file
		return "", fmt.Errorf("save avatar: %w", err)
	}

	log.Printf("Stored avatar for user %d: %s", userID, filename)
	return s.publicPrefix + "/" + filename, nil
}

// Remove deletes a previously stored avatar given its public URL.
// URLs outside this store are ignored.
func (s *Store) Remove(publicURL string) error {
	if !strings.HasPrefix(publicURL, s.publicPrefix+"/") {
		return nil
	}
	name := path.Base(publicURL)
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil // Already doesn't exist
	}
	return err
}

func decode(data []byte, mtype string) (image.Image, error) {
	if mtype == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}
