// file: internals/features/sync/images/service/image_fetcher.go
package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	PublicPrefix     = "/images"
	defaultExtension = ".jpg"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".svg": true,
}

// ImageFetcher mengunduh gambar soal dari remote dan menyimpannya di folder lokal
// agar bisa dilayani server tanpa internet.
type ImageFetcher struct {
	BaseURL  *url.URL // origin backend remote (Supabase)
	APIKey   string
	Dir      string
	MaxBytes int64
	MaxWidth int
	Client   *http.Client
}

func NewImageFetcher(baseURL, apiKey, dir string, maxBytes int64, maxWidth int, timeout time.Duration) (*ImageFetcher, error) {
	var base *url.URL
	if strings.TrimSpace(baseURL) != "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, errors.Errorf("SUPABASE_URL tidak valid: %q", baseURL)
		}
		base = u
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "gagal membuat folder gambar")
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	f := &ImageFetcher{
		BaseURL:  base,
		APIKey:   apiKey,
		Dir:      dir,
		MaxBytes: maxBytes,
		MaxWidth: maxWidth,
	}
	f.Client = &http.Client{Timeout: timeout, CheckRedirect: f.checkRedirect}
	return f, nil
}

const maxRedirects = 10

// checkRedirect: header custom (apikey) ikut disalin net/http saat redirect,
// jadi credential dibuang begitu tujuan redirect keluar dari origin sendiri.
func (f *ImageFetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.Errorf("terlalu banyak redirect (%d)", len(via))
	}
	if !f.isOwnOrigin(req.URL) {
		stripCredentials(req.Header)
	}
	return nil
}

func stripCredentials(h http.Header) {
	h.Del("Authorization")
	h.Del("apikey")
}

// Fetch mengembalikan path lokal yang bisa dilayani (mis. "/images/question-<id>.png"),
// atau nil kalau ref kosong / gagal. Kegagalan tidak fatal, cukup di-log.
func (f *ImageFetcher) Fetch(ctx context.Context, ref string, questionID uuid.UUID) *string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	p, err := f.download(ctx, ref, questionID)
	if err != nil {
		log.Warn().Err(err).Str("question_id", questionID.String()).Str("ref", ref).Msg("[IMAGE] gagal unduh gambar, disimpan tanpa gambar")
		return nil
	}
	return &p
}

func (f *ImageFetcher) download(ctx context.Context, ref string, questionID uuid.UUID) (string, error) {
	target, err := f.Resolve(ref)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", errors.Wrap(err, "gagal membuat request gambar")
	}
	if f.isOwnOrigin(target) && f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
		req.Header.Set("apikey", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request gambar gagal")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", errors.Errorf("status gambar %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "gagal membaca isi gambar")
	}
	if int64(len(data)) > f.MaxBytes {
		return "", errors.Errorf("gambar melebihi %d byte", f.MaxBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", errors.Errorf("konten bukan gambar (%s)", mt.String())
	}

	ext := extensionFromPath(target.Path)
	if ext == "" {
		ext = strings.ToLower(mt.Extension())
		if !imageExtensions[ext] {
			ext = defaultExtension
		}
	}

	if f.MaxWidth > 0 {
		if out, err := downscale(data, ext, f.MaxWidth); err != nil {
			log.Debug().Err(err).Str("question_id", questionID.String()).Msg("[IMAGE] resize dilewati")
		} else {
			data = out
		}
	}

	name := FileName(questionID, ext)
	if err := f.writeFile(name, data); err != nil {
		return "", err
	}
	f.removeStale(questionID, name)

	return PublicPrefix + "/" + name, nil
}

// Resolve: ref relatif di-resolve terhadap origin remote.
func (f *ImageFetcher) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, errors.Wrap(err, "url gambar tidak valid")
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, errors.Errorf("skema url gambar tidak didukung: %s", u.Scheme)
		}
		return u, nil
	}
	if f.BaseURL == nil {
		return nil, errors.New("url gambar relatif tapi SUPABASE_URL kosong")
	}
	return f.BaseURL.ResolveReference(u), nil
}

// Credential hanya dikirim ke origin backend sendiri, tidak ke host pihak ketiga.
func (f *ImageFetcher) isOwnOrigin(u *url.URL) bool {
	if f.BaseURL == nil {
		return false
	}
	return strings.EqualFold(u.Scheme, f.BaseURL.Scheme) && strings.EqualFold(u.Host, f.BaseURL.Host)
}

// FileName deterministik dari id soal: download ulang menimpa, tidak menumpuk.
func FileName(questionID uuid.UUID, ext string) string {
	return "question-" + questionID.String() + ext
}

func extensionFromPath(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if imageExtensions[ext] {
		return ext
	}
	return ""
}

func (f *ImageFetcher) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(f.Dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "gagal membuat file sementara")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "gagal menulis gambar")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "gagal menutup gambar")
	}
	if err := os.Rename(tmpName, filepath.Join(f.Dir, name)); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "gagal menyimpan gambar")
	}
	return nil
}

// removeStale menghapus file soal yang sama dengan ekstensi lain.
func (f *ImageFetcher) removeStale(questionID uuid.UUID, keep string) {
	matches, _ := filepath.Glob(filepath.Join(f.Dir, "question-"+questionID.String()+".*"))
	for _, m := range matches {
		if filepath.Base(m) != keep {
			_ = os.Remove(m)
		}
	}
}
