// Package epub reads the reading order of EPUB books.
//
// Only the container, the package document's manifest and its spine are
// interpreted. Content documents are returned as raw bytes.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Errors returned while opening a book.
var (
	ErrNotEPUB     = errors.New("epub: not an EPUB container")
	ErrNoSpine     = errors.New("epub: spine is empty")
	ErrItemMissing = errors.New("epub: item missing")
)

const (
	containerPath = "META-INF/container.xml"
	mimetypePath  = "mimetype"
	mimetype      = "application/epub+zip"
)

// Compiled once; EPUB documents use namespaces inconsistently so names are
// matched on local-name only.
var (
	rootfileExpr = xpath.MustCompile(`//*[local-name()='rootfile'][@full-path]`)
	titleExpr    = xpath.MustCompile(`//*[local-name()='metadata']/*[local-name()='title']`)
	creatorExpr  = xpath.MustCompile(`//*[local-name()='metadata']/*[local-name()='creator']`)
	languageExpr = xpath.MustCompile(`//*[local-name()='metadata']/*[local-name()='language']`)
	itemExpr     = xpath.MustCompile(`//*[local-name()='manifest']/*[local-name()='item']`)
	itemrefExpr  = xpath.MustCompile(`//*[local-name()='spine']/*[local-name()='itemref']`)
)

// SpineItem is one entry of the reading order.
type SpineItem struct {
	IDRef     string `json:"idref" yaml:"idref"`
	Href      string `json:"href" yaml:"href"`
	MediaType string `json:"media_type" yaml:"media_type"`
	Size      uint64 `json:"size" yaml:"size"`
	Linear    bool   `json:"linear" yaml:"linear"`
}

// Book is an opened EPUB. It is safe for concurrent reads.
type Book struct {
	Title    string
	Creator  string
	Language string
	Spine    []SpineItem

	raw     []byte
	files   map[string]*zip.File
	opfPath string
}

// Open reads the book at path. Files ending in .xz are decompressed first.
func Open(filename string) (*Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read book: %w", err)
	}

	if strings.HasSuffix(filename, ".xz") {
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		data, err = io.ReadAll(xzr)
		if err != nil {
			return nil, fmt.Errorf("decompress book: %w", err)
		}
	}

	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if b.Title == "" {
		base := filepath.Base(filename)
		b.Title = strings.TrimSuffix(strings.TrimSuffix(base, ".xz"), ".epub")
	}
	return b, nil
}

// Parse reads a book from the bytes of an EPUB archive.
func Parse(data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEPUB, err)
	}

	b := &Book{
		raw:   data,
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		b.files[f.Name] = f
	}

	if err := b.checkMimetype(); err != nil {
		return nil, err
	}

	b.opfPath, err = b.rootfile()
	if err != nil {
		return nil, err
	}
	if err := b.readPackage(); err != nil {
		return nil, err
	}
	return b, nil
}

// checkMimetype rejects archives declaring a different media type.
// A missing mimetype entry is tolerated.
func (b *Book) checkMimetype() error {
	if _, ok := b.files[mimetypePath]; !ok {
		return nil
	}
	data, err := b.read(mimetypePath)
	if err != nil {
		return err
	}
	if got := strings.TrimSpace(string(data)); got != mimetype {
		return fmt.Errorf("%w: mimetype %q", ErrNotEPUB, got)
	}
	return nil
}

// rootfile returns the archive path of the package document.
func (b *Book) rootfile() (string, error) {
	if _, ok := b.files[containerPath]; !ok {
		return "", fmt.Errorf("%w: no %s", ErrNotEPUB, containerPath)
	}
	doc, err := b.parseXML(containerPath)
	if err != nil {
		return "", err
	}

	node := xmlquery.QuerySelector(doc, rootfileExpr)
	if node == nil {
		return "", fmt.Errorf("%w: container lists no rootfile", ErrNotEPUB)
	}
	return node.SelectAttr("full-path"), nil
}

type manifestItem struct {
	href      string
	mediaType string
}

// readPackage reads metadata, manifest and spine from the package document.
func (b *Book) readPackage() error {
	doc, err := b.parseXML(b.opfPath)
	if err != nil {
		return err
	}

	b.Title = innerText(doc, titleExpr)
	b.Creator = innerText(doc, creatorExpr)
	b.Language = innerText(doc, languageExpr)

	base := path.Dir(b.opfPath)
	manifest := make(map[string]manifestItem)
	for _, n := range xmlquery.QuerySelectorAll(doc, itemExpr) {
		href, err := resolveHref(base, n.SelectAttr("href"))
		if err != nil {
			return fmt.Errorf("manifest item %q: %w", n.SelectAttr("id"), err)
		}
		manifest[n.SelectAttr("id")] = manifestItem{
			href:      href,
			mediaType: n.SelectAttr("media-type"),
		}
	}

	for _, n := range xmlquery.QuerySelectorAll(doc, itemrefExpr) {
		idref := n.SelectAttr("idref")
		item, ok := manifest[idref]
		if !ok {
			return fmt.Errorf("%w: spine references unknown id %q", ErrItemMissing, idref)
		}
		f, ok := b.files[item.href]
		if !ok {
			return fmt.Errorf("%w: %s", ErrItemMissing, item.href)
		}
		b.Spine = append(b.Spine, SpineItem{
			IDRef:     idref,
			Href:      item.href,
			MediaType: item.mediaType,
			Size:      f.UncompressedSize64,
			Linear:    n.SelectAttr("linear") != "no",
		})
	}

	if len(b.Spine) == 0 {
		return ErrNoSpine
	}
	return nil
}

// Len returns the number of spine items.
func (b *Book) Len() int {
	return len(b.Spine)
}

// ItemID returns the manifest id of spine item i, or "" if out of range.
func (b *Book) ItemID(i int) string {
	if i < 0 || i >= len(b.Spine) {
		return ""
	}
	return b.Spine[i].IDRef
}

// ReadItem returns the content document of spine item i.
func (b *Book) ReadItem(i int) ([]byte, error) {
	if i < 0 || i >= len(b.Spine) {
		return nil, fmt.Errorf("%w: spine index %d of %d", ErrItemMissing, i, len(b.Spine))
	}
	return b.read(b.Spine[i].Href)
}

// Digest returns the hex BLAKE3-256 digest of the book archive.
func (b *Book) Digest() string {
	sum := blake3.Sum256(b.raw)
	return hex.EncodeToString(sum[:])
}

// ArchiveSize returns the size of the (uncompressed) archive in bytes.
func (b *Book) ArchiveSize() int {
	return len(b.raw)
}

func (b *Book) read(name string) ([]byte, error) {
	f, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemMissing, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (b *Book) parseXML(name string) (*xmlquery.Node, error) {
	data, err := b.read(name)
	if err != nil {
		return nil, err
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return doc, nil
}

func innerText(doc *xmlquery.Node, expr *xpath.Expr) string {
	n := xmlquery.QuerySelector(doc, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}

// resolveHref turns a manifest href into an archive path relative to the
// package document's directory.
func resolveHref(base, href string) (string, error) {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	unescaped, err := url.PathUnescape(href)
	if err != nil {
		return "", err
	}
	return path.Join(base, unescaped), nil
}
