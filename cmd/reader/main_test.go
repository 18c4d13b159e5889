package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="content.opf"/></rootfiles>
</container>`

const testPackage = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Two Chapters</dc:title>
  </metadata>
  <manifest>
    <item id="a" href="a.xhtml" media-type="application/xhtml+xml"/>
    <item id="b" href="b.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="a"/><itemref idref="b"/></spine>
</package>`

func writeBook(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := [][2]string{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", testContainer},
		{"content.opf", testPackage},
		{"a.xhtml", "<html><body><p>First</p></body></html>"},
		{"b.xhtml", "<html><body><p>Second</p></body></html>"},
	}
	for _, f := range files {
		w, err := zw.Create(f[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(f[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "book.epub")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		outputFormat = "yaml"
		forceInit = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSpineCommand(t *testing.T) {
	book := writeBook(t)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "spine", book, "-o", "json")
		if err != nil {
			t.Fatalf("spine: %v", err)
		}
		var report spineReport
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if report.Title != "Two Chapters" || report.Chapters != 2 {
			t.Errorf("report = %+v", report)
		}
		if len(report.Spine) != 2 || report.Spine[1].Page != 2 || report.Spine[1].Href != "b.xhtml" {
			t.Errorf("spine = %+v", report.Spine)
		}
		if len(report.BLAKE3) != 64 {
			t.Errorf("digest = %q", report.BLAKE3)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "spine", book)
		if err != nil {
			t.Fatalf("spine: %v", err)
		}
		var report spineReport
		if err := yaml.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if report.Spine[0].ID != "a" {
			t.Errorf("spine = %+v", report.Spine)
		}
	})

	t.Run("missing book", func(t *testing.T) {
		if _, err := execute(t, "spine", filepath.Join(t.TempDir(), "none.epub")); err == nil {
			t.Error("Expected error for a missing book")
		}
	})
}

func TestWriteOutputUnknownFormat(t *testing.T) {
	err := writeOutput(&bytes.Buffer{}, "xml", struct{}{})
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("Expected unknown format error, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("Expected refusal to overwrite")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}
