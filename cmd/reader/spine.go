package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/go-theft-auto/triptych/epub"
)

var spineCmd = &cobra.Command{
	Use:   "spine <book>",
	Short: "List a book's reading order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := epub.Open(args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, newSpineReport(book))
	},
}

type spineReport struct {
	Title    string      `json:"title" yaml:"title"`
	Creator  string      `json:"creator,omitempty" yaml:"creator,omitempty"`
	Language string      `json:"language,omitempty" yaml:"language,omitempty"`
	Size     string      `json:"size" yaml:"size"`
	BLAKE3   string      `json:"blake3" yaml:"blake3"`
	Chapters int         `json:"chapters" yaml:"chapters"`
	Spine    []spineLine `json:"spine" yaml:"spine"`
}

type spineLine struct {
	Page      int    `json:"page" yaml:"page"`
	ID        string `json:"id" yaml:"id"`
	Href      string `json:"href" yaml:"href"`
	MediaType string `json:"media_type" yaml:"media_type"`
	Size      string `json:"size" yaml:"size"`
	Linear    bool   `json:"linear" yaml:"linear"`
}

func newSpineReport(b *epub.Book) spineReport {
	r := spineReport{
		Title:    b.Title,
		Creator:  b.Creator,
		Language: b.Language,
		Size:     humanize.Bytes(uint64(b.ArchiveSize())),
		BLAKE3:   b.Digest(),
		Chapters: b.Len(),
	}
	for i, item := range b.Spine {
		r.Spine = append(r.Spine, spineLine{
			Page:      i + 1,
			ID:        item.IDRef,
			Href:      item.Href,
			MediaType: item.MediaType,
			Size:      humanize.Bytes(item.Size),
			Linear:    item.Linear,
		})
	}
	return r
}
