// Package pdfchunk splits PDFs into fixed-size page chunks so oversized
// documents fit the external extraction service's page limit.
package pdfchunk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/ports"
)

const DefaultPagesPerChunk = 15

type Splitter struct {
	pagesPerChunk int
}

func NewSplitter(pagesPerChunk int) *Splitter {
	if pagesPerChunk <= 0 {
		pagesPerChunk = DefaultPagesPerChunk
	}
	return &Splitter{pagesPerChunk: pagesPerChunk}
}

// Split writes the source into a scoped temp directory and produces one
// chunk file per page range, in page order. The returned ChunkSet owns the
// directory; Close removes everything regardless of how extraction went.
func (s *Splitter) Split(ctx context.Context, src io.Reader) (ports.ChunkSet, error) {
	dir, err := os.MkdirTemp("", "pdfchunk-*")
	if err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}

	set := &chunkSet{dir: dir}
	if err := s.split(ctx, src, set); err != nil {
		_ = set.Close()
		return nil, err
	}
	return set, nil
}

func (s *Splitter) split(ctx context.Context, src io.Reader, set *chunkSet) error {
	sourcePath := filepath.Join(set.dir, "source.pdf")
	f, err := os.Create(sourcePath)
	if err != nil {
		return fmt.Errorf("create source file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("write source file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close source file: %w", err)
	}

	pageCount, err := api.PageCountFile(sourcePath)
	if err != nil {
		return fmt.Errorf("count pdf pages: %w", err)
	}
	if pageCount == 0 {
		return fmt.Errorf("pdf has no pages")
	}

	for start := 1; start <= pageCount; start += s.pagesPerChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + s.pagesPerChunk - 1
		if end > pageCount {
			end = pageCount
		}

		chunkPath := filepath.Join(set.dir, fmt.Sprintf("chunk_%04d.pdf", len(set.paths)+1))
		pages := []string{fmt.Sprintf("%d-%d", start, end)}
		if err := api.TrimFile(sourcePath, chunkPath, pages, nil); err != nil {
			return fmt.Errorf("write chunk pages %d-%d: %w", start, end, err)
		}
		set.paths = append(set.paths, chunkPath)
	}
	return nil
}

type chunkSet struct {
	dir   string
	paths []string
}

func (c *chunkSet) Paths() []string { return c.paths }

func (c *chunkSet) Close() error {
	return os.RemoveAll(c.dir)
}
