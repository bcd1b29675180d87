package receipt

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkaleta/paragon/internal/ocr"
	"github.com/pkaleta/paragon/internal/parse"
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles the receipt pipeline: read an image, transcribe it,
// interpret the transcription, and persist the outcome.
type Service struct {
	db          DB
	reader      ocr.Reader
	parser      *parse.Parser
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new receipt service
func NewService(db DB, reader ocr.Reader, parser *parse.Parser, storage Storage) *Service {
	return NewServiceWithDeps(db, reader, parser, storage, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new receipt service with injected dependencies
func NewServiceWithDeps(db DB, reader ocr.Reader, parser *parse.Parser, storage Storage, idGen IDGenerator, timeSource TimeSource) *Service {
	return &Service{
		db:          db,
		reader:      reader,
		parser:      parser,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSource,
	}
}

// ProcessFile reads a receipt image from disk and runs the full pipeline.
func (s *Service) ProcessFile(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return s.ProcessImage(data, contentType, filepath.Base(path))
}

// ProcessImage transcribes an image, interprets the text, and stores the
// original alongside the parsed result.
func (s *Service) ProcessImage(data []byte, contentType, filename string) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	sourcePath, err := s.storage.Save(id+"_"+sanitizeFilename(filename), data)
	if err != nil {
		return nil, fmt.Errorf("storing original image: %w", err)
	}

	lines, err := s.reader.ReadLines(data, contentType)
	if err != nil {
		slog.Error("transcription failed", "id", id, "error", err)
		if cleanupErr := s.storage.Delete(sourcePath); cleanupErr != nil {
			slog.Warn("failed to clean up stored image", "path", sourcePath, "error", cleanupErr)
		}
		return nil, fmt.Errorf("transcribing image: %w", err)
	}

	return s.finish(id, now, sourcePath, contentType, lines)
}

// ParseLines interprets already transcribed text without any image handling.
func (s *Service) ParseLines(lines []string, sourceName string) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()
	return s.finish(id, now, sourceName, "text/plain", lines)
}

func (s *Service) finish(id string, now time.Time, sourcePath, contentType string, lines []string) (*Receipt, error) {
	result, err := s.parser.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("interpreting receipt text: %w", err)
	}

	rec := &Receipt{
		ID:          id,
		SourceFile:  sourcePath,
		ContentType: contentType,
		Parsed:      *result,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.storage.ExportJSON(id+".json", rec.Parsed); err != nil {
		return nil, fmt.Errorf("exporting result: %w", err)
	}

	if err := s.db.SaveReceipt(rec); err != nil {
		return nil, fmt.Errorf("saving receipt: %w", err)
	}

	return rec, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	return s.db.GetReceipt(id)
}

// ListReceipts returns all stored receipts
func (s *Service) ListReceipts() ([]*Receipt, error) {
	return s.db.ListReceipts()
}

// DeleteReceipt removes a receipt and its stored artifacts.
func (s *Service) DeleteReceipt(id string) error {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt: %w", err)
	}

	if rec.SourceFile != "" && rec.ContentType != "text/plain" {
		if err := s.storage.Delete(rec.SourceFile); err != nil {
			slog.Warn("failed to delete stored image", "path", rec.SourceFile, "error", err)
		}
	}
	if err := s.storage.Delete(id + ".json"); err != nil {
		slog.Warn("failed to delete exported result", "id", id, "error", err)
	}

	return s.db.DeleteReceipt(id)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
