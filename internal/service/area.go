package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jjenkins/fieldservice/internal/model"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"go.uber.org/zap"
)

// AreaService manages uploaded area maps.
type AreaService struct {
	base
	parser *Parser
}

// AreaUpload is a PDF submitted for an area.
type AreaUpload struct {
	Number   string
	Name     string
	Filename string
	Content  []byte
}

func areaID(a model.AreaDocument) string { return a.ID }

// List returns documents ordered by number.
func (s *AreaService) List(ctx context.Context) ([]model.AreaDocument, error) {
	items, err := s.areas.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b model.AreaDocument) int {
		return CompareNumbers(a.Number, b.Number)
	})
	return items, nil
}

// Get returns one document by id.
func (s *AreaService) Get(ctx context.Context, id string) (model.AreaDocument, error) {
	items, err := s.areas.Load(ctx)
	if err != nil {
		return model.AreaDocument{}, err
	}
	i := indexByID(items, id, areaID)
	if i < 0 {
		return model.AreaDocument{}, notFound("area", id)
	}
	return items[i], nil
}

// File returns the PDF bytes stored in a document's data URL. Documents that
// point at an external link have no stored file.
func (s *AreaService) File(ctx context.Context, id string) ([]byte, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b, ok := DecodeDataURL(doc.URL)
	if !ok {
		return nil, notFound("area file", id)
	}
	return b, nil
}

// Upload stores a PDF as a base64 data URL. Uploading the same file twice is
// rejected.
func (s *AreaService) Upload(ctx context.Context, up AreaUpload) (model.AreaDocument, error) {
	var v validator
	v.required("number", up.Number)
	if len(up.Content) == 0 {
		v.add("file", "required")
	}
	if err := v.err(); err != nil {
		return model.AreaDocument{}, err
	}

	parsed, err := s.parser.Parse(up.Content)
	if err != nil {
		return model.AreaDocument{}, &ValidationError{Fields: []FieldError{{"file", err.Error()}}}
	}

	name := strings.TrimSpace(up.Name)
	if name == "" {
		name = strings.TrimSuffix(up.Filename, ".pdf")
	}
	doc := model.AreaDocument{
		ID:         s.newID(),
		Number:     strings.TrimSpace(up.Number),
		Name:       name,
		URL:        parsed.DataURL,
		Tracking:   tracker.New(),
		UploadedAt: s.clock().Format(timestampLayout),
		Checksum:   parsed.Checksum,
		Pages:      parsed.Pages,
		Size:       parsed.Size,
	}

	err = s.areas.Update(ctx, func(items []model.AreaDocument) ([]model.AreaDocument, error) {
		for _, a := range items {
			if a.Checksum != "" && a.Checksum == doc.Checksum {
				return nil, &ValidationError{Fields: []FieldError{{"file", fmt.Sprintf("already uploaded as area %s", a.Number)}}}
			}
		}
		return append(items, doc), nil
	})
	if err != nil {
		return model.AreaDocument{}, err
	}
	s.logger.Info("area document uploaded", zap.String("id", doc.ID), zap.String("number", doc.Number), zap.Int("pages", doc.Pages))
	return doc, nil
}

// ChangeStatus records a status transition on an area document.
func (s *AreaService) ChangeStatus(ctx context.Context, id, status string) (model.AreaDocument, error) {
	st, err := tracker.ParseStatus(status)
	if err != nil {
		return model.AreaDocument{}, err
	}
	at := s.clock()
	var out model.AreaDocument
	err = s.areas.Update(ctx, func(items []model.AreaDocument) ([]model.AreaDocument, error) {
		i := indexByID(items, id, areaID)
		if i < 0 {
			return nil, notFound("area", id)
		}
		next, err := items[i].Tracking.Apply(st, at)
		if err != nil {
			return nil, err
		}
		items[i].Tracking = next
		out = items[i]
		return items, nil
	})
	return out, err
}

func (s *AreaService) Delete(ctx context.Context, id string) error {
	return s.areas.Update(ctx, func(items []model.AreaDocument) ([]model.AreaDocument, error) {
		i := indexByID(items, id, areaID)
		if i < 0 {
			return nil, notFound("area", id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}
