package service

import (
	"context"
	"slices"
	"strings"

	"github.com/jjenkins/fieldservice/internal/model"
)

type PublisherService struct {
	base
}

type PublisherInput struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Privilege   string `json:"privilege"`
	PioneerType string `json:"pioneerType"`
	IsCaptain   bool   `json:"isCaptain"`
	IsCart      bool   `json:"isCart"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

func (in *PublisherInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Privilege == "" {
		in.Privilege = model.PrivilegePublisher
	}
	if in.PioneerType == "" {
		in.PioneerType = model.PioneerNone
	}
}

func (in PublisherInput) validate() error {
	var v validator
	v.required("name", in.Name)
	if in.Gender != "" {
		v.oneOf("gender", in.Gender, model.Genders)
	}
	v.oneOf("privilege", in.Privilege, model.Privileges)
	v.oneOf("pioneerType", in.PioneerType, model.PioneerTypes)
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		v.add("email", "must be an email address")
	}
	return v.err()
}

func (in PublisherInput) applyTo(p *model.Publisher) {
	p.Name = in.Name
	p.Gender = in.Gender
	p.Privilege = in.Privilege
	p.PioneerType = in.PioneerType
	p.IsCaptain = in.IsCaptain
	p.IsCart = in.IsCart
	p.Phone = in.Phone
	p.Email = in.Email
}

func publisherID(p model.Publisher) string { return p.ID }

// List returns publishers sorted by name.
func (s *PublisherService) List(ctx context.Context) ([]model.Publisher, error) {
	items, err := s.publishers.Load(ctx)
	if err != nil {
		return nil, err
	}
	sortPublishers(items)
	return items, nil
}

// Captains returns the publishers who can lead a group.
func (s *PublisherService) Captains(ctx context.Context) ([]model.Publisher, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(items, func(p model.Publisher) bool { return !p.IsCaptain }), nil
}

func (s *PublisherService) Create(ctx context.Context, in PublisherInput) (model.Publisher, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Publisher{}, err
	}
	p := model.Publisher{ID: s.newID()}
	in.applyTo(&p)

	err := s.publishers.Update(ctx, func(items []model.Publisher) ([]model.Publisher, error) {
		items = append(items, p)
		sortPublishers(items)
		return items, nil
	})
	return p, err
}

func (s *PublisherService) Update(ctx context.Context, id string, in PublisherInput) (model.Publisher, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Publisher{}, err
	}
	var out model.Publisher
	err := s.publishers.Update(ctx, func(items []model.Publisher) ([]model.Publisher, error) {
		i := indexByID(items, id, publisherID)
		if i < 0 {
			return nil, notFound("publisher", id)
		}
		in.applyTo(&items[i])
		out = items[i]
		sortPublishers(items)
		return items, nil
	})
	return out, err
}

// Delete removes a publisher. Territories keep the dangling id; the name
// projection simply comes back empty.
func (s *PublisherService) Delete(ctx context.Context, id string) error {
	return s.publishers.Update(ctx, func(items []model.Publisher) ([]model.Publisher, error) {
		i := indexByID(items, id, publisherID)
		if i < 0 {
			return nil, notFound("publisher", id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

func sortPublishers(items []model.Publisher) {
	slices.SortStableFunc(items, func(a, b model.Publisher) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}
