package application

import (
	"context"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	"stayhub/contexts/stay-marketplace/listing-service/domain/services"
)

type CreateAmenityInput struct {
	Name string
}

func (s Service) CreateAmenity(ctx context.Context, token string, input CreateAmenityInput) (entities.Amenity, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Amenity{}, err
	}
	if err := services.Authorize(p, services.ActionCreate, services.Resource{Kind: services.ResourceAmenity}); err != nil {
		return entities.Amenity{}, err
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Amenity{}, err
	}
	amenity, err := entities.NewAmenity(id, s.now(), input.Name)
	if err != nil {
		return entities.Amenity{}, err
	}
	created, err := s.Amenities.CreateAmenity(ctx, amenity)
	if err != nil {
		return entities.Amenity{}, err
	}
	ResolveLogger(s.Logger).Info("amenity created",
		"event", "amenity_created",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"amenity_id", created.ID,
	)
	s.publish(ctx, "amenity_created", "amenity", created.ID, created)
	return created, nil
}

func (s Service) GetAmenity(ctx context.Context, id string) (entities.Amenity, error) {
	return s.Amenities.GetAmenity(ctx, id)
}

func (s Service) ListAmenities(ctx context.Context) ([]entities.Amenity, error) {
	return s.Amenities.ListAmenities(ctx)
}

func (s Service) UpdateAmenity(ctx context.Context, token, id string, patch entities.AmenityPatch) (entities.Amenity, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Amenity{}, err
	}
	amenity, err := s.Amenities.GetAmenity(ctx, id)
	if err != nil {
		return entities.Amenity{}, err
	}
	resource := services.Resource{Kind: services.ResourceAmenity, ID: amenity.ID}
	if err := services.Authorize(p, services.ActionUpdate, resource); err != nil {
		return entities.Amenity{}, err
	}
	if err := entities.ApplyAmenityPatch(&amenity, patch, s.now()); err != nil {
		return entities.Amenity{}, err
	}
	updated, err := s.Amenities.UpdateAmenity(ctx, amenity)
	if err != nil {
		return entities.Amenity{}, err
	}
	ResolveLogger(s.Logger).Info("amenity updated",
		"event", "amenity_updated",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"amenity_id", updated.ID,
	)
	s.publish(ctx, "amenity_updated", "amenity", updated.ID, updated)
	return updated, nil
}

// DeleteAmenity removes the amenity and detaches it from every listing that
// referenced it.
func (s Service) DeleteAmenity(ctx context.Context, token, id string) error {
	p, err := s.principal(token)
	if err != nil {
		return err
	}
	amenity, err := s.Amenities.GetAmenity(ctx, id)
	if err != nil {
		return err
	}
	resource := services.Resource{Kind: services.ResourceAmenity, ID: amenity.ID}
	if err := services.Authorize(p, services.ActionDelete, resource); err != nil {
		return err
	}
	if err := s.Amenities.DeleteAmenity(ctx, id); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("amenity deleted",
		"event", "amenity_deleted",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"amenity_id", id,
	)
	s.publish(ctx, "amenity_deleted", "amenity", id, nil)
	return nil
}
