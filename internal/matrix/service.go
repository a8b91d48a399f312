package matrix

import "context"

// Service exposes access matrix operations on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds a matrix service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every permission statement.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// PermissionsFor returns the permission set for a user type. Callers must
// not rely on ordering.
func (s *Service) PermissionsFor(ctx context.Context, userTypeID int) ([]Entry, error) {
	return s.repo.ListByUserType(ctx, userTypeID)
}

// Get returns a single entry.
func (s *Service) Get(ctx context.Context, id int) (Entry, error) {
	return s.repo.Get(ctx, id)
}

// Create states a new permission for a (user type, view) pair.
func (s *Service) Create(ctx context.Context, userTypeID, viewID int, allowed bool) (Entry, error) {
	return s.repo.Create(ctx, Entry{UserTypeID: userTypeID, ViewID: viewID, Allowed: allowed})
}

// Update replaces every field of an existing entry.
func (s *Service) Update(ctx context.Context, id, userTypeID, viewID int, allowed bool) (Entry, error) {
	return s.repo.Update(ctx, Entry{ID: id, UserTypeID: userTypeID, ViewID: viewID, Allowed: allowed})
}

// Patch applies only the provided fields to an existing entry. The merged
// row passes through the repository's duplicate-pair check.
func (s *Service) Patch(ctx context.Context, id int, patch PatchInput) (Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if patch.UserTypeID != nil {
		entry.UserTypeID = *patch.UserTypeID
	}
	if patch.ViewID != nil {
		entry.ViewID = *patch.ViewID
	}
	if patch.Allowed != nil {
		entry.Allowed = *patch.Allowed
	}
	return s.repo.Update(ctx, entry)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
