package identity

import (
	"context"
	"time"
)

// PatchInput carries a partial user update; nil fields are left untouched.
type PatchInput struct {
	UserTypeID        *int       `json:"id_tipousuario"`
	Name              *string    `json:"nombre"`
	PaternalSurname   *string    `json:"ap_paterno"`
	MaternalSurname   *string    `json:"ap_materno"`
	BirthDate         *time.Time `json:"fecha_nacimiento"`
	PersonalPhone     *string    `json:"telefono_personal"`
	ContactPhone      *string    `json:"telefono_contacto"`
	Email             *string    `json:"email"`
	StateID           *int       `json:"id_estado"`
	MunicipalityID    *int       `json:"id_municipio"`
	Neighborhood      *string    `json:"colonia"`
	Street            *string    `json:"calle"`
	InteriorNumber    *string    `json:"numero_int"`
	ExteriorNumber    *string    `json:"numero_ext"`
	PostalCode        *string    `json:"codigo_postal"`
	BusinessName      *string    `json:"razon_social"`
	RFC               *string    `json:"rfc"`
	GenderID          *int       `json:"id_genero"`
	UserStatusID      *int       `json:"id_estatus_usuario"`
	MaritalStatusID   *int       `json:"id_estatus_marital"`
	HousingCategoryID *int       `json:"id_categoria_vivienda"`
}

// Empty reports whether the patch carries no fields at all.
func (p PatchInput) Empty() bool {
	return p.UserTypeID == nil && p.Name == nil && p.PaternalSurname == nil &&
		p.MaternalSurname == nil && p.BirthDate == nil && p.PersonalPhone == nil &&
		p.ContactPhone == nil && p.Email == nil && p.StateID == nil &&
		p.MunicipalityID == nil && p.Neighborhood == nil && p.Street == nil &&
		p.InteriorNumber == nil && p.ExteriorNumber == nil && p.PostalCode == nil &&
		p.BusinessName == nil && p.RFC == nil && p.GenderID == nil &&
		p.UserStatusID == nil && p.MaritalStatusID == nil && p.HousingCategoryID == nil
}

// Update replaces every mutable field of the user after re-running the
// registration schema against the replacement values.
func (s *Service) Update(ctx context.Context, id int, input RegisterInput) (User, error) {
	if err := validateRegister(input); err != nil {
		return User{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	user := existing
	user.UserTypeID = input.UserTypeID
	user.Name = input.Name
	user.PaternalSurname = input.PaternalSurname
	user.MaternalSurname = input.MaternalSurname
	user.BirthDate = input.BirthDate
	user.PersonalPhone = input.PersonalPhone
	user.ContactPhone = input.ContactPhone
	user.Email = input.Email
	user.StateID = input.StateID
	user.MunicipalityID = input.MunicipalityID
	user.Neighborhood = input.Neighborhood
	user.Street = input.Street
	user.InteriorNumber = input.InteriorNumber
	user.ExteriorNumber = input.ExteriorNumber
	user.PostalCode = input.PostalCode
	user.BusinessName = input.BusinessName
	user.RFC = input.RFC
	user.GenderID = input.GenderID
	user.UserStatusID = input.UserStatusID
	user.MaritalStatusID = input.MaritalStatusID
	user.HousingCategoryID = input.HousingCategoryID

	return s.repo.Update(ctx, user)
}

// Patch applies only the provided fields, then validates the merged result.
func (s *Service) Patch(ctx context.Context, id int, patch PatchInput) (User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	merged := existing
	if patch.UserTypeID != nil {
		merged.UserTypeID = *patch.UserTypeID
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.PaternalSurname != nil {
		merged.PaternalSurname = *patch.PaternalSurname
	}
	if patch.MaternalSurname != nil {
		merged.MaternalSurname = *patch.MaternalSurname
	}
	if patch.BirthDate != nil {
		merged.BirthDate = patch.BirthDate
	}
	if patch.PersonalPhone != nil {
		merged.PersonalPhone = *patch.PersonalPhone
	}
	if patch.ContactPhone != nil {
		merged.ContactPhone = *patch.ContactPhone
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.StateID != nil {
		merged.StateID = *patch.StateID
	}
	if patch.MunicipalityID != nil {
		merged.MunicipalityID = *patch.MunicipalityID
	}
	if patch.Neighborhood != nil {
		merged.Neighborhood = *patch.Neighborhood
	}
	if patch.Street != nil {
		merged.Street = *patch.Street
	}
	if patch.InteriorNumber != nil {
		merged.InteriorNumber = *patch.InteriorNumber
	}
	if patch.ExteriorNumber != nil {
		merged.ExteriorNumber = *patch.ExteriorNumber
	}
	if patch.PostalCode != nil {
		merged.PostalCode = *patch.PostalCode
	}
	if patch.BusinessName != nil {
		merged.BusinessName = *patch.BusinessName
	}
	if patch.RFC != nil {
		merged.RFC = *patch.RFC
	}
	if patch.GenderID != nil {
		merged.GenderID = *patch.GenderID
	}
	if patch.UserStatusID != nil {
		merged.UserStatusID = *patch.UserStatusID
	}
	if patch.MaritalStatusID != nil {
		merged.MaritalStatusID = *patch.MaritalStatusID
	}
	if patch.HousingCategoryID != nil {
		merged.HousingCategoryID = *patch.HousingCategoryID
	}

	if err := validateRegister(toRegisterInput(merged)); err != nil {
		return User{}, err
	}

	return s.repo.Update(ctx, merged)
}

// Get fetches a single user by id.
func (s *Service) Get(ctx context.Context, id int) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of users with the total count.
func (s *Service) List(ctx context.Context, page, limit int) ([]User, int, error) {
	return s.repo.List(ctx, page, limit)
}

// Delete removes the user.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func toRegisterInput(user User) RegisterInput {
	return RegisterInput{
		UserTypeID:        user.UserTypeID,
		Name:              user.Name,
		PaternalSurname:   user.PaternalSurname,
		MaternalSurname:   user.MaternalSurname,
		BirthDate:         user.BirthDate,
		PersonalPhone:     user.PersonalPhone,
		ContactPhone:      user.ContactPhone,
		Email:             user.Email,
		StateID:           user.StateID,
		MunicipalityID:    user.MunicipalityID,
		Neighborhood:      user.Neighborhood,
		Street:            user.Street,
		InteriorNumber:    user.InteriorNumber,
		ExteriorNumber:    user.ExteriorNumber,
		PostalCode:        user.PostalCode,
		BusinessName:      user.BusinessName,
		RFC:               user.RFC,
		GenderID:          user.GenderID,
		UserStatusID:      user.UserStatusID,
		MaritalStatusID:   user.MaritalStatusID,
		HousingCategoryID: user.HousingCategoryID,
	}
}
