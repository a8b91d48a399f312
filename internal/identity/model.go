package identity

import "time"

// User represents a registered member. CodeHash holds the bcrypt hash of the
// one-time access code and is excluded from every outward representation.
type User struct {
	ID                int        `json:"id_usuario"`
	UserTypeID        int        `json:"id_tipousuario"`
	Name              string     `json:"nombre"`
	PaternalSurname   string     `json:"ap_paterno,omitempty"`
	MaternalSurname   string     `json:"ap_materno,omitempty"`
	BirthDate         *time.Time `json:"fecha_nacimiento,omitempty"`
	PersonalPhone     string     `json:"telefono_personal"`
	ContactPhone      string     `json:"telefono_contacto,omitempty"`
	Email             string     `json:"email"`
	CodeHash          []byte     `json:"-"`
	StateID           int        `json:"id_estado"`
	MunicipalityID    int        `json:"id_municipio"`
	Neighborhood      string     `json:"colonia"`
	Street            string     `json:"calle"`
	InteriorNumber    string     `json:"numero_int,omitempty"`
	ExteriorNumber    string     `json:"numero_ext,omitempty"`
	PostalCode        string     `json:"codigo_postal"`
	BusinessName      string     `json:"razon_social,omitempty"`
	RFC               string     `json:"rfc,omitempty"`
	RegisteredAt      time.Time  `json:"fecha_registro"`
	GenderID          int        `json:"id_genero"`
	UserStatusID      int        `json:"id_estatus_usuario"`
	MaritalStatusID   int        `json:"id_estatus_marital"`
	HousingCategoryID int        `json:"id_categoria_vivienda"`
}
