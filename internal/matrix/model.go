package matrix

// Entry states whether a user type may reach an application view.
// At most one entry exists per (user type, view) pair.
type Entry struct {
	ID         int  `json:"id_matrizacceso"`
	UserTypeID int  `json:"id_tipousuario"`
	ViewID     int  `json:"id_vista"`
	Allowed    bool `json:"estatus"`
}

// PatchInput carries a partial entry update; nil fields are left untouched.
type PatchInput struct {
	UserTypeID *int  `json:"id_tipousuario"`
	ViewID     *int  `json:"id_vista"`
	Allowed    *bool `json:"estatus"`
}

// Empty reports whether the patch carries no fields at all.
func (p PatchInput) Empty() bool {
	return p.UserTypeID == nil && p.ViewID == nil && p.Allowed == nil
}
