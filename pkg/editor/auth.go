package editor

// Sheet modes.
const (
	ModeView = "view"
	ModeEdit = "edit"
)

// Subject is who is asking to edit, and on which sheet.
type Subject struct {
	UserID     string
	Privileged bool   // GM or assistant
	OwnerID    string // owner of the sheet's entity
	Mode       string // sheet mode
}

// Authorizer decides whether an edit trigger may open a session.
type Authorizer func(Subject) bool

// CanEdit allows privileged users, the entity's owner, and anyone on a
// sheet in edit mode.
func CanEdit(s Subject) bool {
	if s.Privileged {
		return true
	}
	if s.UserID != "" && s.UserID == s.OwnerID {
		return true
	}
	return s.Mode == ModeEdit
}
