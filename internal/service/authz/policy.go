// Package authz implements the pure authorization policy gating every
// veterinarian operation.
package authz

// Operation enumerates the gated operations on veterinarian resources.
type Operation int

const (
	OpListPublic Operation = iota
	OpReadPublic
	OpRegister
	OpLogin
	OpListFull
	OpListAllAppointments
	OpDelete
	OpReadFull
	OpReadAppointments
	OpUpdate
)

// Actor identifies an authenticated caller: a specific veterinarian,
// possibly with administrator privileges. A nil *Actor means the caller
// presented no (valid) identity.
type Actor struct {
	VeterinarianID int64
	Admin          bool
}

// Authorize decides whether the caller may perform op against the
// veterinarian identified by targetID. Rules are evaluated in
// precedence order: public, administrator-only, self-or-admin.
// Anything not explicitly allowed is denied.
func Authorize(actor *Actor, targetID int64, op Operation) bool {
	switch op {
	case OpListPublic, OpReadPublic, OpRegister, OpLogin:
		return true
	case OpListFull, OpListAllAppointments, OpDelete:
		return actor != nil && actor.Admin
	case OpReadFull, OpReadAppointments, OpUpdate:
		if actor == nil {
			return false
		}
		return actor.Admin || actor.VeterinarianID == targetID
	}
	return false
}
