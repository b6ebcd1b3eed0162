package domain

// Role is the closed set of caller roles the core switches on.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
)

// Actor is the resolved caller of an operation. Anonymous actors have an empty ID.
// Email is the account address carried in the token, lower-cased.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

// Anonymous returns the actor used for requests without credentials.
func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

func (a Actor) IsOrganizer() bool {
	return a.Role == RoleOrganizer && a.ID != ""
}

func (a Actor) IsAuthenticated() bool {
	return a.ID != "" && a.Role != RoleAnonymous
}

// ResolveRole picks the strongest role among stored role codes.
// Unknown codes are ignored; no known code yields RoleStudent.
func ResolveRole(codes []string) Role {
	role := RoleStudent
	for _, c := range codes {
		if Role(c) == RoleOrganizer {
			return RoleOrganizer
		}
	}
	return role
}
