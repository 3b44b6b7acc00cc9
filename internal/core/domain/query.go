package domain

// DistributionRole narrows a listing to distributions the caller took part in.
type DistributionRole string

const (
	RoleAny              DistributionRole = "any"
	RoleCreator          DistributionRole = "creator"
	RoleSenderVerifier   DistributionRole = "sender_verifier"
	RoleReceiverVerifier DistributionRole = "receiver_verifier"
)

func (r DistributionRole) IsValid() bool {
	switch r {
	case RoleAny, RoleCreator, RoleSenderVerifier, RoleReceiverVerifier:
		return true
	}
	return false
}

// DistributionFilter selects distributions for read queries. Empty fields do not filter.
// DepartmentID matches either end of the distribution. Role is evaluated against UserID.
type DistributionFilter struct {
	DepartmentID string
	Status       DistributionStatus
	Role         DistributionRole
	UserID       string
}
