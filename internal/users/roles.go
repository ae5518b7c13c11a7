package users

// Role is the application-level role stored on a user row. The table reserves
// field_officer and partner for data attribution (depot webhooks, field audits);
// neither maps to a privilege tier, so they cannot pass any guard check.
type Role string

const (
	RoleResident     Role = "resident"
	RoleAdmin        Role = "admin"
	RoleSupAdmin     Role = "supadmin"
	RoleFieldOfficer Role = "field_officer"
	RolePartner      Role = "partner"
)

// ParseRole validates a role string against the known enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleResident, RoleAdmin, RoleSupAdmin, RoleFieldOfficer, RolePartner:
		return Role(s), true
	}
	return "", false
}

// Tier is an ordered privilege rank derived from a role. Ordering is the single
// source of truth for inheritance: supadmin ≥ admin ≥ resident. Roles outside
// the ladder (and unknown or empty roles) rank as TierNone, which satisfies
// nothing: absence of a tier is always a deny.
type Tier int

const (
	TierNone     Tier = 0
	TierResident Tier = 1
	TierAdmin    Tier = 2
	TierSupAdmin Tier = 3
)

func TierOf(role Role) Tier {
	switch role {
	case RoleResident:
		return TierResident
	case RoleAdmin:
		return TierAdmin
	case RoleSupAdmin:
		return TierSupAdmin
	}
	return TierNone
}

// Satisfies reports whether t grants at least the required tier. TierNone never
// satisfies anything, including itself: there is no operation that "requires"
// no tier (unguarded routes simply don't run the check).
func (t Tier) Satisfies(required Tier) bool {
	return required > TierNone && t >= required
}

func (t Tier) String() string {
	switch t {
	case TierResident:
		return "resident"
	case TierAdmin:
		return "admin"
	case TierSupAdmin:
		return "supadmin"
	}
	return "none"
}

// The named predicates below are the documented decision surface; each is a
// thin wrapper over the tier ladder so adding a role cannot silently fall out
// of one predicate but not another.

func IsAdminTier(role Role) bool    { return TierOf(role).Satisfies(TierAdmin) }
func IsSupAdminTier(role Role) bool { return TierOf(role).Satisfies(TierSupAdmin) }
func IsResidentTier(role Role) bool { return role == RoleResident }
func HasNoTier(role Role) bool      { return TierOf(role) == TierNone }

// EffectiveTier is what the guard consults: a deactivated user has no tier at
// all, regardless of stored role, so deactivation revokes privilege without
// touching the identity provider's session state.
func EffectiveTier(role Role, isActive bool) Tier {
	if !isActive {
		return TierNone
	}
	return TierOf(role)
}
