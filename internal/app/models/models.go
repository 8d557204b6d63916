package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin  RoleType = "ADMIN"
	RoleMentor RoleType = "MENTOR"
	RoleIntern RoleType = "INTERN"
)

// SystemAssigner marks role assignments made by bootstrap tooling rather
// than by another user.
const SystemAssigner = "system"

// OnboardingState represents where an identity is in the onboarding sequence
type OnboardingState string

const (
	StateRoleSelection    OnboardingState = "ROLE_SELECTION"
	StateMentorOnboarding OnboardingState = "MENTOR_ONBOARDING"
	StateInternOnboarding OnboardingState = "INTERN_ONBOARDING"
	StateComplete         OnboardingState = "COMPLETE"
)

// JoinRequestStatus represents the lifecycle status of a join request.
// Transitions are monotone: PENDING may move to APPROVED or REJECTED,
// nothing moves out of APPROVED or REJECTED.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestApproved JoinRequestStatus = "APPROVED"
	JoinRequestRejected JoinRequestStatus = "REJECTED"
)

// DecisionOutcome is a mentor's verdict on a pending join request
type DecisionOutcome string

const (
	OutcomeApproved DecisionOutcome = "APPROVED"
	OutcomeRejected DecisionOutcome = "REJECTED"
)
