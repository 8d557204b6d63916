package services

// Services defined in this package:
// - AuthService: GitLab OAuth login, admin password login, token refresh
// - OnboardingService: the role selection and setup state machine
// - CatalogService: colleges and cohorts
// - ApprovalService: join request decisions
// - ActivityService: GitLab connections and the synced activity read model
// - DashboardService: role-specific dashboard read models
// - AdminService: user and role administration
