// Package rolegate decides which authoring actions a profile role permits.
// Every authoring entry point consults it synchronously before touching state.
package rolegate

import "branchout/internal/models"

// Action is something a profile may attempt.
type Action string

const (
	ActionAuthorPlace Action = "author_place"
	ActionAuthorEvent Action = "author_event"
	ActionReviewOrgs  Action = "review_orgs"
)

// Decision is a structured allow/deny outcome. Reason is user-facing and only
// set on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates one action against one role. Roles outside the enumerated
// set are denied everything.
func Decide(role models.Role, action Action) Decision {
	switch role {
	case models.RoleUser:
		switch action {
		case ActionAuthorPlace:
			return allow()
		case ActionAuthorEvent:
			return deny("only approved organizations can post events")
		case ActionReviewOrgs:
			return deny("admin access required")
		}
	case models.RolePendingOrg:
		switch action {
		case ActionAuthorPlace, ActionAuthorEvent:
			return deny("your organization is awaiting admin approval")
		case ActionReviewOrgs:
			return deny("admin access required")
		}
	case models.RoleApprovedOrg:
		switch action {
		case ActionAuthorPlace, ActionAuthorEvent:
			return allow()
		case ActionReviewOrgs:
			return deny("admin access required")
		}
	case models.RoleAdmin:
		switch action {
		case ActionAuthorPlace:
			return allow()
		case ActionAuthorEvent:
			return deny("events are posted by approved organizations")
		case ActionReviewOrgs:
			return allow()
		}
	}
	return deny("unrecognized role")
}
