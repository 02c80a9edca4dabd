package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionInvite adds a member to a company.
	ActionInvite Action = "invite"
	// ActionApply submits an application to a job.
	ActionApply Action = "apply"
)
