package dto

// MemberEmail wraps a member email, the element type of every member list
// in group responses
type MemberEmail struct {
	Email string `json:"email"`
}

// GroupInfo represents a group in responses
type GroupInfo struct {
	Name    string        `json:"name"`
	Members []MemberEmail `json:"members"`
}

// CreateGroupRequest carries the name and initial member emails of a group
type CreateGroupRequest struct {
	Name         *string   `json:"name"`
	MemberEmails *[]string `json:"memberEmails"`
}

// EmailsRequest lists member emails to add to or remove from a group
type EmailsRequest struct {
	Emails *[]string `json:"emails"`
}

// DeleteGroupRequest identifies the group to delete by name
type DeleteGroupRequest struct {
	Name *string `json:"name"`
}

// GroupChange reports the outcome of creating a group or adding members:
// the resulting group plus the emails that were skipped and why
type GroupChange struct {
	Group           GroupInfo     `json:"group"`
	AlreadyInGroup  []MemberEmail `json:"alreadyInGroup"`
	MembersNotFound []MemberEmail `json:"membersNotFound"`
}

// GroupRemoval reports the outcome of removing members from a group
type GroupRemoval struct {
	Group           GroupInfo     `json:"group"`
	NotInGroup      []MemberEmail `json:"notInGroup"`
	MembersNotFound []MemberEmail `json:"membersNotFound"`
}
