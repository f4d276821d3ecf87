package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ezwallet/internal/domain"
	"ezwallet/internal/dto"
	"ezwallet/internal/repository"
	"ezwallet/pkg/telemetry"
)

var (
	ErrGroupNotFound     = errors.New("Group not found")
	ErrGroupExists       = errors.New("A group with the same name already exists")
	ErrGroupNameEmpty    = errors.New("Group name cannot be empty")
	ErrEmptyGroupName    = errors.New("Empty name")
	ErrAllEmailsInvalid  = errors.New("All the emails are invalid")
	ErrCallerInGroup     = errors.New("User already in a group")
	ErrGroupWouldBeEmpty = errors.New("Group will be empty after removing members")
	ErrMissingAttributes = errors.New("The request body does not contain all the necessary attributes")
)

// GroupService defines operations on user groups
type GroupService interface {
	// Create makes a new group. The caller joins automatically when their
	// email is not among the requested members.
	Create(ctx context.Context, callerEmail string, req *dto.CreateGroupRequest) (*dto.GroupChange, error)
	// List returns every group with its members
	List(ctx context.Context) ([]dto.GroupInfo, error)
	// Get returns one group by name
	Get(ctx context.Context, name string) (*dto.GroupInfo, error)
	// MemberEmails returns the member emails of a group, for access checks
	MemberEmails(ctx context.Context, name string) ([]string, error)
	// AddMembers adds existing, unaffiliated users to a group
	AddMembers(ctx context.Context, name string, req *dto.EmailsRequest) (*dto.GroupChange, error)
	// RemoveMembers removes members from a group, refusing to empty it
	RemoveMembers(ctx context.Context, name string, req *dto.EmailsRequest) (*dto.GroupRemoval, error)
	// Delete removes a group by name
	Delete(ctx context.Context, req *dto.DeleteGroupRequest) (*dto.Message, error)
}

type groupService struct {
	groups repository.GroupRepository
	users  repository.UserRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groups repository.GroupRepository, users repository.UserRepository) GroupService {
	return &groupService{groups: groups, users: users}
}

// Create makes a new group. The caller joins automatically when their email
// is not among the requested members.
func (s *groupService) Create(ctx context.Context, callerEmail string, req *dto.CreateGroupRequest) (*dto.GroupChange, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.group.create")
	defer span.End()

	if req.Name == nil || req.MemberEmails == nil {
		return nil, ErrMissingParameters
	}
	if *req.Name == "" {
		return nil, ErrGroupNameEmpty
	}

	span.SetAttributes(attribute.String("group.name", *req.Name))

	existing, err := s.groups.GetByName(ctx, *req.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "group exists")
		return nil, ErrGroupExists
	}

	emails := *req.MemberEmails
	callerListed := false
	for _, email := range emails {
		if email == callerEmail {
			callerListed = true
			break
		}
	}
	if !callerListed {
		emails = append(emails, callerEmail)
	}

	for _, email := range emails {
		if !dto.IsEmail(email) {
			return nil, ErrMailFormat
		}
	}

	valid, alreadyInGroup, notFound, _, err := s.triage(ctx, emails, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(valid) == 0 || (len(valid) == 1 && valid[0] == callerEmail) {
		span.SetStatus(codes.Error, "no usable emails")
		return nil, ErrAllEmailsInvalid
	}
	for _, email := range alreadyInGroup {
		if email.Email == callerEmail {
			span.SetStatus(codes.Error, "caller already grouped")
			return nil, ErrCallerInGroup
		}
	}

	group := &domain.Group{ID: uuid.New().String(), Name: *req.Name}
	for _, email := range valid {
		group.Members = append(group.Members, domain.GroupMember{Email: email})
	}
	if err := s.groups.Create(ctx, group); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.GroupChange{
		Group:           toGroupInfo(group),
		AlreadyInGroup:  alreadyInGroup,
		MembersNotFound: notFound,
	}, nil
}

// List returns every group with its members
func (s *groupService) List(ctx context.Context) ([]dto.GroupInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.group.list")
	defer span.End()

	groups, err := s.groups.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	infos := make([]dto.GroupInfo, 0, len(groups))
	for _, group := range groups {
		infos = append(infos, toGroupInfo(group))
	}

	span.SetStatus(codes.Ok, "")
	return infos, nil
}

// Get returns one group by name
func (s *groupService) Get(ctx context.Context, name string) (*dto.GroupInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.group.get")
	defer span.End()

	span.SetAttributes(attribute.String("group.name", name))

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if group == nil {
		span.SetStatus(codes.Error, "group not found")
		return nil, ErrGroupNotFound
	}

	span.SetStatus(codes.Ok, "")
	info := toGroupInfo(group)
	return &info, nil
}

// MemberEmails returns the member emails of a group, for access checks
func (s *groupService) MemberEmails(ctx context.Context, name string) ([]string, error) {
	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	emails := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		emails = append(emails, member.Email)
	}
	return emails, nil
}

// AddMembers adds existing, unaffiliated users to a group
func (s *groupService) AddMembers(ctx context.Context, name string, req *dto.EmailsRequest) (*dto.GroupChange, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.group.add_members")
	defer span.End()

	if req.Emails == nil {
		return nil, ErrMissingAttributes
	}

	span.SetAttributes(attribute.String("group.name", name))

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if group == nil {
		span.SetStatus(codes.Error, "group not found")
		return nil, ErrGroupNotFound
	}

	for _, email := range *req.Emails {
		if !dto.IsEmail(email) {
			return nil, ErrMailFormat
		}
	}

	valid, alreadyInGroup, notFound, _, err := s.triage(ctx, *req.Emails, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(valid) == 0 {
		span.SetStatus(codes.Error, "no usable emails")
		return nil, ErrAllEmailsInvalid
	}

	if err := s.groups.AddMembers(ctx, name, valid); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.GroupChange{
		Group:           toGroupInfo(updated),
		AlreadyInGroup:  alreadyInGroup,
		MembersNotFound: notFound,
	}, nil
}

// RemoveMembers removes members from a group, refusing to empty it
func (s *groupService) RemoveMembers(ctx context.Context, name string, req *dto.EmailsRequest) (*dto.GroupRemoval, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.group.remove_members")
	defer span.End()

	if req.Emails == nil {
		return nil, ErrMissingParameters
	}

	span.SetAttributes(attribute.String("group.name", name))

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if group == nil {
		span.SetStatus(codes.Error, "group not found")
		return nil, ErrGroupNotFound
	}

	for _, email := range *req.Emails {
		if !dto.IsEmail(email) {
			return nil, ErrMailFormat
		}
	}

	valid, _, notFound, notInGroup, err := s.triage(ctx, *req.Emails, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(valid) == 0 {
		span.SetStatus(codes.Error, "no usable emails")
		return nil, ErrAllEmailsInvalid
	}
	if len(group.Members) <= len(valid) {
		span.SetStatus(codes.Error, "would empty group")
		return nil, ErrGroupWouldBeEmpty
	}

	if err := s.groups.RemoveMembers(ctx, name, valid); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.GroupRemoval{
		Group:           toGroupInfo(updated),
		NotInGroup:      notInGroup,
		MembersNotFound: notFound,
	}, nil
}

// Delete removes a group by name
func (s *groupService) Delete(ctx context.Context, req *dto.DeleteGroupRequest) (*dto.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.group.delete")
	defer span.End()

	if req.Name == nil {
		return nil, ErrMissingParameters
	}
	if *req.Name == "" {
		return nil, ErrEmptyGroupName
	}

	span.SetAttributes(attribute.String("group.name", *req.Name))

	deleted, err := s.groups.Delete(ctx, *req.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if deleted == 0 {
		span.SetStatus(codes.Error, "group not found")
		return nil, ErrGroupNotFound
	}

	span.SetStatus(codes.Ok, "")
	return &dto.Message{Message: "Group deleted"}, nil
}

// triage splits emails into the ones usable for the operation and the ones
// to report back. With an empty groupName an email is usable when its user
// exists and belongs to no group; with a groupName it is usable when its
// user exists and is a member of that group.
func (s *groupService) triage(ctx context.Context, emails []string, groupName string) (valid []string, alreadyInGroup, notFound, notInGroup []dto.MemberEmail, err error) {
	alreadyInGroup = make([]dto.MemberEmail, 0)
	notFound = make([]dto.MemberEmail, 0)
	notInGroup = make([]dto.MemberEmail, 0)

	var members map[string]bool
	if groupName != "" {
		group, err := s.groups.GetByName(ctx, groupName)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		members = make(map[string]bool)
		if group != nil {
			for _, member := range group.Members {
				members[member.Email] = true
			}
		}
	}

	for _, email := range emails {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if user == nil {
			notFound = append(notFound, dto.MemberEmail{Email: email})
			continue
		}

		if groupName == "" {
			grouped, err := s.groups.GetByMemberEmail(ctx, email)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			if grouped != nil {
				alreadyInGroup = append(alreadyInGroup, dto.MemberEmail{Email: email})
				continue
			}
		} else if !members[email] {
			notInGroup = append(notInGroup, dto.MemberEmail{Email: email})
			continue
		}

		valid = append(valid, email)
	}
	return valid, alreadyInGroup, notFound, notInGroup, nil
}

func toGroupInfo(group *domain.Group) dto.GroupInfo {
	members := make([]dto.MemberEmail, 0, len(group.Members))
	for _, member := range group.Members {
		members = append(members, dto.MemberEmail{Email: member.Email})
	}
	return dto.GroupInfo{Name: group.Name, Members: members}
}
