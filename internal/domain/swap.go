package domain

import "time"

// Swap request status constants.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCancelled = "cancelled"
	SwapStatusCompleted = "completed"
)

// MaxMessageLength bounds request and response messages, in characters.
const MaxMessageLength = 500

// Action is a lifecycle operation a participant performs on a swap request.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Role of a participant relative to one swap request.
type Role int

const (
	RoleNone Role = iota
	RoleRequester
	RoleRequestee
)

// Listing directions relative to the listing user.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
	DirectionBoth     = "both"
)

// SwapRequest is a proposal from one user to another to exchange skills.
type SwapRequest struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	RequesteeID     string     `json:"requestee_id"`
	OfferedSkill    SkillRef   `json:"offered_skill"`
	WantedSkill     SkillRef   `json:"wanted_skill"`
	Message         string     `json:"message,omitempty"`
	Status          string     `json:"status"`
	ResponseMessage string     `json:"response_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

// Transition describes one legal edge of the lifecycle.
type Transition struct {
	From   string
	To     string
	Actors []Role
}

// Transitions returns the lifecycle table keyed by action. Rejected,
// cancelled and completed are terminal.
func Transitions() map[Action]Transition {
	return map[Action]Transition{
		ActionAccept:   {From: SwapStatusPending, To: SwapStatusAccepted, Actors: []Role{RoleRequestee}},
		ActionReject:   {From: SwapStatusPending, To: SwapStatusRejected, Actors: []Role{RoleRequestee}},
		ActionCancel:   {From: SwapStatusPending, To: SwapStatusCancelled, Actors: []Role{RoleRequester}},
		ActionComplete: {From: SwapStatusAccepted, To: SwapStatusCompleted, Actors: []Role{RoleRequester, RoleRequestee}},
	}
}

// ValidStatuses returns all swap request statuses.
func ValidStatuses() []string {
	return []string{
		SwapStatusPending,
		SwapStatusAccepted,
		SwapStatusRejected,
		SwapStatusCancelled,
		SwapStatusCompleted,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ActiveStatuses are the statuses covered by the one-active-request rule.
func ActiveStatuses() []string {
	return []string{SwapStatusPending, SwapStatusAccepted}
}

// DeletableStatuses are the statuses from which the requester may delete.
func DeletableStatuses() []string {
	return []string{SwapStatusPending, SwapStatusRejected}
}

// IsTerminal reports whether no further transition is possible.
func (s *SwapRequest) IsTerminal() bool {
	switch s.Status {
	case SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

// RoleOf returns the role userID plays in this request.
func (s *SwapRequest) RoleOf(userID string) Role {
	switch userID {
	case s.RequesterID:
		return RoleRequester
	case s.RequesteeID:
		return RoleRequestee
	default:
		return RoleNone
	}
}

// IsParticipant reports whether userID is the requester or the requestee.
func (s *SwapRequest) IsParticipant(userID string) bool {
	return s.RoleOf(userID) != RoleNone
}

// Counterpart returns the other participant's id, or "" for outsiders.
func (s *SwapRequest) Counterpart(userID string) string {
	switch s.RoleOf(userID) {
	case RoleRequester:
		return s.RequesteeID
	case RoleRequestee:
		return s.RequesterID
	default:
		return ""
	}
}

// CanPerform reports whether actorID holds a role allowed to perform action.
// Status is not considered.
func (s *SwapRequest) CanPerform(action Action, actorID string) bool {
	t, ok := Transitions()[action]
	if !ok {
		return false
	}
	role := s.RoleOf(actorID)
	for _, r := range t.Actors {
		if r == role {
			return true
		}
	}
	return false
}

// CanApply reports whether action is legal from the current status.
func (s *SwapRequest) CanApply(action Action) bool {
	t, ok := Transitions()[action]
	return ok && t.From == s.Status
}

// Apply moves the request along action's edge and stamps the matching
// timestamp. Callers check CanApply first.
func (s *SwapRequest) Apply(action Action, responseMessage string, now time.Time) {
	t := Transitions()[action]
	s.Status = t.To
	s.UpdatedAt = now

	switch action {
	case ActionAccept, ActionReject:
		s.RespondedAt = &now
		s.ResponseMessage = responseMessage
	case ActionCancel:
		s.CancelledAt = &now
	case ActionComplete:
		s.CompletedAt = &now
	}
}

// IsDeletable reports whether the requester may still remove the request.
func (s *SwapRequest) IsDeletable() bool {
	for _, st := range DeletableStatuses() {
		if s.Status == st {
			return true
		}
	}
	return false
}
