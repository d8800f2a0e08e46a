package handler

import (
	"strings"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// ProposeChangeRequest is the HTTP request body for
// POST /v1/governance/{domain}/changes.
type ProposeChangeRequest struct {
	ChangeType    string `json:"change_type"`
	ParameterName string `json:"parameter_name"`
	OldValue      string `json:"old_value"`
	NewValue      string `json:"new_value"`
	Reason        string `json:"reason"`
}

// Validate checks required fields. Allow-list and length checks live in the
// domain layer; this only rejects requests the engine could never accept.
func (r *ProposeChangeRequest) Validate() error {
	r.ChangeType = strings.TrimSpace(r.ChangeType)
	r.ParameterName = strings.TrimSpace(r.ParameterName)
	if r.ChangeType == "" {
		return dErrors.New(dErrors.CodeValidation, "change_type is required")
	}
	if r.ParameterName == "" {
		return dErrors.New(dErrors.CodeValidation, "parameter_name is required")
	}
	if r.NewValue == "" {
		return dErrors.New(dErrors.CodeValidation, "new_value is required")
	}
	return nil
}

// EscalateRequest is the HTTP request body for
// POST /v1/governance/{domain}/changes/{id}/escalate.
type EscalateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *EscalateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return nil
}

// CastVoteRequest is the HTTP request body for
// POST /v1/governance/{domain}/proposals/{id}/votes.
type CastVoteRequest struct {
	Direction string `json:"direction"`

	parsedDirection models.VoteDirection
}

func (r *CastVoteRequest) Validate() error {
	direction, err := models.ParseVoteDirection(strings.TrimSpace(r.Direction))
	if err != nil {
		return err
	}
	r.parsedDirection = direction
	return nil
}

// ParsedDirection returns the validated vote direction.
func (r *CastVoteRequest) ParsedDirection() models.VoteDirection {
	return r.parsedDirection
}
