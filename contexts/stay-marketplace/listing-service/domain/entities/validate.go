package entities

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
)

const (
	maxNameLength  = 50
	maxTitleLength = 100
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domainerrors.ValidationError{Field: field, Reason: "must not be empty"}
	}
	if len(value) > maxNameLength {
		return domainerrors.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	return nil
}

func requireTitle(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domainerrors.ValidationError{Field: field, Reason: "must not be empty"}
	}
	if len(value) > maxTitleLength {
		return domainerrors.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxTitleLength)}
	}
	return nil
}

func requireEmail(value string) error {
	if !emailPattern.MatchString(value) {
		return domainerrors.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

func requireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domainerrors.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
