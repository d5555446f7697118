package entities

import (
	"strconv"
	"strings"

	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision accepts either an explicit decision word or the legacy
// `rejected` flag. An empty input means reject.
func ParseDecision(decision string, rejected string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "accept", "accepted":
		return DecisionAccept, nil
	case "reject", "rejected":
		return DecisionReject, nil
	case "":
	default:
		return "", domainerrors.ErrInvalidDecision
	}

	raw := strings.TrimSpace(rejected)
	if raw == "" {
		return DecisionReject, nil
	}
	flag, err := strconv.ParseBool(raw)
	if err != nil {
		return "", domainerrors.ErrInvalidDecision
	}
	if flag {
		return DecisionReject, nil
	}
	return DecisionAccept, nil
}
