// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"slices"

	"github.com/danielhkuo/lucky-ballot/models"
)

// AddParticipant registers a participant for the draw. Adding an ID that is
// already present is a no-op: the participant set stays duplicate-free and
// the ball count never inflates. Returns true when the set actually grew.
func AddParticipant(l *models.Lottery, participantID int64) (bool, error) {
	if l.Executed {
		return false, errAlreadyExecuted()
	}
	if !l.Config.Enabled {
		return false, errNotEnabled()
	}
	if l.HasParticipant(participantID) {
		return false, nil
	}
	l.ParticipantIDs = append(l.ParticipantIDs, participantID)
	return true, nil
}

// RemoveParticipant withdraws a participant before execution. Removing an
// absent ID is a no-op. Returns true when the set actually shrank.
func RemoveParticipant(l *models.Lottery, participantID int64) (bool, error) {
	if l.Executed {
		return false, errAlreadyExecuted()
	}
	idx := slices.Index(l.ParticipantIDs, participantID)
	if idx < 0 {
		return false, nil
	}
	l.ParticipantIDs = slices.Delete(l.ParticipantIDs, idx, idx+1)
	return true, nil
}
