package redis

import "strconv"

// Redis key naming conventions for vestro data.
// All keys are prefixed with "vestro:" to avoid collisions.

const keyPrefix = "vestro:"

// sessionKey returns the Hash key for a session: vestro:session:{id}
func sessionKey(id string) string { return keyPrefix + "session:" + id }

// resultKey returns the Hash key for a step result:
// vestro:result:{sessionID}:{step}
func resultKey(sessionID string, stepNumber int) string {
	return keyPrefix + "result:" + sessionID + ":" + strconv.Itoa(stepNumber)
}

// resultIndexKey returns the Set key tracking which step numbers have
// results for a session.
func resultIndexKey(sessionID string) string {
	return keyPrefix + "result_idx:" + sessionID
}

// profileKey returns the Hash key for a user profile: vestro:profile:{userID}
func profileKey(userID string) string { return keyPrefix + "profile:" + userID }
