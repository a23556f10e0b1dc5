package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CandidateSessionKey returns the cache key for a candidate's login session
func (r *CacheKeyStruct) CandidateSessionKey(candidateID int) string {
	return fmt.Sprintf("login:%d", candidateID)
}

// CandidateAnswersKey returns the cache key for a candidate's autosaved answers
func (r *CacheKeyStruct) CandidateAnswersKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:answers", attemptID)
}

// CandidateOngoingAttemptKey returns the cache key mapping a candidate to their ongoing attempt
func (r *CacheKeyStruct) CandidateOngoingAttemptKey(candidateID int) string {
	return fmt.Sprintf("candidate:%d:ongoing_attempt", candidateID)
}

// TestConfigKey returns the cache key for a published test's configuration
func (r *CacheKeyStruct) TestConfigKey(testID string) string {
	return fmt.Sprintf("test:%s:config", testID)
}

var CacheKey = NewCacheKeyStruct()
