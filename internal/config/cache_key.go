package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SubjectsKey returns the cache key for the full subject list
func (r *CacheKeyStruct) SubjectsKey() string {
	return "subjects:all"
}

// SubjectThemesKey returns the cache key for a subject's theme list
func (r *CacheKeyStruct) SubjectThemesKey(subjectID int) string {
	return fmt.Sprintf("subject:%d:themes", subjectID)
}

// UserRolesKey returns the cache key for a user's role slugs
func (r *CacheKeyStruct) UserRolesKey(userID string) string {
	return fmt.Sprintf("user:%s:roles", userID)
}

// QuizQuestionsKey returns the cache key for a quiz's assembled question set
func (r *CacheKeyStruct) QuizQuestionsKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:questions", quizID)
}

// GenerationJobKey returns the cache key for a generation job's state
func (r *CacheKeyStruct) GenerationJobKey(jobID string) string {
	return fmt.Sprintf("generation:%s", jobID)
}

// SessionEventsChannel returns the Redis PubSub channel for a quiz's live session events
func (r *CacheKeyStruct) SessionEventsChannel(quizID string) string {
	return fmt.Sprintf("quiz:%s:sessions", quizID)
}

var CacheKey = NewCacheKeyStruct()
