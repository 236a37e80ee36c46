package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TeamSessionKey returns the cache key for a team's login session
func (r *CacheKeyStruct) TeamSessionKey(teamID int) string {
	return fmt.Sprintf("login:team:%d", teamID)
}

// QuestionStartKey returns the cache key marking when a team first
// fetched the question at the given position (advisory timing only)
func (r *CacheKeyStruct) QuestionStartKey(teamID, position int) string {
	return fmt.Sprintf("team:%d:position:%d:started", teamID, position)
}

// StandingsKey returns the ZSET key holding live team scores
func (r *CacheKeyStruct) StandingsKey() string {
	return "round:standings"
}

// FeedChannel returns the Redis PubSub channel name for the judge feed
func (r *CacheKeyStruct) FeedChannel() string {
	return "round:feed"
}

var CacheKey = NewCacheKeyStruct()
