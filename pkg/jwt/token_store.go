package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/redis/go-redis/v9"
)

// Token status constants
const (
	TokenStatusNormal = 1 // Token is valid
	TokenStatusKicked = 2 // Token was kicked by new login
	TokenStatusLogout = 3 // Token was logged out
)

// TokenStore manages token storage in Redis. Tokens for one user and
// platform live in a single hash: token -> status.
type TokenStore struct {
	rdb         *redis.Client
	expireHours int
}

// NewTokenStore creates a new TokenStore
func NewTokenStore(rdb *redis.Client, expireHours int) *TokenStore {
	return &TokenStore{rdb: rdb, expireHours: expireHours}
}

func (s *TokenStore) key(userId string, platformId int) string {
	return fmt.Sprintf(constant.RedisKeyToken(), userId, platformId)
}

// StoreToken stores a token with normal status
func (s *TokenStore) StoreToken(ctx context.Context, userId string, platformId int, token string) error {
	key := s.key(userId, platformId)
	if err := s.rdb.HSet(ctx, key, token, TokenStatusNormal).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, time.Duration(s.expireHours)*time.Hour).Err()
}

// IsTokenValid checks whether a token is present and has normal status
func (s *TokenStore) IsTokenValid(ctx context.Context, userId string, platformId int, token string) (bool, error) {
	status, err := s.rdb.HGet(ctx, s.key(userId, platformId), token).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	st, err := strconv.Atoi(status)
	if err != nil {
		return false, nil
	}
	return st == TokenStatusNormal, nil
}

// KickOtherTokens marks every token except keepToken as kicked and
// returns the kicked tokens. Single active session per platform.
func (s *TokenStore) KickOtherTokens(ctx context.Context, userId string, platformId int, keepToken string) ([]string, error) {
	key := s.key(userId, platformId)
	all, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var kicked []string
	for token, status := range all {
		if token == keepToken {
			continue
		}
		if status != strconv.Itoa(TokenStatusNormal) {
			continue
		}
		if err := s.rdb.HSet(ctx, key, token, TokenStatusKicked).Err(); err != nil {
			return kicked, err
		}
		kicked = append(kicked, token)
	}
	return kicked, nil
}

// InvalidateToken marks a single token as logged out
func (s *TokenStore) InvalidateToken(ctx context.Context, userId string, platformId int, token string) error {
	return s.rdb.HSet(ctx, s.key(userId, platformId), token, TokenStatusLogout).Err()
}

// ForceLogoutUser removes every token hash for the user on all platforms
func (s *TokenStore) ForceLogoutUser(ctx context.Context, userId string) error {
	for _, platformId := range []int{1, 2, 3} {
		if err := s.rdb.Del(ctx, s.key(userId, platformId)).Err(); err != nil {
			return err
		}
	}
	return nil
}
