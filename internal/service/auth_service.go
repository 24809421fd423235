package service

import (
	"context"

	"github.com/FastFix-SF/west-peak-roofing-app/common"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/config"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/jwt"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles portal authentication
type AuthService struct {
	userRepo   *repository.UserRepo
	cfg        *config.Config
	tokenStore *jwt.TokenStore
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepo, cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		cfg:        cfg,
		tokenStore: jwt.NewTokenStore(rdb, cfg.JWT.ExpireHours),
	}
}

// RegisterRequest represents an account provisioning request. Crew
// accounts come from the CRM import with a numeric id and role; office
// staff register with an explicit portal id.
type RegisterRequest struct {
	UserId   string `json:"user_id"`
	CrmId    int64  `json:"crm_id,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest represents a portal login request
type LoginRequest struct {
	UserId     string `json:"user_id"`
	Password   string `json:"password"`
	PlatformId int    `json:"platform_id"`
}

// LoginResponse represents a portal login response
type LoginResponse struct {
	Token    string           `json:"token"`
	UserInfo *entity.UserInfo `json:"user_info"`
}

// Register provisions a team member account. When no portal id is given
// the CRM identity derives it, and when no password is given one is
// derived from the id so the importer can hand it to the crew member
// without storing it.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.UserInfo, error) {
	userId := req.UserId
	if userId == "" {
		actor := common.Actor{Id: req.CrmId, Role: common.RoleType(req.Role)}
		derived, err := actor.ToPortalUserId()
		if err != nil {
			return nil, errcode.ErrInvalidParam.Wrap(err)
		}
		userId = derived
	}

	exists, err := s.userRepo.Exists(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "check user exists failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if exists {
		return nil, errcode.ErrUserExists
	}

	password := req.Password
	if password == "" {
		password = common.GeneratePasswordFromUserId(userId, s.cfg.JWT.Secret, 12)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash password failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	user := &entity.User{
		Id:       userId,
		Name:     req.Name,
		Role:     req.Role,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Avatar:   req.Avatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.CtxError(ctx, "create user failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "team member registered: user_id=%s, role=%s", userId, req.Role)
	return user.ToUserInfo(), nil
}

// Login authenticates a team member and returns a token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetById(ctx, req.UserId)
	if err != nil {
		log.CtxDebug(ctx, "user not found: user_id=%s, error=%v", req.UserId, err)
		return nil, errcode.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errcode.ErrPasswordWrong
	}

	token, err := jwt.GenerateToken(user.Id, req.PlatformId, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		log.CtxError(ctx, "generate token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	if err := s.tokenStore.StoreToken(ctx, user.Id, req.PlatformId, token); err != nil {
		log.CtxError(ctx, "store token failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	// Single device per platform policy
	kickedTokens, err := s.tokenStore.KickOtherTokens(ctx, user.Id, req.PlatformId, token)
	if err != nil {
		log.CtxWarn(ctx, "kick other tokens failed: %v", err)
	} else if len(kickedTokens) > 0 {
		log.CtxInfo(ctx, "kicked %d tokens for user_id=%s, platform_id=%d", len(kickedTokens), user.Id, req.PlatformId)
	}

	log.CtxInfo(ctx, "team member logged in: user_id=%s, platform_id=%d", user.Id, req.PlatformId)
	return &LoginResponse{
		Token:    token,
		UserInfo: user.ToUserInfo(),
	}, nil
}

// ValidateToken validates a token and returns claims
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if s.cfg.ExternalJWT.Enabled {
			return s.validateExternalToken(token)
		}
		return nil, err
	}

	valid, err := s.tokenStore.IsTokenValid(ctx, claims.UserId, claims.PlatformId, token)
	if err != nil {
		log.CtxWarn(ctx, "check token status failed: %v", err)
		// Fall back to JWT validation only if Redis check fails
		return claims, nil
	}
	if !valid {
		return nil, errcode.ErrTokenInvalid
	}
	return claims, nil
}

// validateExternalToken accepts hosted-auth tokens from the marketing
// site. Those sessions are not tracked in the token store.
func (s *AuthService) validateExternalToken(token string) (*jwt.Claims, error) {
	return jwt.ParseExternalToken(
		token,
		s.cfg.ExternalJWT.Secret,
		s.cfg.ExternalJWT.DefaultRole,
		s.cfg.ExternalJWT.DefaultPlatformId,
	)
}

// Logout invalidates a team member's token
func (s *AuthService) Logout(ctx context.Context, userId string, platformId int, token string) error {
	if err := s.tokenStore.InvalidateToken(ctx, userId, platformId, token); err != nil {
		log.CtxError(ctx, "invalidate token failed: %v", err)
		return errcode.ErrInternalServer
	}
	log.CtxInfo(ctx, "team member logged out: user_id=%s, platform_id=%d", userId, platformId)
	return nil
}

// ForceLogout forces logout for a team member on all platforms
func (s *AuthService) ForceLogout(ctx context.Context, userId string) error {
	if err := s.tokenStore.ForceLogoutUser(ctx, userId); err != nil {
		log.CtxError(ctx, "force logout failed: %v", err)
		return errcode.ErrInternalServer
	}
	log.CtxInfo(ctx, "team member force logged out: user_id=%s", userId)
	return nil
}
