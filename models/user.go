package models

import (
	"context"
	"errors"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
	"gorm.io/gorm"
)

const (
	RoleAdministrator = "Administrator"
	RoleDSEngineer    = "DS Engineer"
	RoleProcurement   = "Procurement"
	RoleFinance       = "Finance"
	RoleGuest         = "Guest"
)

// ValidRoles is the closed role set; registration rejects anything else.
var ValidRoles = []string{RoleAdministrator, RoleDSEngineer, RoleProcurement, RoleFinance, RoleGuest}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:50;not null;default:Guest" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginInfo struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

/*
caches:
	User:$username
	Token:$token
	Tokens:$username
*/

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()
	limits := config.GetLimits()

	username := html.EscapeString(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, utils.InvalidInputf("username is required")
	}
	if len(input.Password) < limits.MinPasswordLength {
		return nil, utils.InvalidInputf("password must be at least %d characters", limits.MinPasswordLength)
	}
	if !IsValidRole(input.Role) {
		return nil, utils.InvalidInputf("invalid role %q", input.Role)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username: username,
		Password: string(hashedPassword),
		Role:     input.Role,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		return nil, err
	}
	return &user, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	user := User{}
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
			return nil, errors.New("invalid username or password")
		}
	}

	// Any compare failure refuses the login, including a corrupted stored
	// hash; only a mismatch message ever leaves this function.
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	tokenLifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24
	}

	// Track every live token per user so password changes can revoke all.
	if err := config.AddRedisSet("Tokens:"+user.Username, token); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token, user.Username, time.Duration(tokenLifespan)*time.Hour); err != nil {
		return nil, err
	}
	if !exists {
		if err := config.SetRedisObject("User:"+user.Username, &user, time.Duration(tokenLifespan)*time.Hour); err != nil {
			return nil, err
		}
	}

	return &LoginInfo{Token: token, Username: user.Username, Role: user.Role}, nil
}

// Logout destroys the current session token.
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, utils.InvalidInputf("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, utils.InvalidInputf("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return false, err
	}
	return true, nil
}

func GetProfile(ctx context.Context) (*User, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return nil, utils.InvalidInputf("user not found")
	}

	db := config.GetDB()
	var user User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
			return nil, utils.ErrorRecordNotFound
		}
	}
	user.Password = ""
	return &user, nil
}

func (user *User) DestroyAllSessions(ctx context.Context) error {
	allTokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return err
	}
	for _, token := range allTokens {
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			return err
		}
	}
	if err := config.RemoveRedisKey("Tokens:" + user.Username); err != nil {
		return err
	}
	return nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.InvalidInputf("user id is required")
	}
	limits := config.GetLimits()
	if len(newPassword) < limits.MinPasswordLength {
		return nil, utils.InvalidInputf("password must be at least %d characters", limits.MinPasswordLength)
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, utils.InvalidInputf("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := config.RemoveRedisKey("User:" + user.Username); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := user.DestroyAllSessions(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &user, tx.Commit().Error
}
